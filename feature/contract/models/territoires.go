package models

type Region struct {
	ID         int    `gorm:"primaryKey;column:id;type:int"`
	Code       string `gorm:"column:code;not null"`
	Nom        string `gorm:"column:nom;not null"`
	TypeNom    int    `gorm:"column:type_nom;type:int;not null"`
	ChefLieuID int    `gorm:"column:chef_lieu_id;type:int;not null"`
}

func (Region) TableName() string {
	return "regions"
}

type Departement struct {
	ID         int    `gorm:"primaryKey;column:id;type:int"`
	Code       string `gorm:"column:code;not null"`
	Nom        string `gorm:"column:nom;not null"`
	TypeNom    int    `gorm:"column:type_nom;type:int;not null"`
	ChefLieuID int    `gorm:"column:chef_lieu_id;type:int;not null"`
	RegionID   *int   `gorm:"column:region_id;type:int"`
}

func (Departement) TableName() string {
	return "departements"
}

type CollectiviteDepartementale struct {
	ID       int    `gorm:"primaryKey;column:id;type:int"`
	Code     string `gorm:"column:code;not null"`
	Type     string `gorm:"column:type;not null"` // D or S
	Nom      string `gorm:"column:nom;not null"`
	TypeNom  int    `gorm:"column:type_nom;type:int;not null"`
	RegionID *int   `gorm:"column:region_id;type:int"`
}

func (CollectiviteDepartementale) TableName() string {
	return "collectivites_departementales"
}

type CollectiviteRegionale struct {
	ID       int    `gorm:"primaryKey;column:id;type:int"`
	Code     string `gorm:"column:code;not null"`
	Nom      string `gorm:"column:nom;not null"`
	RegionID *int   `gorm:"column:region_id;type:int"`
	TypeNom  int    `gorm:"column:type_nom;type:int;not null"`
	Type     string `gorm:"column:type;not null"` // R or U
}

func (CollectiviteRegionale) TableName() string {
	return "collectivites_regionales"
}

type EPCI struct {
	ID   int    `gorm:"primaryKey;column:id;type:int"`
	Code string `gorm:"column:code;not null"`
	Nom  string `gorm:"column:nom;not null"`
	Type string `gorm:"column:type;not null"`
}

func (EPCI) TableName() string {
	return "epci"
}

type Canton struct {
	ID                     int     `gorm:"primaryKey;column:id;type:int"`
	Code                   string  `gorm:"column:code;not null"`
	Type                   string  `gorm:"column:type;not null"`
	Composition            *string `gorm:"column:composition"`
	Nom                    string  `gorm:"column:nom;not null"`
	TypeNom                int     `gorm:"column:type_nom;type:int;not null"`
	DepartementID          *int    `gorm:"column:departement_id;type:int"`
	BureauCentralisateurID *int    `gorm:"column:bureau_centralisateur_id;type:int"`
	Geometry               *string `gorm:"column:geometry"`
}

func (Canton) TableName() string {
	return "cantons"
}

type CirconscriptionLegislative struct {
	ID            int     `gorm:"primaryKey;column:id;type:int"`
	Code          string  `gorm:"column:code;not null"`
	DepartementID *int    `gorm:"column:departement_id;type:int"` // NULL abroad and outside departments
	Geometry      *string `gorm:"column:geometry"`
}

func (CirconscriptionLegislative) TableName() string {
	return "circonscriptions_legislatives"
}

type CirconscriptionConsulaire struct {
	ID                           int    `gorm:"primaryKey;column:id;type:int"`
	Nom                          string `gorm:"column:nom;not null"`
	Consulats                    string `gorm:"column:consulats;not null"`
	NombreConseillers            int    `gorm:"column:nombre_conseillers;type:int;not null"`
	Pays                         string `gorm:"column:pays;not null"`
	CirconscriptionLegislativeID *int   `gorm:"column:circonscription_legislative_id;type:int"`
}

func (CirconscriptionConsulaire) TableName() string {
	return "circonscriptions_consulaires"
}
