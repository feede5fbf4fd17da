package models

// Mandate holds the columns shared by the local officials, embedded after the
// seat columns.
type Mandate struct {
	Nom               string  `gorm:"column:nom;not null"`
	Prenom            string  `gorm:"column:prenom;not null"`
	Sexe              string  `gorm:"column:sexe;not null"`
	DateNaissance     string  `gorm:"column:date_naissance;type:date;not null"`
	Profession        *string `gorm:"column:profession"`
	DateDebutMandat   string  `gorm:"column:date_debut_mandat;type:date;not null"`
	Fonction          string  `gorm:"column:fonction;not null"`
	OrdreFonction     *int    `gorm:"column:ordre_fonction;type:int"`
	DateDebutFonction *string `gorm:"column:date_debut_fonction;type:date"`
}

type EluMunicipal struct {
	ID                    int     `gorm:"primaryKey;column:id;type:int"`
	CommuneID             int     `gorm:"column:commune_id;type:int;not null"`
	Mandate               `gorm:"embedded"`
	DateDebutMandatEPCI   *string `gorm:"column:date_debut_mandat_epci;type:date"`
	FonctionEPCI          string  `gorm:"column:fonction_epci;not null"`
	DateDebutFonctionEPCI *string `gorm:"column:date_debut_fonction_epci;type:date"`
	Nationalite           string  `gorm:"column:nationalite;not null"`
	Parrainage2017        string  `gorm:"column:parrainage2017;not null"`
}

func (EluMunicipal) TableName() string {
	return "elus_municipaux"
}

type EluDepartemental struct {
	ID       int `gorm:"primaryKey;column:id;type:int"`
	CantonID int `gorm:"column:canton_id;type:int;not null"`
	Mandate  `gorm:"embedded"`
}

func (EluDepartemental) TableName() string {
	return "elus_departementaux"
}

type EluRegional struct {
	ID                           int  `gorm:"primaryKey;column:id;type:int"`
	CollectiviteRegionaleID      int  `gorm:"column:collectivite_regionale_id;type:int;not null"`
	CollectiviteDepartementaleID *int `gorm:"column:collectivite_departementale_id;type:int"`
	Mandate                      `gorm:"embedded"`
}

func (EluRegional) TableName() string {
	return "elus_regionaux"
}

type DeputeEuropeen struct {
	ID              int     `gorm:"primaryKey;column:id;type:int"`
	Nom             string  `gorm:"column:nom;not null"`
	Prenom          string  `gorm:"column:prenom;not null"`
	Sexe            string  `gorm:"column:sexe;not null"`
	DateNaissance   string  `gorm:"column:date_naissance;type:date;not null"`
	Profession      *string `gorm:"column:profession"`
	DateDebutMandat string  `gorm:"column:date_debut_mandat;type:date;not null"`
}

func (DeputeEuropeen) TableName() string {
	return "deputes_europeens"
}

type Depute struct {
	ID                int     `gorm:"primaryKey;column:id;type:int"`
	CirconscriptionID int     `gorm:"column:circonscription_id;type:int;not null"`
	Code              string  `gorm:"column:code;not null"`
	Nom               string  `gorm:"column:nom;not null"`
	Prenom            string  `gorm:"column:prenom;not null"`
	Sexe              string  `gorm:"column:sexe;not null"`
	DateNaissance     string  `gorm:"column:date_naissance;type:date;not null"`
	Legislature       int     `gorm:"column:legislature;type:int;not null"`
	DateDebutMandat   string  `gorm:"column:date_debut_mandat;type:date;not null"`
	Groupe            string  `gorm:"column:groupe;not null"`
	Parti             string  `gorm:"column:parti;not null"`
	DateFinMandat     *string `gorm:"column:date_fin_mandat;type:date"`
	Relation          string  `gorm:"column:relation;not null"`
	Profession        *string `gorm:"column:profession"`
}

func (Depute) TableName() string {
	return "deputes"
}
