package models

type Commune struct {
	ID                         int     `gorm:"primaryKey;column:id;type:int"`
	Code                       string  `gorm:"column:code;not null"`
	Type                       string  `gorm:"column:type;not null"`
	Nom                        string  `gorm:"column:nom;not null"`
	TypeNom                    int     `gorm:"column:type_nom;type:int;not null"`
	PopulationMunicipale       *int    `gorm:"column:population_municipale;type:int"`
	PopulationCAP              *int    `gorm:"column:population_cap;type:int"`
	DepartementID              *int    `gorm:"column:departement_id;type:int"`
	CommuneParentID            *int    `gorm:"column:commune_parent_id;type:int"`
	EPCIID                     *int    `gorm:"column:epci_id;type:int"`
	Geometry                   *string `gorm:"column:geometry"`
	MairieAdresse              *string `gorm:"column:mairie_adresse"`
	MairieAccessibilite        *string `gorm:"column:mairie_accessibilite"`
	MairieAccessibiliteDetails *string `gorm:"column:mairie_accessibilite_details"`
	MairieLocalisation         *string `gorm:"column:mairie_localisation"`
	MairieHoraires             string  `gorm:"column:mairie_horaires;not null"` // JSON, "[]" when unknown
	MairieEmail                *string `gorm:"column:mairie_email"`
	MairieTelephone            *string `gorm:"column:mairie_telephone"`
	MairieSite                 *string `gorm:"column:mairie_site"`
}

func (Commune) TableName() string {
	return "communes"
}

type CodePostal struct {
	ID   int    `gorm:"primaryKey;column:id;type:int"`
	Code string `gorm:"column:code;not null"`
}

func (CodePostal) TableName() string {
	return "codes_postaux"
}

type CodePostalCommune struct {
	CodePostalID int `gorm:"primaryKey;column:codepostal_id;type:int;autoIncrement:false"`
	CommuneID    int `gorm:"primaryKey;column:commune_id;type:int;autoIncrement:false"`
}

func (CodePostalCommune) TableName() string {
	return "codes_postaux_communes"
}
