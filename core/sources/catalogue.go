package sources

import (
	"fmt"
	"sort"
)

// Source names.
const (
	ChangeLog                    = "mouvements_communes"
	CommunesCensus               = "population_communes"
	SubCommunesCensus            = "population_communes_associees_deleguees"
	Regions                      = "cog_regions"
	Departements                 = "cog_departements"
	CollectivitesDepartementales = "cog_collectivites_departementales"
	Communes                     = "communes"
	EPCI                         = "epci"
	CodesPostaux                 = "laposte_codes_postaux"
	CommunesGeometrie            = "communes_geometrie"
	Mairies                      = "mairies"
	Cantons                      = "cantons"
	CantonsGeometrie             = "cantons_geometrie"
	CirconscriptionsConsulaires  = "circonscriptions_consulaires"
	ElusMunicipaux               = "rne_municipaux"
	ElusDepartementaux           = "rne_departementaux"
	ElusRegionaux                = "rne_regionaux"
	DeputesEuropeens             = "rne_europeens"
	Deputes                      = "an_deputes"
	Groupes                      = "an_groupes"
	Partis                       = "an_partis"
	DeputesGroupes               = "an_deputes_groupes"
	DeputesPartis                = "an_deputes_partis"
)

var inseeLabels = []string{"TNCC", "NCC", "NCCENR", "LIBELLE"}

func withSuffix(suffix string, names ...string) []Column {
	out := make([]Column, len(names))
	for i, n := range names {
		out[i] = Column{Source: n + suffix}
	}
	return out
}

var catalogue = map[string]func() *Schema{
	ChangeLog: func() *Schema {
		columns := []Column{
			{"MOD", "mod"},
			{"DATE_EFF", "date"},
			{"TYPECOM_AV", "source_type"},
			{"COM_AV", "source_code"},
			{"TYPECOM_AP", "destination_type"},
			{"COM_AP", "destination_code"},
		}
		columns = append(columns, withSuffix("_AV", inseeLabels...)...)
		columns = append(columns, withSuffix("_AP", inseeLabels...)...)
		return NewSchema(ChangeLog, ',', columns...)
	},
	CommunesCensus: func() *Schema {
		return NewSchema(CommunesCensus, ';',
			Column{"DEPCOM", "code"},
			Column{"PMUN", "population_municipale"},
			Column{"PCAP", "population_cap"},
			Column{Source: "REG"}, Column{Source: "DEP"}, Column{Source: "ARR"},
			Column{Source: "CV"}, Column{Source: "CODCOM"}, Column{Source: "COM"},
			Column{Source: "PTOT"},
		)
	},
	SubCommunesCensus: func() *Schema {
		return NewSchema(SubCommunesCensus, ';',
			Column{"DEPCOM", "code"},
			Column{"PMUN", "population_municipale"},
			Column{"PCAP", "population_cap"},
			Column{Source: "REG"}, Column{Source: "DEP"}, Column{Source: "ARR"},
			Column{Source: "CV"}, Column{Source: "CODCOM"}, Column{Source: "COM"},
			Column{Source: "COMPARENT"}, Column{Source: "TYPECOM"}, Column{Source: "PTOT"},
		)
	},
	Regions: func() *Schema {
		return NewSchema(Regions, ',',
			Column{"REG", "code"},
			Column{"CHEFLIEU", "chef_lieu"},
			Column{"TNCC", "type_nom"},
			Column{"NCCENR", "nom"},
			Column{"LIBELLE", "libelle"},
			Column{Source: "NCC"},
		).Optional("libelle")
	},
	Departements: func() *Schema {
		return NewSchema(Departements, ',',
			Column{"DEP", "code"},
			Column{"REG", "region"},
			Column{"CHEFLIEU", "chef_lieu"},
			Column{"TNCC", "type_nom"},
			Column{"NCCENR", "nom"},
			Column{Source: "NCC"}, Column{Source: "LIBELLE"},
		)
	},
	CollectivitesDepartementales: func() *Schema {
		return NewSchema(CollectivitesDepartementales, ',',
			Column{"CTCD", "code"},
			Column{"REG", "region"},
			Column{"TNCC", "type_nom"},
			Column{"NCCENR", "nom"},
			Column{Source: "CHEFLIEU"}, Column{Source: "NCC"}, Column{Source: "LIBELLE"},
		)
	},
	Communes: func() *Schema {
		return canonical(Communes, ',', "type", "code", "nom", "type_nom", "departement",
			"commune_parent", "epci")
	},
	EPCI: func() *Schema {
		return NewSchema(EPCI, ',',
			Column{"EPCI", "code"},
			Column{"LIBEPCI", "nom"},
			Column{"NATURE_EPCI", "type"},
			Column{Source: "NB_COM"},
		)
	},
	CodesPostaux: func() *Schema {
		return NewSchema(CodesPostaux, ',',
			Column{"Code_commune_INSEE", "commune"},
			Column{"#Code_commune_INSEE", "commune"},
			Column{"Code_postal", "code"},
			Column{Source: "Nom_commune"}, Column{Source: "Nom_de_la_commune"},
			Column{Source: "Ligne_5"}, Column{Source: "Libellé_d_acheminement"},
			Column{Source: "coordonnees_gps"}, Column{Source: "coordonnees_geographiques"},
		)
	},
	CommunesGeometrie: func() *Schema {
		return canonical(CommunesGeometrie, ',', "type", "code", "geometry")
	},
	Mairies: func() *Schema {
		return canonical(Mairies, ',', "type", "code", "adresse", "accessibilite",
			"accessibilite_details", "localisation", "horaires", "email", "telephone", "site")
	},
	Cantons: func() *Schema {
		return canonical(Cantons, ',', "code", "type", "composition", "nom", "type_nom",
			"departement", "bureau_centralisateur")
	},
	CantonsGeometrie: func() *Schema {
		return canonical(CantonsGeometrie, ',', "code", "geometry")
	},
	CirconscriptionsConsulaires: func() *Schema {
		return NewSchema(CirconscriptionsConsulaires, ';',
			Column{"nom", "nom"},
			Column{"consulats", "consulats"},
			Column{"nombre_conseillers", "nombre_conseillers"},
			Column{"pays", "pays"},
			Column{"circonscription_législative", "circonscription_legislative"},
			Column{"circonscription_legislative", "circonscription_legislative"},
		)
	},
	ElusMunicipaux: func() *Schema {
		return canonical(ElusMunicipaux, ',', "code", "nom", "prenom", "sexe", "date_naissance",
			"profession", "date_debut_mandat", "fonction", "ordre_fonction", "date_debut_fonction",
			"date_debut_mandat_epci", "fonction_epci", "date_debut_fonction_epci", "nationalite",
			"parrainage2017").Optional("parrainage2017")
	},
	ElusDepartementaux: func() *Schema {
		return canonical(ElusDepartementaux, ',', "code", "nom", "prenom", "sexe", "date_naissance",
			"profession", "date_debut_mandat", "fonction", "ordre_fonction", "date_debut_fonction")
	},
	ElusRegionaux: func() *Schema {
		return canonical(ElusRegionaux, ',', "code", "code_sec", "nom", "prenom", "sexe",
			"date_naissance", "profession", "date_debut_mandat", "fonction", "ordre_fonction",
			"date_debut_fonction")
	},
	DeputesEuropeens: func() *Schema {
		return canonical(DeputesEuropeens, ',', "nom", "prenom", "sexe", "date_naissance",
			"profession", "date_debut_mandat")
	},
	Deputes: func() *Schema {
		return canonical(Deputes, ',', "code", "nom", "prenom", "sexe", "date_naissance",
			"legislature", "date_debut_mandat", "date_fin_mandat", "circonscription")
	},
	Groupes: func() *Schema {
		return canonical(Groupes, ',', "code", "nom", "sigle")
	},
	Partis: func() *Schema {
		return canonical(Partis, ',', "code", "nom", "sigle")
	},
	DeputesGroupes: func() *Schema {
		return canonical(DeputesGroupes, ',', "code_depute", "code", "relation", "date_debut", "date_fin").
			Optional("date_debut")
	},
	DeputesPartis: func() *Schema {
		return canonical(DeputesPartis, ',', "code_depute", "code", "date_debut", "date_fin").
			Optional("date_debut")
	},
}

// Lookup returns a fresh copy of a registered schema.
func Lookup(name string) (*Schema, error) {
	build, ok := catalogue[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	return build(), nil
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) *Schema {
	s, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Names lists the registered schemas.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for n := range catalogue {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
