package models

// Model is a downstream table.
type Model interface {
	TableName() string
}

// All returns every downstream table, in artifact build order.
func All() []Model {
	return []Model{
		Region{},
		Departement{},
		CollectiviteDepartementale{},
		CollectiviteRegionale{},
		EPCI{},
		Commune{},
		CodePostal{},
		CodePostalCommune{},
		Canton{},
		CirconscriptionLegislative{},
		CirconscriptionConsulaire{},
		EluMunicipal{},
		EluDepartemental{},
		EluRegional{},
		Depute{},
		DeputeEuropeen{},
	}
}

// Lookup returns the model of the named table.
func Lookup(table string) (Model, bool) {
	for _, m := range All() {
		if m.TableName() == table {
			return m, true
		}
	}
	return nil, false
}
