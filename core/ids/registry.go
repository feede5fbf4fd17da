package ids

import (
	"path/filepath"
)

// Registry locates the store of each entity type inside a references directory.
type Registry struct {
	Dir string
	// Columns gives the key columns of stores that may be created from scratch.
	Columns map[string][]string
}

// DefaultColumns lists the key columns of the stores used by the reference dataset.
func DefaultColumns() map[string][]string {
	return map[string][]string{
		"regions":                       {"code"},
		"departements":                  {"code"},
		"collectivites_departementales": {"code"},
		"collectivites_regionales":      {"code"},
		"epci":                          {"code"},
		"communes":                      {"type", "code"},
		"codes_postaux":                 {"code"},
		"cantons":                       {"code"},
		"circonscriptions_legislatives": {"code"},
		"circonscriptions_consulaires":  {"nom"},
		"elus_municipaux":               {"commune_id", "nom", "prenom", "sexe", "date_naissance"},
		"elus_departementaux":           {"canton_id", "nom", "prenom", "sexe", "date_naissance"},
		"elus_regionaux":                {"collectivite_regionale_id", "nom", "prenom", "sexe", "date_naissance"},
		"deputes":                       {"code"},
		"deputes_europeens":             {"nom", "prenom", "date_naissance", "sexe"},
	}
}

// NewRegistry returns a registry over dir using DefaultColumns.
func NewRegistry(dir string) *Registry {
	return &Registry{Dir: dir, Columns: DefaultColumns()}
}

// Path returns the backing file of the named store.
func (r *Registry) Path(name string) string {
	return filepath.Join(r.Dir, name+".csv")
}

// Open opens the named store, creating it empty when its columns are known.
func (r *Registry) Open(name string, opts ...Option) (*Store, error) {
	if cols, ok := r.Columns[name]; ok {
		opts = append([]Option{WithCreate(cols...)}, opts...)
	}
	return Open(r.Path(name), opts...)
}
