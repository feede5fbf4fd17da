package sources

import (
	"fmt"
	"strconv"
)

// TypeNom is the INSEE name-type code (TNCC) telling which article and which
// connecting word apply to a place name.
type TypeNom int

var typesNom = []struct {
	article   string
	charniere string
}{
	{"", "de "},
	{"", "d'"},
	{"le ", "du "},
	{"la ", "de la "},
	{"les ", "des "},
	{"l'", "de l'"},
	{"aux ", "des "},
	{"las ", "de las "},
	{"los ", "de los "},
}

// ParseTypeNom parses a TNCC column.
func ParseTypeNom(s string) (TypeNom, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= len(typesNom) {
		return 0, fmt.Errorf("invalid name type %q", s)
	}
	return TypeNom(n), nil
}

// Article is the article preceding the name ("la ", "l'", ...).
func (t TypeNom) Article() string {
	return typesNom[t].article
}

// Charniere is the connecting word used after a noun ("de la ", "du ", ...).
func (t TypeNom) Charniere() string {
	return typesNom[t].charniere
}

// WithCharniere prefixes name with the connecting word.
func (t TypeNom) WithCharniere(name string) string {
	return t.Charniere() + name
}
