package tabular

import (
	"strconv"
	"strings"
)

// Null is the NULL sentinel understood by COPY ... WITH NULL AS '\N' CSV.
const Null = `\N`

// Record is one row of a header-bearing stream, keyed by column name.
type Record map[string]string

// Get returns the trimmed value of a column, or "" when the column is absent.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Has reports whether the column holds a non-empty value.
func (r Record) Has(column string) bool {
	return r.Get(column) != ""
}

// Int parses a column as an integer. ok is false when the column is empty or not numeric.
func (r Record) Int(column string) (n int, ok bool) {
	v := r.Get(column)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OrNull returns s, or Null when s is empty.
func OrNull(s string) string {
	if s == "" {
		return Null
	}
	return s
}

// ID formats an identifier, or Null when ok is false.
func ID(id int, ok bool) string {
	if !ok {
		return Null
	}
	return strconv.Itoa(id)
}
