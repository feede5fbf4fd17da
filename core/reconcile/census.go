package reconcile

import (
	"errors"
	"fmt"
	"io"

	"data-france/core/join"
	"data-france/core/tabular"
)

// Canonical census fields.
const (
	FieldCode       = "code"
	FieldMunicipale = "population_municipale"
	FieldCAP        = "population_cap"
)

// LoadCensus loads the population tables from the census of current communes and the
// census of associated and delegated communes.
func LoadCensus(full, sub join.Stream[tabular.Record]) (*Tables, error) {
	tables := NewTables()
	if err := loadTable(tables.Full, full); err != nil {
		return nil, fmt.Errorf("communes census: %w", err)
	}
	if err := loadTable(tables.Sub, sub); err != nil {
		return nil, fmt.Errorf("sub-communes census: %w", err)
	}
	return tables, nil
}

func loadTable(table Table, records join.Stream[tabular.Record]) error {
	for row := 2; ; row++ {
		rec, err := records.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		code := rec.Get(FieldCode)
		if code == "" {
			return fmt.Errorf("row %d: missing code", row)
		}
		if _, dup := table[code]; dup {
			return fmt.Errorf("row %d: duplicate code %s", row, code)
		}

		var p Population
		if rec.Has(FieldMunicipale) {
			if p.Municipale, err = atoi(rec, FieldMunicipale); err != nil {
				return fmt.Errorf("row %d: %w", row, err)
			}
		}
		if rec.Has(FieldCAP) {
			if p.CAP, err = atoi(rec, FieldCAP); err != nil {
				return fmt.Errorf("row %d: %w", row, err)
			}
		}
		table[code] = p
	}
}

func atoi(rec tabular.Record, field string) (int, error) {
	n, ok := rec.Int(field)
	if !ok {
		return 0, fmt.Errorf("%s is not a number: %q", field, rec.Get(field))
	}
	return n, nil
}
