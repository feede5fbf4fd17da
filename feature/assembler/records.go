package assembler

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"data-france/core/ids"
	"data-france/core/ordering"
	"data-france/core/sources"
	"data-france/core/tabular"
)

// each calls fn for every record of r, tagging errors with the source line.
func each(r *tabular.Reader, fn func(rec tabular.Record) error) error {
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("line %d: %w", r.Line(), err)
		}
	}
}

// keyOf returns the natural key of a commune-like record.
func keyOf(rec tabular.Record) (ordering.Key, error) {
	return ordering.KeyOf(rec.Get("type"), rec.Get("code"))
}

// typeNom validates a TNCC column and returns its canonical form.
func typeNom(rec tabular.Record) (string, error) {
	tn, err := sources.ParseTypeNom(rec.Get("type_nom"))
	if err != nil {
		return "", err
	}
	return strconv.Itoa(int(tn)), nil
}

// communeFields is the natural key of a commune in the communes store.
func communeFields(kind ordering.Kind, code string) ids.Fields {
	return ids.Fields{"type": kind.String(), "code": code}
}

// ErrNotCurrentCommune is returned when a reference names a commune absent from the
// current official geographic code.
var ErrNotCurrentCommune = errors.New("commune not in the current geographic code")

// currentCommunes returns the keys of the communes source, read once per session. The
// communes store also keeps entities that have since merged or disappeared; only these
// keys are published in the communes artifact.
func (s *Session) currentCommunes() (map[ordering.Key]bool, error) {
	if s.communes != nil {
		return s.communes, nil
	}
	r, err := s.Source(sources.Communes)
	if err != nil {
		return nil, err
	}
	current := make(map[ordering.Key]bool)
	err = each(r, func(rec tabular.Record) error {
		key, err := keyOf(rec)
		if err != nil {
			return err
		}
		current[key] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.communes = current
	return current, nil
}

// currentCommune returns the id of a commune-like entity of the current code. ok is false
// when the entity is not part of it, whatever the store holds.
func (s *Session) currentCommune(kind ordering.Kind, code string) (id string, ok bool, err error) {
	current, err := s.currentCommunes()
	if err != nil {
		return "", false, err
	}
	if !current[ordering.Key{Kind: kind, Code: code}] {
		return "", false, nil
	}
	id, err = s.Lookup(Communes, communeFields(kind, code))
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// chefLieu returns the id of the commune seat of a region or department. Seats are built
// before the communes artifact, so the id is allocated here, for current communes only.
func (s *Session) chefLieu(code string) (string, error) {
	current, err := s.currentCommunes()
	if err != nil {
		return "", err
	}
	if !current[ordering.Key{Kind: ordering.Commune, Code: code}] {
		return "", fmt.Errorf("chef-lieu %s: %w", code, ErrNotCurrentCommune)
	}
	return s.Allocate(Communes, communeFields(ordering.Commune, code))
}
