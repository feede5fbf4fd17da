package ordering

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a type label is not part of the ordering table.
var ErrUnknownKind = errors.New("unknown entity kind")

// Kind is the entity type of a commune-like record.
type Kind int

const (
	// Commune is a full commune (COM).
	Commune Kind = iota
	// MunicipalArrondissement is a municipal arrondissement of Paris, Lyon or Marseille (ARM).
	MunicipalArrondissement
	// AssociatedCommune is a former commune kept as an associated commune (COMA).
	AssociatedCommune
	// DelegatedCommune is a former commune kept as a delegated commune (COMD).
	DelegatedCommune
	// ElectoralSector is a municipal electoral sector made of arrondissements (SRM).
	ElectoralSector
	// Unset sorts after every other kind.
	Unset
)

// labels is the single source of truth for kind precedence.
var labels = [...]string{
	Commune:                 "COM",
	MunicipalArrondissement: "ARM",
	AssociatedCommune:       "COMA",
	DelegatedCommune:        "COMD",
	ElectoralSector:         "SRM",
	Unset:                   "",
}

// Kinds returns every kind in precedence order.
func Kinds() []Kind {
	return []Kind{Commune, MunicipalArrondissement, AssociatedCommune, DelegatedCommune, ElectoralSector, Unset}
}

// ParseKind resolves a type label. The empty label is Unset.
func ParseKind(label string) (Kind, error) {
	for i, l := range labels {
		if l == label {
			return Kind(i), nil
		}
	}
	return Unset, fmt.Errorf("%w: %q", ErrUnknownKind, label)
}

// String returns the label used in source files and artifacts.
func (k Kind) String() string {
	if k < Commune || k > Unset {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return labels[k]
}

// Rank returns the precedence of the kind. Lower ranks sort first.
func (k Kind) Rank() int {
	return int(k)
}

// IsSubCommune reports whether the kind designates a historical sub-division of a
// commune, whose population lives in the sub-commune table.
func (k Kind) IsSubCommune() bool {
	return k == AssociatedCommune || k == DelegatedCommune
}
