package geometry

import (
	"errors"
	"fmt"

	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
)

// Union repairs each input, computes their set union, repairs the result and returns it
// as a multipolygon.
func Union(gs ...geom.T) (*geom.MultiPolygon, error) {
	if len(gs) == 0 {
		return nil, errors.New("union of no geometry")
	}

	var acc sf.Geometry
	for i, g := range gs {
		repaired, err := Repair(g)
		if err != nil {
			return nil, fmt.Errorf("union member %d: %w", i, err)
		}
		s, err := toSF(repaired)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			acc = s
			continue
		}
		if acc, err = sf.Union(acc, s); err != nil {
			return nil, fmt.Errorf("union member %d: %w", i, err)
		}
	}

	g, err := fromSF(acc)
	if err != nil {
		return nil, err
	}
	mp, err := AsMultiPolygon(g)
	if err != nil {
		return nil, err
	}
	repaired, err := Repair(mp)
	if err != nil {
		return nil, err
	}
	return AsMultiPolygon(repaired)
}
