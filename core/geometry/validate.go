package geometry

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// Validate reports whether g is a valid polygonal geometry in the OGC simple-feature
// sense: closed rings of at least four points, no self-intersections, holes inside
// their shell and non-overlapping multipolygon members.
func Validate(g geom.T) error {
	switch t := g.(type) {
	case *geom.Polygon:
		if err := checkRings(t.Coords()); err != nil {
			return err
		}
	case *geom.MultiPolygon:
		for i, p := range t.Coords() {
			if err := checkRings(p); err != nil {
				return fmt.Errorf("polygon %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}

	s, err := toSF(g)
	if err != nil {
		return err
	}
	return s.Validate()
}

func checkRings(rings [][]geom.Coord) error {
	for i, ring := range rings {
		if len(ring) < 4 {
			return fmt.Errorf("ring %d has %d points", i, len(ring))
		}
		if !ring[0].Equal(geom.XY, ring[len(ring)-1]) {
			return fmt.Errorf("ring %d is not closed", i)
		}
	}
	return nil
}
