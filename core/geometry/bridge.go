package geometry

import (
	"fmt"

	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

func toSF(g geom.T) (sf.Geometry, error) {
	b, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return sf.Geometry{}, fmt.Errorf("failed to marshal geometry: %w", err)
	}
	s, err := sf.UnmarshalWKB(b, sf.NoValidate{})
	if err != nil {
		return sf.Geometry{}, fmt.Errorf("failed to load geometry: %w", err)
	}
	return s, nil
}

func fromSF(s sf.Geometry) (geom.T, error) {
	g, err := wkb.Unmarshal(s.AsBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to load geometry: %w", err)
	}
	return g, nil
}

// Area returns the planar area of a geometry, holes excluded, whatever the ring winding.
func Area(g geom.T) (float64, error) {
	s, err := toSF(g)
	if err != nil {
		return 0, err
	}
	return s.Area(), nil
}
