package geometry

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// AsMultiPolygon wraps a polygon into a single-member multipolygon and passes
// multipolygons through. Collections are flattened to their non-empty polygons.
func AsMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(t.Layout()).SetSRID(t.SRID())
		if t.NumLinearRings() == 0 {
			return mp, nil
		}
		if err := mp.Push(t); err != nil {
			return nil, err
		}
		return mp, nil
	case *geom.GeometryCollection:
		mp := geom.NewMultiPolygon(geom.XY)
		for _, member := range t.Geoms() {
			sub, err := AsMultiPolygon(member)
			if err != nil {
				return nil, err
			}
			for i := 0; i < sub.NumPolygons(); i++ {
				p := sub.Polygon(i)
				if p.NumLinearRings() == 0 {
					continue
				}
				if err := mp.Push(to2D(p)); err != nil {
					return nil, err
				}
			}
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
}

func to2D(p *geom.Polygon) *geom.Polygon {
	if p.Layout() == geom.XY {
		return p
	}
	return geom.NewPolygon(geom.XY).MustSetCoords(flatten2D(p.Coords()))
}

func flatten2D(rings [][]geom.Coord) [][]geom.Coord {
	out := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		out[i] = make([]geom.Coord, len(ring))
		for j, c := range ring {
			out[i][j] = geom.Coord{c[0], c[1]}
		}
	}
	return out
}

func polygonsOf(g geom.T) ([][][]geom.Coord, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		return [][][]geom.Coord{flatten2D(t.Coords())}, nil
	case *geom.MultiPolygon:
		coords := t.Coords()
		out := make([][][]geom.Coord, len(coords))
		for i, p := range coords {
			out[i] = flatten2D(p)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
}
