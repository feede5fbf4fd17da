package geometry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkbhex"
)

// Decode parses a geometry in one of the encodings produced by upstream extraction:
// WKB hex, GeoJSON geometry objects, or bare nested coordinate arrays
// ([[[x,y],...]] for a polygon, [[[[x,y],...]]] for a multipolygon).
func Decode(s string) (geom.T, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrUndecodable)
	}

	switch s[0] {
	case '{':
		var g geom.T
		if err := geojson.Unmarshal([]byte(s), &g); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		return g, nil
	case '[':
		return decodeNested(s)
	default:
		g, err := wkbhex.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		return g, nil
	}
}

func decodeNested(s string) (geom.T, error) {
	var multi [][][][]float64
	if err := json.Unmarshal([]byte(s), &multi); err == nil {
		coords := make([][][]geom.Coord, len(multi))
		for i, p := range multi {
			if coords[i], err = toCoords(p); err != nil {
				return nil, err
			}
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(coords)
	}

	var poly [][][]float64
	if err := json.Unmarshal([]byte(s), &poly); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	coords, err := toCoords(poly)
	if err != nil {
		return nil, err
	}
	return geom.NewPolygon(geom.XY).SetCoords(coords)
}

func toCoords(rings [][][]float64) ([][]geom.Coord, error) {
	out := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		out[i] = make([]geom.Coord, len(ring))
		for j, pt := range ring {
			if len(pt) < 2 {
				return nil, fmt.Errorf("%w: position with %d ordinates", ErrUndecodable, len(pt))
			}
			out[i][j] = geom.Coord{pt[0], pt[1]}
		}
	}
	return out, nil
}

// Encode serializes a polygonal geometry as a multipolygon in little-endian WKB,
// upper-case hex.
func Encode(g geom.T) (string, error) {
	mp, err := AsMultiPolygon(g)
	if err != nil {
		return "", err
	}
	s, err := wkbhex.Encode(mp, wkb.NDR)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}
