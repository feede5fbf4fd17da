package geometry

import (
	"fmt"
	"math"

	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
)

// Repair returns g unchanged when it is valid. Otherwise it applies a zero-width
// cleanup: consecutive duplicate vertices and zero-area spikes are removed, degenerate
// rings and polygons are dropped, and overlapping multipolygon members are dissolved.
// A geometry that is still invalid afterwards yields ErrGeometryStillInvalid.
func Repair(g geom.T) (geom.T, error) {
	verr := Validate(g)
	if verr == nil {
		return g, nil
	}

	polys, err := polygonsOf(g)
	if err != nil {
		return nil, err
	}

	var cleaned [][][]geom.Coord
	for _, p := range polys {
		if c := cleanPolygon(p); c != nil {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no polygon left after cleanup (%v)", ErrGeometryStillInvalid, verr)
	}

	var out geom.T
	if _, single := g.(*geom.Polygon); single && len(cleaned) == 1 {
		out, err = geom.NewPolygon(geom.XY).SetCoords(cleaned[0])
	} else {
		out, err = geom.NewMultiPolygon(geom.XY).SetCoords(cleaned)
	}
	if err != nil {
		return nil, err
	}

	if verr = Validate(out); verr == nil {
		return out, nil
	}

	if len(cleaned) > 1 {
		if dissolved, err := dissolve(cleaned); err == nil {
			if verr = Validate(dissolved); verr == nil {
				return dissolved, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrGeometryStillInvalid, verr)
}

// dissolve unions the members of a multipolygon whose members are individually valid.
func dissolve(polys [][][]geom.Coord) (geom.T, error) {
	var acc sf.Geometry
	for i, p := range polys {
		poly, err := geom.NewPolygon(geom.XY).SetCoords(p)
		if err != nil {
			return nil, err
		}
		if err := Validate(poly); err != nil {
			return nil, err
		}
		s, err := toSF(poly)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			acc = s
			continue
		}
		if acc, err = sf.Union(acc, s); err != nil {
			return nil, err
		}
	}

	g, err := fromSF(acc)
	if err != nil {
		return nil, err
	}
	return AsMultiPolygon(g)
}

func cleanPolygon(rings [][]geom.Coord) [][]geom.Coord {
	if len(rings) == 0 {
		return nil
	}
	shell := cleanRing(rings[0])
	if shell == nil {
		return nil
	}
	out := [][]geom.Coord{shell}
	for _, hole := range rings[1:] {
		if h := cleanRing(hole); h != nil {
			out = append(out, h)
		}
	}
	return out
}

// cleanRing removes duplicate vertices and spikes from a ring and closes it. It returns
// nil for rings that collapse to no area.
func cleanRing(ring []geom.Coord) []geom.Coord {
	pts := make([]geom.Coord, 0, len(ring))
	for _, c := range ring {
		if len(pts) > 0 && samePoint(pts[len(pts)-1], c) {
			continue
		}
		pts = append(pts, c)
	}
	for len(pts) > 1 && samePoint(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}

	for removed := true; removed && len(pts) >= 3; {
		removed = false
		n := len(pts)
		for i := 0; i < n; i++ {
			prev, cur, next := pts[(i+n-1)%n], pts[i], pts[(i+1)%n]
			if !samePoint(prev, next) && !isSpike(prev, cur, next) {
				continue
			}
			pts = append(pts[:i:i], pts[i+1:]...)
			pts = dedupeCyclic(pts)
			removed = true
			break
		}
	}

	if len(pts) < 3 || math.Abs(signedArea(pts)) == 0 {
		return nil
	}
	return append(pts, pts[0])
}

func dedupeCyclic(pts []geom.Coord) []geom.Coord {
	out := pts[:0:0]
	for _, c := range pts {
		if len(out) > 0 && samePoint(out[len(out)-1], c) {
			continue
		}
		out = append(out, c)
	}
	for len(out) > 1 && samePoint(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func samePoint(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// isSpike reports whether cur is the tip of a zero-width spike: the path turns back on
// itself along the same line.
func isSpike(prev, cur, next geom.Coord) bool {
	ax, ay := cur[0]-prev[0], cur[1]-prev[1]
	bx, by := next[0]-cur[0], next[1]-cur[1]
	cross := ax*by - ay*bx
	dot := ax*bx + ay*by
	scale := math.Hypot(ax, ay) * math.Hypot(bx, by)
	return dot < 0 && math.Abs(cross) <= 1e-12*scale
}

func signedArea(pts []geom.Coord) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return sum / 2
}
