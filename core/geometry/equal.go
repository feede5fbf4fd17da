package geometry

import (
	"math"

	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
)

// EqualTolerance is the share of the larger area that the symmetric difference of two
// geometries may cover for them to be considered equal.
const EqualTolerance = 1e-9

// Equal reports whether a and b cover the same area, vertex order and ring start
// notwithstanding.
func Equal(a, b geom.T) (bool, error) {
	sa, err := toSF(a)
	if err != nil {
		return false, err
	}
	sb, err := toSF(b)
	if err != nil {
		return false, err
	}

	diff, err := sf.SymmetricDifference(sa, sb)
	if err != nil {
		return false, err
	}

	scale := math.Max(sa.Area(), sb.Area())
	if scale == 0 {
		return diff.Area() == 0, nil
	}
	return diff.Area() <= EqualTolerance*scale, nil
}
