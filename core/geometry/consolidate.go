package geometry

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/twpayne/go-geom"

	"data-france/core/join"
	"data-france/core/ordering"
)

// Feature is the geometry of one entity.
type Feature struct {
	Key      ordering.Key
	Geometry geom.T
}

// Sector is a composite entity built as the union of municipal arrondissements.
type Sector struct {
	Code    string   `yaml:"code"`
	Members []string `yaml:"arrondissements"`
}

// Result is the outcome of consolidating one partition.
type Result struct {
	Features  []Feature
	Read      int
	Fragments int
	Sectors   int
}

// Consolidator turns a raw geometry stream into one valid multipolygon per key.
type Consolidator struct {
	Simplifier Simplifier
	Sectors    []Sector
}

// Consolidate reads every feature of partition p from features, repairs it, simplifies
// the partition and repairs the simplified fragments, unions fragments sharing a key,
// derives the sectors of the partition and returns the features sorted by key.
func (c *Consolidator) Consolidate(p Partition, features join.Stream[Feature]) (*Result, error) {
	res := &Result{}

	var buf []Feature
	for {
		f, err := features.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if PartitionOf(f.Key.Code) != p {
			continue
		}
		res.Read++

		repaired, err := Repair(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Key, err)
		}
		buf = append(buf, Feature{Key: f.Key, Geometry: repaired})
	}

	if c.Simplifier != nil {
		simplified, err := c.Simplifier.Simplify(p, buf)
		if err != nil {
			return nil, fmt.Errorf("simplification of %s failed: %w", p, err)
		}
		// simplification reintroduces zero-area spikes
		for i, f := range simplified {
			repaired, err := Repair(f.Geometry)
			if err != nil {
				return nil, fmt.Errorf("%s after simplification: %w", f.Key, err)
			}
			simplified[i].Geometry = repaired
		}
		buf = simplified
	}

	sortFeatures(buf)

	for i := 0; i < len(buf); {
		j := i + 1
		for j < len(buf) && ordering.Compare(buf[i].Key, buf[j].Key) == 0 {
			j++
		}

		var (
			mp  *geom.MultiPolygon
			err error
		)
		if j-i == 1 {
			mp, err = AsMultiPolygon(buf[i].Geometry)
		} else {
			members := make([]geom.T, 0, j-i)
			for _, f := range buf[i:j] {
				members = append(members, f.Geometry)
			}
			mp, err = Union(members...)
			res.Fragments += j - i
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", buf[i].Key, err)
		}

		res.Features = append(res.Features, Feature{Key: buf[i].Key, Geometry: mp})
		i = j
	}

	sectors, err := c.deriveSectors(p, res.Features)
	if err != nil {
		return nil, err
	}
	res.Sectors = len(sectors)
	res.Features = append(res.Features, sectors...)
	sortFeatures(res.Features)

	return res, nil
}

func (c *Consolidator) deriveSectors(p Partition, features []Feature) ([]Feature, error) {
	arrondissements := make(map[string]geom.T)
	present := make(map[string]bool)
	for _, f := range features {
		switch f.Key.Kind {
		case ordering.MunicipalArrondissement:
			arrondissements[f.Key.Code] = f.Geometry
		case ordering.ElectoralSector:
			present[f.Key.Code] = true
		}
	}

	var out []Feature
	for _, s := range c.Sectors {
		if PartitionOf(s.Code) != p || present[s.Code] {
			continue
		}

		var members []geom.T
		var missing []string
		for _, code := range s.Members {
			if g, ok := arrondissements[code]; ok {
				members = append(members, g)
			} else {
				missing = append(missing, code)
			}
		}
		if len(members) == 0 {
			continue
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("sector %s: missing arrondissements %s", s.Code, strings.Join(missing, ", "))
		}

		mp, err := Union(members...)
		if err != nil {
			return nil, fmt.Errorf("sector %s: %w", s.Code, err)
		}
		out = append(out, Feature{
			Key:      ordering.Key{Kind: ordering.ElectoralSector, Code: s.Code},
			Geometry: mp,
		})
	}
	return out, nil
}

func sortFeatures(fs []Feature) {
	sort.SliceStable(fs, func(i, j int) bool {
		return ordering.Less(fs[i].Key, fs[j].Key)
	})
}

// LessFeature orders features by key, for merging consolidated partitions.
func LessFeature(a, b Feature) bool {
	return ordering.Less(a.Key, b.Key)
}
