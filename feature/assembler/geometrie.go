package assembler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"data-france/core/geometry"
	"data-france/core/join"
	"data-france/core/ordering"
	"data-france/core/sources"
	"data-france/core/tabular"
)

var geometryColumns = []string{"type", "code", "geometry"}

// keyedRecord is a record carrying its parsed natural key.
type keyedRecord struct {
	key ordering.Key
	rec tabular.Record
}

func lessKeyed(a, b keyedRecord) bool {
	return ordering.Less(a.key, b.key)
}

// keyed parses the natural key of every record of r.
func keyed(r *tabular.Reader) join.Stream[keyedRecord] {
	return join.StreamFunc[keyedRecord](func() (keyedRecord, error) {
		rec, err := r.Next()
		if err != nil {
			return keyedRecord{}, err
		}
		key, err := keyOf(rec)
		if err != nil {
			return keyedRecord{}, fmt.Errorf("line %d: %w", r.Line(), err)
		}
		return keyedRecord{key: key, rec: rec}, nil
	})
}

// features decodes the geometry stream of r. Rows without geometry are skipped.
func features(r *tabular.Reader) join.Stream[geometry.Feature] {
	return join.StreamFunc[geometry.Feature](func() (geometry.Feature, error) {
		for {
			rec, err := r.Next()
			if err != nil {
				return geometry.Feature{}, err
			}
			if !rec.Has("geometry") {
				continue
			}
			key, err := keyOf(rec)
			if err != nil {
				return geometry.Feature{}, fmt.Errorf("line %d: %w", r.Line(), err)
			}
			g, err := geometry.Decode(rec.Get("geometry"))
			if err != nil {
				return geometry.Feature{}, fmt.Errorf("line %d: %s: %w", r.Line(), key, err)
			}
			return geometry.Feature{Key: key, Geometry: g}, nil
		}
	})
}

// buildCommunesGeometrie consolidates the commune geometries one partition at a time,
// spills each partition to disk, then merges the sorted partitions.
func (a *Assembler) buildCommunesGeometrie(ctx context.Context, s *Session) error {
	consolidator := &geometry.Consolidator{Simplifier: a.simplifier, Sectors: a.overrides.Sectors}

	var parts []string
	defer func() {
		for _, p := range parts {
			_ = os.Remove(p)
		}
	}()

	for _, p := range geometry.Partitions() {
		if err := ctx.Err(); err != nil {
			return err
		}

		r, err := s.Source(sources.CommunesGeometrie)
		if err != nil {
			return err
		}
		res, err := consolidator.Consolidate(p, features(r))
		if err != nil {
			return fmt.Errorf("partition %s: %w", p, err)
		}
		s.logger.Info("Partition consolidated",
			zap.Stringer("partition", p),
			zap.Int("read", res.Read),
			zap.Int("fragments", res.Fragments),
			zap.Int("sectors", res.Sectors),
			zap.Int("features", len(res.Features)),
		)

		path := filepath.Join(a.build.OutputDir, fmt.Sprintf("%s.%s.csv", CommunesGeometrie, p))
		if err := writeFeatures(path, res.Features); err != nil {
			return fmt.Errorf("partition %s: %w", p, err)
		}
		parts = append(parts, path)
	}

	streams := make([]join.Stream[keyedRecord], 0, len(parts))
	for _, path := range parts {
		r, err := tabular.Open(path)
		if err != nil {
			return err
		}
		defer r.Close()
		streams = append(streams, keyed(r))
	}

	w, err := s.Intermediate(CommunesGeometrie, geometryColumns...)
	if err != nil {
		return err
	}

	merged := join.Merge(lessKeyed, streams...)
	for {
		kr, err := merged.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := w.WriteRecord(kr.rec); err != nil {
			return err
		}
	}
}

func writeFeatures(path string, fs []geometry.Feature) error {
	w, err := tabular.Create(path, geometryColumns...)
	if err != nil {
		return err
	}
	for _, f := range fs {
		hex, err := geometry.Encode(f.Geometry)
		if err != nil {
			_ = w.Abort()
			return fmt.Errorf("%s: %w", f.Key, err)
		}
		if err := w.Write(f.Key.Kind.String(), f.Key.Code, hex); err != nil {
			_ = w.Abort()
			return err
		}
	}
	return w.Commit()
}
