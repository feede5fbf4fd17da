package geometry

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/sync/errgroup"

	"data-france/core/ordering"
)

// Simplifier is the boundary to the topology-simplification service.
type Simplifier interface {
	Simplify(p Partition, features []Feature) ([]Feature, error)
}

// Identity leaves geometries untouched.
type Identity struct{}

// Simplify implements Simplifier.
func (Identity) Simplify(_ Partition, features []Feature) ([]Feature, error) {
	return features, nil
}

// streamLine is one line of the simplification protocol.
type streamLine struct {
	Partition string          `json:"partition,omitempty"`
	Type      string          `json:"type,omitempty"`
	Code      string          `json:"code,omitempty"`
	Geometry  json.RawMessage `json:"geometry,omitempty"`
	End       bool            `json:"end,omitempty"`
}

// StreamSimplifier talks to an external simplification service over a newline-delimited
// JSON protocol: one feature per line, GeoJSON geometries, and an {"end":true} line
// closing each batch in both directions. The service may split a feature into several
// fragments sharing its key.
//
// A failed exchange closes the request side, so a writer blocked on a service that
// stopped reading returns. The simplifier is unusable afterwards.
type StreamSimplifier struct {
	w io.WriteCloser
	r *bufio.Reader

	once   sync.Once
	closed bool
	cause  error
}

// NewStreamSimplifier returns a simplifier writing requests to w and reading answers from r.
func NewStreamSimplifier(w io.WriteCloser, r io.Reader) *StreamSimplifier {
	return &StreamSimplifier{w: w, r: bufio.NewReaderSize(r, 1<<20)}
}

// Simplify implements Simplifier.
func (s *StreamSimplifier) Simplify(p Partition, features []Feature) ([]Feature, error) {
	if s.closed {
		if s.cause != nil {
			return nil, fmt.Errorf("%w: earlier exchange failed: %v", ErrSimplifierClosed, s.cause)
		}
		return nil, ErrSimplifierClosed
	}

	var g errgroup.Group
	g.Go(func() error {
		err := s.send(p, features)
		if err != nil {
			s.abandon(err)
		}
		return err
	})

	out, rerr := s.receive()
	if rerr != nil {
		s.abandon(rerr)
	}
	werr := g.Wait()

	switch {
	case s.cause != nil:
		return nil, s.cause
	case werr != nil:
		return nil, werr
	}
	return out, nil
}

// Close ends the request stream.
func (s *StreamSimplifier) Close() error {
	var err error
	s.once.Do(func() {
		s.closed = true
		err = s.w.Close()
	})
	return err
}

// abandon records the first failure and closes the request side.
func (s *StreamSimplifier) abandon(cause error) {
	s.once.Do(func() {
		s.closed = true
		s.cause = cause
		_ = s.w.Close()
	})
}

func (s *StreamSimplifier) send(p Partition, features []Feature) error {
	bw := bufio.NewWriter(s.w)
	enc := json.NewEncoder(bw)

	for _, f := range features {
		raw, err := geojson.Marshal(f.Geometry)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Key, err)
		}
		line := streamLine{
			Partition: p.String(),
			Type:      f.Key.Kind.String(),
			Code:      f.Key.Code,
			Geometry:  raw,
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	if err := enc.Encode(streamLine{End: true}); err != nil {
		return err
	}
	return bw.Flush()
}

func (s *StreamSimplifier) receive() ([]Feature, error) {
	var out []Feature
	for {
		b, err := s.r.ReadBytes('\n')
		if err == io.EOF && len(b) == 0 {
			return nil, errors.New("simplifier closed the stream before the end marker")
		}
		if err != nil && err != io.EOF {
			return nil, err
		}

		var line streamLine
		if err := json.Unmarshal(b, &line); err != nil {
			return nil, fmt.Errorf("malformed simplifier line: %w", err)
		}
		if line.End {
			return out, nil
		}

		key, err := ordering.KeyOf(line.Type, line.Code)
		if err != nil {
			return nil, err
		}
		var g geom.T
		if err := geojson.Unmarshal(line.Geometry, &g); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, Feature{Key: key, Geometry: g})
	}
}
