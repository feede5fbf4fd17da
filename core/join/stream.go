package join

import (
	"io"
)

// Stream is a forward-only sequence of records. Next returns io.EOF after the last record.
type Stream[R any] interface {
	Next() (R, error)
}

// StreamFunc adapts a function to the Stream interface.
type StreamFunc[R any] func() (R, error)

// Next implements Stream.
func (f StreamFunc[R]) Next() (R, error) {
	return f()
}

// SliceStream streams the elements of a slice.
type SliceStream[R any] struct {
	items []R
	pos   int
}

// FromSlice returns a stream over items.
func FromSlice[R any](items []R) *SliceStream[R] {
	return &SliceStream[R]{items: items}
}

// Next implements Stream.
func (s *SliceStream[R]) Next() (R, error) {
	if s.pos >= len(s.items) {
		var zero R
		return zero, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

// Collect drains a stream into a slice.
func Collect[R any](s Stream[R]) ([]R, error) {
	var out []R
	for {
		r, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
}
