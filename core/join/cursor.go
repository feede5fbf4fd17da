package join

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrQueryOutOfOrder is returned when a cursor is queried with a key lower than a previous one.
	ErrQueryOutOfOrder = errors.New("join query out of order")

	// ErrStreamUnsorted is returned when a secondary stream is not sorted by the join key.
	ErrStreamUnsorted = errors.New("join stream not sorted")
)

// Cursor walks a sorted secondary stream in step with a sorted primary stream.
type Cursor[K any, R any] struct {
	stream Stream[R]
	key    func(R) (K, error)
	cmp    func(a, b K) int

	current    R
	currentKey K
	buffered   bool
	exhausted  bool

	lastQuery K
	queried   bool
	read      int
}

// NewCursor returns a cursor over stream; key extracts the join key of a record and cmp
// orders keys consistently with the stream's sort order.
func NewCursor[K any, R any](stream Stream[R], key func(R) (K, error), cmp func(a, b K) int) *Cursor[K, R] {
	return &Cursor[K, R]{stream: stream, key: key, cmp: cmp}
}

// advance reads the next secondary record into the buffer.
func (c *Cursor[K, R]) advance() error {
	rec, err := c.stream.Next()
	if err == io.EOF {
		c.exhausted = true
		c.buffered = false
		var zero R
		c.current = zero
		return nil
	}
	if err != nil {
		return err
	}

	k, err := c.key(rec)
	if err != nil {
		return fmt.Errorf("join key of record %d: %w", c.read+1, err)
	}
	if c.read > 0 && c.cmp(k, c.currentKey) < 0 {
		return fmt.Errorf("%w: record %d has key %v after %v", ErrStreamUnsorted, c.read+1, k, c.currentKey)
	}

	c.read++
	c.current = rec
	c.currentKey = k
	c.buffered = true
	return nil
}

// Peek returns the buffered secondary record, reading the first one if needed.
// found is false once the stream is exhausted.
func (c *Cursor[K, R]) Peek() (rec R, found bool, err error) {
	if !c.buffered && !c.exhausted {
		if err := c.advance(); err != nil {
			return rec, false, err
		}
	}
	return c.current, c.buffered, nil
}

// Seek returns the secondary record whose key equals k, or found=false when there is
// none. Successive calls must use non-decreasing keys.
func (c *Cursor[K, R]) Seek(k K) (rec R, found bool, err error) {
	if c.queried && c.cmp(k, c.lastQuery) < 0 {
		return rec, false, fmt.Errorf("%w: %v after %v", ErrQueryOutOfOrder, k, c.lastQuery)
	}
	c.lastQuery = k
	c.queried = true

	for {
		if _, _, err := c.Peek(); err != nil {
			return rec, false, err
		}
		if c.exhausted {
			return rec, false, nil
		}
		if c.cmp(c.currentKey, k) >= 0 {
			break
		}
		if err := c.advance(); err != nil {
			return rec, false, err
		}
	}

	if c.cmp(c.currentKey, k) == 0 {
		return c.current, true, nil
	}
	return rec, false, nil
}

// Read returns the number of secondary records consumed so far.
func (c *Cursor[K, R]) Read() int {
	return c.read
}
