package join

import (
	"container/heap"
	"fmt"
	"io"
)

type mergeItem[R any] struct {
	rec    R
	source int
}

type mergeHeap[R any] struct {
	items []mergeItem[R]
	less  func(a, b R) bool
}

func (h *mergeHeap[R]) Len() int { return len(h.items) }

func (h *mergeHeap[R]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if h.less(a.rec, b.rec) {
		return true
	}
	if h.less(b.rec, a.rec) {
		return false
	}
	// equal keys keep stream order
	return a.source < b.source
}

func (h *mergeHeap[R]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *mergeHeap[R]) Push(x any) { h.items = append(h.items, x.(mergeItem[R])) }

func (h *mergeHeap[R]) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

// Merger is the k-way merge of sorted streams returned by Merge.
type Merger[R any] struct {
	streams []Stream[R]
	last    []R
	seen    []bool
	h       *mergeHeap[R]
	primed  bool
}

// Merge combines sorted streams into a single stream sorted by less. Records with equal
// keys come out in stream order.
func Merge[R any](less func(a, b R) bool, streams ...Stream[R]) *Merger[R] {
	return &Merger[R]{
		streams: streams,
		last:    make([]R, len(streams)),
		seen:    make([]bool, len(streams)),
		h:       &mergeHeap[R]{less: less},
	}
}

func (m *Merger[R]) pull(i int) error {
	rec, err := m.streams[i].Next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if m.seen[i] && m.h.less(rec, m.last[i]) {
		return fmt.Errorf("%w: merge input %d", ErrStreamUnsorted, i)
	}
	m.last[i] = rec
	m.seen[i] = true
	heap.Push(m.h, mergeItem[R]{rec: rec, source: i})
	return nil
}

// Next implements Stream.
func (m *Merger[R]) Next() (R, error) {
	if !m.primed {
		m.primed = true
		for i := range m.streams {
			if err := m.pull(i); err != nil {
				var zero R
				return zero, err
			}
		}
	}

	if m.h.Len() == 0 {
		var zero R
		return zero, io.EOF
	}

	item := heap.Pop(m.h).(mergeItem[R])
	if err := m.pull(item.source); err != nil {
		var zero R
		return zero, err
	}
	return item.rec, nil
}
