package ids

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKey is returned by read-only lookups of a key that was never allocated.
	ErrUnknownKey = errors.New("unknown key")

	// ErrMalformedStore is returned when a backing file violates the store invariants.
	ErrMalformedStore = errors.New("malformed identifier store")

	// ErrUnknownColumn is returned when lookup fields do not match the store columns.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrClosed is returned when a store is used after Close or Discard.
	ErrClosed = errors.New("identifier store closed")
)

// UnknownKeyError reports a failed read-only lookup.
type UnknownKeyError struct {
	Store string
	Key   Fields
}

// Error implements the error interface
func (e *UnknownKeyError) Error() string {
	parts := make([]string, 0, len(e.Key))
	for _, name := range e.Key.names() {
		parts = append(parts, fmt.Sprintf("%s=%q", name, e.Key[name]))
	}
	return fmt.Sprintf("unknown key (%s) in %s", strings.Join(parts, ", "), e.Store)
}

// Is implements errors.Is support
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}
