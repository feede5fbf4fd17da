package reconcile

import (
	"errors"
	"fmt"
)

// ErrInconsistentEvent is the sentinel matched by InconsistentEventError.
var ErrInconsistentEvent = errors.New("inconsistent event")

// InconsistentEventError reports an event referencing a code absent from the population
// table it should be in.
type InconsistentEventError struct {
	Event Event
	Code  string
	Table string
}

func (e *InconsistentEventError) Error() string {
	return fmt.Sprintf("%v: code %s absent from the %s population table", e.Event, e.Code, e.Table)
}

// Is makes errors.Is(err, ErrInconsistentEvent) match.
func (e *InconsistentEventError) Is(target error) bool {
	return target == ErrInconsistentEvent
}
