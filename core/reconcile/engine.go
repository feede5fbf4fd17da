package reconcile

import (
	"sort"
	"time"
)

// Engine replays events against population tables.
type Engine struct {
	tables *Tables
}

// NewEngine returns an engine mutating tables in place.
func NewEngine(tables *Tables) *Engine {
	return &Engine{tables: tables}
}

// Tables returns the tables being reconciled.
func (e *Engine) Tables() *Tables {
	return e.tables
}

// Replay applies, in chronological order, every event dated strictly after census.
// Events sharing a date are applied in change-log order. Replay stops at the first
// inconsistent event; events applied before it stay applied.
func (e *Engine) Replay(events []Event, census time.Time) (*Summary, error) {
	summary := &Summary{}

	pending := make([]Event, 0, len(events))
	for _, ev := range events {
		if !ev.EffectiveDate().After(census) {
			summary.BeforeCensus++
			continue
		}
		pending = append(pending, ev)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		di, dj := pending[i].EffectiveDate(), pending[j].EffectiveDate()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return pending[i].Sequence() < pending[j].Sequence()
	})

	for _, ev := range pending {
		if err := ev.validate(e.tables); err != nil {
			return summary, err
		}
		ev.apply(e.tables)

		switch ev.(type) {
		case *Restoration:
			summary.Restorations++
		case *Merger:
			summary.Mergers++
		case *CodeChange:
			summary.CodeChanges++
		}
	}

	return summary, nil
}

func (e *Restoration) validate(t *Tables) error {
	if _, ok := t.Sub[e.Old.Code]; !ok {
		return &InconsistentEventError{Event: e, Code: e.Old.Code, Table: "sub"}
	}
	return nil
}

func (e *Restoration) apply(t *Tables) {
	t.Full[e.New.Code] = t.Sub[e.Old.Code]
}

func (e *Merger) validate(t *Tables) error {
	for _, src := range e.Sources {
		if _, ok := t.Full[src.Code]; !ok {
			return &InconsistentEventError{Event: e, Code: src.Code, Table: "full"}
		}
	}
	return nil
}

func (e *Merger) apply(t *Tables) {
	var total Population
	for _, src := range e.Sources {
		p := t.Full[src.Code]
		t.Sub[src.Code] = p
		total = total.Add(p)
	}
	for _, src := range e.Sources {
		if src.Code != e.Destination.Code {
			delete(t.Full, src.Code)
		}
	}
	t.Full[e.Destination.Code] = total
}

func (e *CodeChange) validate(t *Tables) error {
	table, name := t.TableFor(e.Old.Kind)
	if _, ok := table[e.Old.Code]; !ok {
		return &InconsistentEventError{Event: e, Code: e.Old.Code, Table: name}
	}
	return nil
}

func (e *CodeChange) apply(t *Tables) {
	table, _ := t.TableFor(e.Old.Kind)
	p := table[e.Old.Code]
	if e.New.Code != e.Old.Code {
		delete(table, e.Old.Code)
	}
	table[e.New.Code] = p
}
