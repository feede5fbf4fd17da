package reconcile

import (
	"fmt"
	"strings"
	"time"

	"data-france/core/ordering"
)

// Population holds the census figures of one commune.
type Population struct {
	// Municipale is the municipal population.
	Municipale int `json:"population_municipale"`

	// CAP is the population counted apart ("comptée à part").
	CAP int `json:"population_cap"`
}

// Add returns the element-wise sum of p and o.
func (p Population) Add(o Population) Population {
	return Population{Municipale: p.Municipale + o.Municipale, CAP: p.CAP + o.CAP}
}

// Table maps a commune code to its population.
type Table map[string]Population

// Tables are the two population tables mutated by the engine.
type Tables struct {
	// Full holds current communes.
	Full Table

	// Sub holds associated and delegated communes.
	Sub Table
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{Full: Table{}, Sub: Table{}}
}

// TableFor returns the table holding entities of kind k, and its name.
func (t *Tables) TableFor(k ordering.Kind) (Table, string) {
	if k.IsSubCommune() {
		return t.Sub, "sub"
	}
	return t.Full, "full"
}

// Lookup returns the population of a commune-like entity.
func (t *Tables) Lookup(key ordering.Key) (Population, bool) {
	table, _ := t.TableFor(key.Kind)
	p, ok := table[key.Code]
	return p, ok
}

// Event is an administrative lifecycle event. Events are created once from a change-log
// and consumed once by Replay.
type Event interface {
	// EffectiveDate is the date the event takes effect.
	EffectiveDate() time.Time

	// Sequence is the position of the event in its change-log.
	Sequence() int

	validate(t *Tables) error
	apply(t *Tables)
}

// Restoration turns a former sub-commune back into a full commune.
type Restoration struct {
	Date time.Time
	Seq  int
	Old  ordering.Key
	New  ordering.Key
}

// EffectiveDate implements Event.
func (e *Restoration) EffectiveDate() time.Time { return e.Date }

// Sequence implements Event.
func (e *Restoration) Sequence() int { return e.Seq }

func (e *Restoration) String() string {
	return fmt.Sprintf("restoration %s -> %s on %s", e.Old, e.New, e.Date.Format(time.DateOnly))
}

// Merger merges full communes into a destination commune.
type Merger struct {
	Date        time.Time
	Seq         int
	Sources     []ordering.Key
	Destination ordering.Key
}

// EffectiveDate implements Event.
func (e *Merger) EffectiveDate() time.Time { return e.Date }

// Sequence implements Event.
func (e *Merger) Sequence() int { return e.Seq }

func (e *Merger) String() string {
	codes := make([]string, len(e.Sources))
	for i, s := range e.Sources {
		codes[i] = s.Code
	}
	return fmt.Sprintf("merger %s -> %s on %s", strings.Join(codes, "+"), e.Destination, e.Date.Format(time.DateOnly))
}

// CodeChange renumbers an entity without population impact.
type CodeChange struct {
	Date time.Time
	Seq  int
	Old  ordering.Key
	New  ordering.Key
}

// EffectiveDate implements Event.
func (e *CodeChange) EffectiveDate() time.Time { return e.Date }

// Sequence implements Event.
func (e *CodeChange) Sequence() int { return e.Seq }

func (e *CodeChange) String() string {
	return fmt.Sprintf("code change %s -> %s on %s", e.Old, e.New, e.Date.Format(time.DateOnly))
}

// Summary provides aggregate counts for a replay.
type Summary struct {
	// Restorations counts replayed restorations.
	Restorations int `json:"restorations"`

	// Mergers counts replayed mergers.
	Mergers int `json:"mergers"`

	// CodeChanges counts replayed code changes.
	CodeChanges int `json:"code_changes"`

	// BeforeCensus counts events skipped because they precede the census.
	BeforeCensus int `json:"before_census"`
}

// Replayed returns the number of events applied.
func (s Summary) Replayed() int {
	return s.Restorations + s.Mergers + s.CodeChanges
}
