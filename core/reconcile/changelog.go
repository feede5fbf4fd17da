package reconcile

import (
	"errors"
	"fmt"
	"io"
	"time"

	"data-france/core/join"
	"data-france/core/ordering"
	"data-france/core/tabular"
)

// Canonical change-log fields. Source schemas map agency column names onto these.
const (
	FieldDate            = "date"
	FieldMod             = "mod"
	FieldSourceType      = "source_type"
	FieldSourceCode      = "source_code"
	FieldDestinationType = "destination_type"
	FieldDestinationCode = "destination_code"
)

// Rules maps change-log modification codes onto event kinds. Rows with other codes
// are ignored.
type Rules struct {
	Restoration []string `mapstructure:"restoration" default:"21"`
	Merger      []string `mapstructure:"merger" default:"31,32,33"`
	CodeChange  []string `mapstructure:"code_change" default:"41,50"`
}

// DefaultRules returns the INSEE modification codes: 21 (rétablissement), 31, 32 and 33
// (fusions and communes nouvelles), 41 and 50 (code changes).
func DefaultRules() Rules {
	return Rules{
		Restoration: []string{"21"},
		Merger:      []string{"31", "32", "33"},
		CodeChange:  []string{"41", "50"},
	}
}

type eventKind int

const (
	kindIgnored eventKind = iota
	kindRestoration
	kindMerger
	kindCodeChange
)

func (r Rules) kindOf(mod string) eventKind {
	for _, set := range []struct {
		codes []string
		kind  eventKind
	}{
		{r.Restoration, kindRestoration},
		{r.Merger, kindMerger},
		{r.CodeChange, kindCodeChange},
	} {
		for _, c := range set.codes {
			if c == mod {
				return set.kind
			}
		}
	}
	return kindIgnored
}

var dateLayouts = []string{time.DateOnly, "02/01/2006"}

// ParseDate accepts YYYY-MM-DD and DD/MM/YYYY dates.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

type mergerGroup struct {
	date time.Time
	mod  string
	dest string
}

// ParseChangeLog maps change-log rows onto events. Merger rows are grouped by
// (date, modification code, destination); only commune-to-commune rows take part in a
// merger, the other rows of the same modification describe the resulting sub-communes.
func ParseChangeLog(records join.Stream[tabular.Record], rules Rules) ([]Event, error) {
	var (
		events  []Event
		mergers = make(map[mergerGroup]*Merger)
		line    = 1
	)

	for {
		rec, err := records.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		kind := rules.kindOf(rec.Get(FieldMod))
		if kind == kindIgnored {
			continue
		}

		date, err := ParseDate(rec.Get(FieldDate))
		if err != nil {
			return nil, fmt.Errorf("change-log line %d: %w", line, err)
		}
		src, err := ordering.KeyOf(rec.Get(FieldSourceType), rec.Get(FieldSourceCode))
		if err != nil {
			return nil, fmt.Errorf("change-log line %d: %w", line, err)
		}
		dst, err := ordering.KeyOf(rec.Get(FieldDestinationType), rec.Get(FieldDestinationCode))
		if err != nil {
			return nil, fmt.Errorf("change-log line %d: %w", line, err)
		}

		seq := len(events)
		switch kind {
		case kindRestoration:
			if !src.Kind.IsSubCommune() || dst.Kind != ordering.Commune {
				continue
			}
			events = append(events, &Restoration{Date: date, Seq: seq, Old: src, New: dst})

		case kindMerger:
			if src.Kind != ordering.Commune || dst.Kind != ordering.Commune {
				continue
			}
			group := mergerGroup{date: date, mod: rec.Get(FieldMod), dest: dst.Code}
			m, ok := mergers[group]
			if !ok {
				m = &Merger{Date: date, Seq: seq, Destination: dst}
				mergers[group] = m
				events = append(events, m)
			}
			if !containsKey(m.Sources, src) {
				m.Sources = append(m.Sources, src)
			}

		case kindCodeChange:
			if src.Kind != dst.Kind || src.Code == dst.Code {
				continue
			}
			events = append(events, &CodeChange{Date: date, Seq: seq, Old: src, New: dst})
		}
	}

	return events, nil
}

func containsKey(keys []ordering.Key, k ordering.Key) bool {
	for _, existing := range keys {
		if existing == k {
			return true
		}
	}
	return false
}
