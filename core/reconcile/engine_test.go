package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-france/core/ordering"
)

var census = date("2018-01-01")

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func com(code string) ordering.Key  { return ordering.Key{Kind: ordering.Commune, Code: code} }
func comd(code string) ordering.Key { return ordering.Key{Kind: ordering.DelegatedCommune, Code: code} }

func TestMergerSumsSourcesAndPreservesThem(t *testing.T) {
	tables := NewTables()
	tables.Full["01001"] = Population{Municipale: 100, CAP: 1}
	tables.Full["01002"] = Population{Municipale: 200, CAP: 2}
	tables.Full["01003"] = Population{Municipale: 300, CAP: 3}
	tables.Full["01004"] = Population{Municipale: 7}

	events := []Event{
		&Merger{Date: date("2019-01-01"), Sources: []ordering.Key{com("01001"), com("01002"), com("01003")}, Destination: com("01001")},
	}

	summary, err := NewEngine(tables).Replay(events, census)
	require.NoError(t, err)

	assert.Equal(t, Population{Municipale: 600, CAP: 6}, tables.Full["01001"])
	assert.Equal(t, Population{Municipale: 100, CAP: 1}, tables.Sub["01001"])
	assert.Equal(t, Population{Municipale: 200, CAP: 2}, tables.Sub["01002"])
	assert.Equal(t, Population{Municipale: 300, CAP: 3}, tables.Sub["01003"])
	assert.NotContains(t, tables.Full, "01002")
	assert.NotContains(t, tables.Full, "01003")
	assert.Equal(t, Population{Municipale: 7}, tables.Full["01004"])
	assert.Equal(t, 1, summary.Mergers)
}

func TestMergerIntoNewCode(t *testing.T) {
	tables := NewTables()
	tables.Full["49001"] = Population{Municipale: 10}
	tables.Full["49002"] = Population{Municipale: 20}

	_, err := NewEngine(tables).Replay([]Event{
		&Merger{Date: date("2019-01-01"), Sources: []ordering.Key{com("49001"), com("49002")}, Destination: com("49999")},
	}, census)
	require.NoError(t, err)

	assert.Equal(t, Table{"49999": {Municipale: 30}}, tables.Full)
	assert.Len(t, tables.Sub, 2)
}

func TestReplayIsChronological(t *testing.T) {
	newTables := func() *Tables {
		tables := NewTables()
		tables.Full["01001"] = Population{Municipale: 100}
		tables.Full["01002"] = Population{Municipale: 200}
		return tables
	}

	// Listed out of order: the restoration depends on the merger having happened.
	restoration := &Restoration{Date: date("2020-01-01"), Seq: 0, Old: comd("01002"), New: com("01002")}
	merger := &Merger{Date: date("2019-01-01"), Seq: 1, Sources: []ordering.Key{com("01001"), com("01002")}, Destination: com("01001")}

	sorted := newTables()
	summary, err := NewEngine(sorted).Replay([]Event{restoration, merger}, census)
	require.NoError(t, err)
	assert.Equal(t, Population{Municipale: 300}, sorted.Full["01001"])
	assert.Equal(t, Population{Municipale: 200}, sorted.Full["01002"])
	assert.Equal(t, 1, summary.Restorations)
	assert.Equal(t, 1, summary.Mergers)

	inputOrder := newTables()
	engine := NewEngine(inputOrder)
	_, err = engine.Replay([]Event{restoration}, census)
	assert.ErrorIs(t, err, ErrInconsistentEvent)
	_, err = engine.Replay([]Event{merger}, census)
	require.NoError(t, err)
	assert.NotEqual(t, sorted.Full, inputOrder.Full)
}

func TestReplayTiesKeepChangeLogOrder(t *testing.T) {
	tables := NewTables()
	tables.Full["27676"] = Population{Municipale: 5}

	d := date("2019-01-01")
	events := []Event{
		&CodeChange{Date: d, Seq: 1, Old: com("27058"), New: com("27100")},
		&CodeChange{Date: d, Seq: 0, Old: com("27676"), New: com("27058")},
	}

	summary, err := NewEngine(tables).Replay(events, census)
	require.NoError(t, err)
	assert.Equal(t, Table{"27100": {Municipale: 5}}, tables.Full)
	assert.Equal(t, 2, summary.CodeChanges)
}

func TestReplaySkipsEventsUpToCensusDate(t *testing.T) {
	tables := NewTables()
	tables.Full["01001"] = Population{Municipale: 1}

	summary, err := NewEngine(tables).Replay([]Event{
		&CodeChange{Date: census, Old: com("09999"), New: com("01001")},
		&CodeChange{Date: date("2010-06-01"), Old: com("09998"), New: com("01001")},
	}, census)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.BeforeCensus)
	assert.Equal(t, 0, summary.Replayed())
	assert.Equal(t, Table{"01001": {Municipale: 1}}, tables.Full)
}

func TestCodeChangeUsesTableOfKind(t *testing.T) {
	tables := NewTables()
	tables.Sub["14001"] = Population{Municipale: 42}

	_, err := NewEngine(tables).Replay([]Event{
		&CodeChange{Date: date("2019-01-01"), Old: comd("14001"), New: comd("14712")},
	}, census)
	require.NoError(t, err)

	assert.Equal(t, Table{"14712": {Municipale: 42}}, tables.Sub)
	assert.Empty(t, tables.Full)
}

func TestInconsistentEvents(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		code  string
		table string
	}{
		{
			name:  "restoration of unknown sub-commune",
			event: &Restoration{Date: date("2019-01-01"), Old: comd("01099"), New: com("01099")},
			code:  "01099",
			table: "sub",
		},
		{
			name:  "merger with unknown source",
			event: &Merger{Date: date("2019-01-01"), Sources: []ordering.Key{com("01001"), com("01098")}, Destination: com("01001")},
			code:  "01098",
			table: "full",
		},
		{
			name:  "code change of unknown commune",
			event: &CodeChange{Date: date("2019-01-01"), Old: com("01097"), New: com("01096")},
			code:  "01097",
			table: "full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := NewTables()
			tables.Full["01001"] = Population{Municipale: 100}

			_, err := NewEngine(tables).Replay([]Event{tt.event}, census)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInconsistentEvent)

			var inconsistent *InconsistentEventError
			require.True(t, errors.As(err, &inconsistent))
			assert.Equal(t, tt.code, inconsistent.Code)
			assert.Equal(t, tt.table, inconsistent.Table)

			// nothing was mutated
			assert.Equal(t, Table{"01001": {Municipale: 100}}, tables.Full)
			assert.Empty(t, tables.Sub)
		})
	}
}

func TestPopulationAdd(t *testing.T) {
	assert.Equal(t, Population{Municipale: 3, CAP: 7}, Population{Municipale: 1, CAP: 3}.Add(Population{Municipale: 2, CAP: 4}))
}
