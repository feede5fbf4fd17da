package ordering_test

import (
	"sort"
	"testing"

	"data-france/core/ordering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		label   string
		want    ordering.Kind
		wantErr bool
	}{
		{"COM", ordering.Commune, false},
		{"ARM", ordering.MunicipalArrondissement, false},
		{"COMA", ordering.AssociatedCommune, false},
		{"COMD", ordering.DelegatedCommune, false},
		{"SRM", ordering.ElectoralSector, false},
		{"", ordering.Unset, false},
		{"XYZ", ordering.Unset, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ordering.ParseKind(tt.label)
			if tt.wantErr {
				assert.ErrorIs(t, err, ordering.ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.label, got.String())
		})
	}
}

func TestKindPrecedence(t *testing.T) {
	kinds := ordering.Kinds()
	for i := 1; i < len(kinds); i++ {
		assert.Less(t, kinds[i-1].Rank(), kinds[i].Rank())
	}
	assert.True(t, ordering.DelegatedCommune.IsSubCommune())
	assert.True(t, ordering.AssociatedCommune.IsSubCommune())
	assert.False(t, ordering.Commune.IsSubCommune())
}

func TestCompare(t *testing.T) {
	keys := []ordering.Key{
		{Kind: ordering.Unset, Code: ""},
		{Kind: ordering.DelegatedCommune, Code: "01015"},
		{Kind: ordering.Commune, Code: "97101"},
		{Kind: ordering.ElectoralSector, Code: "13055SR01"},
		{Kind: ordering.Commune, Code: "01001"},
		{Kind: ordering.MunicipalArrondissement, Code: "13201"},
		{Kind: ordering.Commune, Code: "2A004"},
	}
	sort.Slice(keys, func(i, j int) bool { return ordering.Less(keys[i], keys[j]) })

	want := []string{"COM:01001", "COM:2A004", "COM:97101", "ARM:13201", "COMD:01015", "SRM:13055SR01", ":"}
	got := make([]string, len(keys))
	for i, k := range keys {
		got[i] = k.String()
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 0, ordering.Compare(keys[0], keys[0]))
}

func TestCompareNatural(t *testing.T) {
	assert.Equal(t, 0, ordering.CompareNatural(ordering.NaturalKey{"COM", "01001"}, ordering.NaturalKey{"COM", "01001"}))
	assert.Equal(t, -1, ordering.CompareNatural(ordering.NaturalKey{"COM"}, ordering.NaturalKey{"COM", "01001"}))
	assert.Equal(t, 1, ordering.CompareNatural(ordering.NaturalKey{"COMD", "0"}, ordering.NaturalKey{"COM", "9"}))
	assert.NotEqual(t,
		ordering.NaturalKey{"a", "bc"}.String(),
		ordering.NaturalKey{"ab", "c"}.String(),
	)
}
