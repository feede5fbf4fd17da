package geometry

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"data-france/core/join"
	"data-france/core/ordering"
)

func square(x, y, size float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}})
}

func mustArea(t *testing.T, g geom.T) float64 {
	t.Helper()
	a, err := Area(g)
	require.NoError(t, err)
	return a
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := square(2.35, 48.85, 0.01)

	encoded, err := Encode(original)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "0106000000"), "little-endian multipolygon expected, got %s", encoded[:10])
	assert.Equal(t, strings.ToUpper(encoded), encoded)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	_, isMulti := decoded.(*geom.MultiPolygon)
	assert.True(t, isMulti)

	eq, err := Equal(original, decoded)
	require.NoError(t, err)
	assert.True(t, eq)

	again, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, again)
}

func TestDecodeEncodings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		area  float64
	}{
		{
			name:  "nested polygon",
			input: "[[[0,0],[2,0],[2,2],[0,2],[0,0]]]",
			area:  4,
		},
		{
			name:  "nested multipolygon",
			input: "[[[[0,0],[1,0],[1,1],[0,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,6],[5,5]]]]",
			area:  2,
		},
		{
			name:  "geojson",
			input: `{"type":"Polygon","coordinates":[[[0,0],[3,0],[3,1],[0,1],[0,0]]]}`,
			area:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decode(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.area, mustArea(t, g), 1e-9)
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "not-hex", "[[1,2]]", "[[[1]]]"} {
		_, err := Decode(input)
		assert.ErrorIs(t, err, ErrUndecodable, "input %q", input)
	}
}

func TestRepairRemovesSpike(t *testing.T) {
	spiky := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {10, 0}, {10, 5}, {15, 5}, {10, 5}, {10, 10}, {0, 10}, {0, 0},
	}})
	require.Error(t, Validate(spiky))

	repaired, err := Repair(spiky)
	require.NoError(t, err)
	assert.NoError(t, Validate(repaired))
	assert.InDelta(t, mustArea(t, spiky), mustArea(t, repaired), 1e-9)
	assert.InDelta(t, 100, mustArea(t, repaired), 1e-9)
}

func TestRepairRemovesCollinearBacktrack(t *testing.T) {
	spiky := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {4, 0}, {4, 2}, {7, 2}, {6, 2}, {4, 2}, {4, 4}, {0, 4}, {0, 0},
	}})

	repaired, err := Repair(spiky)
	require.NoError(t, err)
	assert.NoError(t, Validate(repaired))
	assert.InDelta(t, 16, mustArea(t, repaired), 1e-9)
}

func TestRepairKeepsValidGeometry(t *testing.T) {
	sq := square(0, 0, 1)

	repaired, err := Repair(sq)
	require.NoError(t, err)
	assert.Same(t, sq, repaired)
}

func TestRepairDropsDuplicateVertices(t *testing.T) {
	dup := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {1, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}})

	repaired, err := Repair(dup)
	require.NoError(t, err)
	assert.NoError(t, Validate(repaired))
	assert.InDelta(t, 1, mustArea(t, repaired), 1e-9)
}

func TestRepairDissolvesOverlappingMembers(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(square(0, 0, 10)))
	require.NoError(t, mp.Push(square(5, 5, 10)))
	require.Error(t, Validate(mp))

	repaired, err := Repair(mp)
	require.NoError(t, err)
	assert.NoError(t, Validate(repaired))
	assert.InDelta(t, 175, mustArea(t, repaired), 1e-9)
}

func TestRepairSurfacesStillInvalid(t *testing.T) {
	bowtie := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {10, 10}, {10, 0}, {0, 10}, {0, 0},
	}})

	_, err := Repair(bowtie)
	assert.ErrorIs(t, err, ErrGeometryStillInvalid)
}

func TestAsMultiPolygon(t *testing.T) {
	sq := square(0, 0, 1)
	mp, err := AsMultiPolygon(sq)
	require.NoError(t, err)
	assert.Equal(t, 1, mp.NumPolygons())

	same, err := AsMultiPolygon(mp)
	require.NoError(t, err)
	assert.Same(t, mp, same)

	_, err = AsMultiPolygon(geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{1, 2}))
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)
}

func TestUnionIsOrderIndependent(t *testing.T) {
	a, b, c := square(0, 0, 1), square(1, 0, 1), square(2, 0, 1)

	orders := [][]geom.T{
		{a, b, c},
		{c, b, a},
		{b, a, c},
		{a, b, c},
	}

	first, err := Union(orders[0]...)
	require.NoError(t, err)
	assert.InDelta(t, 3, mustArea(t, first), 1e-9)
	assert.NoError(t, Validate(first))

	for _, order := range orders[1:] {
		got, err := Union(order...)
		require.NoError(t, err)
		eq, err := Equal(first, got)
		require.NoError(t, err)
		assert.True(t, eq)
	}
}

func TestUnionOfNothing(t *testing.T) {
	_, err := Union()
	assert.Error(t, err)
}

func TestEqualDetectsDifferences(t *testing.T) {
	eq, err := Equal(square(0, 0, 1), square(0, 0, 1.1))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestPartitionOf(t *testing.T) {
	tests := []struct {
		code string
		want Partition
	}{
		{"01001", Metropolitan},
		{"2A004", Metropolitan},
		{"13055SR01", Metropolitan},
		{"97101", Overseas},
		{"97611", Overseas},
		{"98735", Overseas},
		{"974", Overseas},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, PartitionOf(tt.code))
		})
	}
}

func feature(kind ordering.Kind, code string, g geom.T) Feature {
	return Feature{Key: ordering.Key{Kind: kind, Code: code}, Geometry: g}
}

func TestConsolidate(t *testing.T) {
	input := []Feature{
		feature(ordering.MunicipalArrondissement, "13207", square(1, 0, 1)),
		feature(ordering.Commune, "13055", square(0, 0, 1)),
		feature(ordering.Commune, "97101", square(50, 50, 1)),
		feature(ordering.MunicipalArrondissement, "13201", square(0, 0, 1)),
		feature(ordering.Commune, "13055", square(1, 0, 1)),
	}
	c := &Consolidator{
		Simplifier: Identity{},
		Sectors: []Sector{
			{Code: "13055SR01", Members: []string{"13201", "13207"}},
			{Code: "75056SR01", Members: []string{"75101", "75102"}},
		},
	}

	res, err := c.Consolidate(Metropolitan, join.FromSlice(input))
	require.NoError(t, err)

	var keys []string
	for _, f := range res.Features {
		keys = append(keys, f.Key.String())
		_, isMulti := f.Geometry.(*geom.MultiPolygon)
		assert.True(t, isMulti, f.Key.String())
	}
	assert.Equal(t, []string{"COM:13055", "ARM:13201", "ARM:13207", "SRM:13055SR01"}, keys)
	assert.Equal(t, 4, res.Read)
	assert.Equal(t, 2, res.Fragments)
	assert.Equal(t, 1, res.Sectors)
	assert.InDelta(t, 2, mustArea(t, res.Features[0].Geometry), 1e-9)
	assert.InDelta(t, 2, mustArea(t, res.Features[3].Geometry), 1e-9)

	overseas, err := c.Consolidate(Overseas, join.FromSlice(input))
	require.NoError(t, err)
	require.Len(t, overseas.Features, 1)
	assert.Equal(t, "97101", overseas.Features[0].Key.Code)
}

func TestConsolidateRejectsPartialSector(t *testing.T) {
	c := &Consolidator{Sectors: []Sector{{Code: "69123SR01", Members: []string{"69381", "69382"}}}}
	input := []Feature{feature(ordering.MunicipalArrondissement, "69381", square(0, 0, 1))}

	_, err := c.Consolidate(Metropolitan, join.FromSlice(input))
	assert.ErrorContains(t, err, "69382")
}

func TestMergePartitions(t *testing.T) {
	metro := []Feature{feature(ordering.Commune, "01001", square(0, 0, 1)), feature(ordering.MunicipalArrondissement, "75101", square(0, 0, 1))}
	overseas := []Feature{feature(ordering.Commune, "97101", square(0, 0, 1))}

	merged, err := join.Collect[Feature](join.Merge(LessFeature, join.FromSlice(metro), join.FromSlice(overseas)))
	require.NoError(t, err)

	var codes []string
	for _, f := range merged {
		codes = append(codes, f.Key.Code)
	}
	assert.Equal(t, []string{"01001", "97101", "75101"}, codes)
}

// requestBuffer records the requests sent to a stream simplifier.
type requestBuffer struct {
	bytes.Buffer
}

func (*requestBuffer) Close() error { return nil }

type simplifierFunc func(Partition, []Feature) ([]Feature, error)

func (f simplifierFunc) Simplify(p Partition, features []Feature) ([]Feature, error) {
	return f(p, features)
}

func TestConsolidateRepairsSimplifiedGeometry(t *testing.T) {
	spiky := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {10, 0}, {10, 5}, {15, 5}, {10, 5}, {10, 10}, {0, 10}, {0, 0},
	}})
	c := &Consolidator{
		Simplifier: simplifierFunc(func(_ Partition, features []Feature) ([]Feature, error) {
			out := make([]Feature, len(features))
			for i, f := range features {
				out[i] = Feature{Key: f.Key, Geometry: spiky}
			}
			return out, nil
		}),
	}

	res, err := c.Consolidate(Metropolitan, join.FromSlice([]Feature{
		feature(ordering.Commune, "01001", square(0, 0, 10)),
		feature(ordering.Commune, "01002", square(20, 0, 10)),
		feature(ordering.Commune, "01002", square(30, 0, 10)),
	}))
	require.NoError(t, err)
	require.Len(t, res.Features, 2)

	for _, f := range res.Features {
		assert.NoError(t, Validate(f.Geometry), f.Key.String())
		assert.InDelta(t, 100, mustArea(t, f.Geometry), 1e-9, f.Key.String())
	}
}

func TestStreamSimplifier(t *testing.T) {
	var requests requestBuffer
	responses := strings.NewReader(strings.Join([]string{
		`{"type":"COM","code":"01001","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}`,
		`{"type":"COM","code":"01001","geometry":{"type":"Polygon","coordinates":[[[1,0],[2,0],[2,1],[1,1],[1,0]]]}}`,
		`{"end":true}`,
	}, "\n") + "\n")

	s := NewStreamSimplifier(&requests, responses)
	out, err := s.Simplify(Metropolitan, []Feature{feature(ordering.Commune, "01001", square(0, 0, 2))})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "COM:01001", out[1].Key.String())

	lines := strings.Split(strings.TrimSpace(requests.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"partition":"metropole"`)
	assert.Contains(t, lines[0], `"code":"01001"`)
	assert.Equal(t, `{"end":true}`, lines[1])
}

func TestStreamSimplifierTruncatedAnswer(t *testing.T) {
	var requests requestBuffer
	s := NewStreamSimplifier(&requests, strings.NewReader(`{"type":"COM","code":"01001","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`+"\n"))

	_, err := s.Simplify(Overseas, nil)
	assert.Error(t, err)
}

func TestStreamSimplifierMalformedAnswerReleasesWriter(t *testing.T) {
	// nobody reads the requests: the writer blocks until the stream is closed
	requests, w := io.Pipe()
	defer requests.Close()
	s := NewStreamSimplifier(w, strings.NewReader("garbage\n"))

	done := make(chan error, 1)
	go func() {
		_, err := s.Simplify(Metropolitan, []Feature{feature(ordering.Commune, "01001", square(0, 0, 1))})
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "malformed simplifier line")
	case <-time.After(5 * time.Second):
		t.Fatal("Simplify did not return after a malformed answer")
	}

	_, err := s.Simplify(Metropolitan, nil)
	assert.ErrorIs(t, err, ErrSimplifierClosed)
	assert.NoError(t, s.Close())
}
