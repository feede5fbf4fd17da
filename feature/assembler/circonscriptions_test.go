package assembler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-france/core/config"
	"data-france/core/sources"
	"data-france/core/tabular"
)

const contours = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"code_dpt": "ZA", "num_circ": "1"},
      "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}
    },
    {
      "type": "Feature",
      "properties": {"code_dpt": "01", "num_circ": 2},
      "geometry": {"type": "Polygon", "coordinates": [[[5, 45], [6, 45], [6, 46], [5, 46], [5, 45]]]}
    }
  ]
}`

func writeContours(t *testing.T, build config.Build) {
	t.Helper()
	path := filepath.Join(build.SourcesDir, circonscriptionsContours+".geojson")
	require.NoError(t, os.WriteFile(path, []byte(contours), 0o644))
}

func TestCirconscriptionsLegislatives(t *testing.T) {
	a, build := newTestAssembler(t)
	seedStore(t, build, Departements, "code,id\n01,0\n971,1\n")
	writeContours(t, build)

	_, err := a.Run(context.Background(), CirconscriptionsLegislatives)
	require.NoError(t, err)

	rows := readArtifact(t, build, CirconscriptionsLegislatives)
	require.Len(t, rows, 13)

	assert.Equal(t, "01-02", rows[0].Get("code"))
	assert.Equal(t, "0", rows[0].Get("departement_id"))
	assert.NotEqual(t, tabular.Null, rows[0].Get("geometry"))

	assert.Equal(t, "971-01", rows[1].Get("code"))
	assert.Equal(t, "1", rows[1].Get("departement_id"))

	for i, row := range rows[2:] {
		assert.Equal(t, i+2, mustInt(t, row.Get("id")))
		assert.Equal(t, tabular.Null, row.Get("departement_id"))
		assert.Equal(t, tabular.Null, row.Get("geometry"))
	}
	assert.Equal(t, "99-01", rows[2].Get("code"))
	assert.Equal(t, "99-11", rows[12].Get("code"))
}

func TestCirconscriptionsLegislativesNeedDepartements(t *testing.T) {
	a, build := newTestAssembler(t)
	seedStore(t, build, Departements, "code,id\n01,0\n")
	writeContours(t, build)

	_, err := a.Run(context.Background(), CirconscriptionsLegislatives)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "971-01")
	assert.NoFileExists(t, build.ArtifactPath(CirconscriptionsLegislatives))
}

func TestCirconscriptionsConsulaires(t *testing.T) {
	a, build := newTestAssembler(t)
	seedStore(t, build, CirconscriptionsLegislatives, "code,id\n99-01,2\n")
	writeSource(t, build, sources.CirconscriptionsConsulaires, ';',
		[]string{"nom", "consulats", "nombre_conseillers", "pays", "circonscription_législative"},
		[]string{"Canada", "Montréal / Québec/ ", "6", "Canada", "99-01"},
	)

	_, err := a.Run(context.Background(), CirconscriptionsConsulaires)
	require.NoError(t, err)

	rows := readArtifact(t, build, CirconscriptionsConsulaires)
	require.Len(t, rows, 1)
	assert.Equal(t, "0", rows[0].Get("id"))
	assert.Equal(t, `{"Montréal", "Québec"}`, rows[0].Get("consulats"))
	assert.Equal(t, "2", rows[0].Get("circonscription_legislative_id"))
}
