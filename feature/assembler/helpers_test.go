package assembler

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"data-france/core/config"
	"data-france/core/reconcile"
	"data-france/core/sources"
	"data-france/core/tabular"
)

func newTestAssembler(t *testing.T) (*Assembler, config.Build) {
	t.Helper()
	root := t.TempDir()
	build := config.Build{
		ReferencesDir:      filepath.Join(root, "references"),
		SourcesDir:         filepath.Join(root, "sources"),
		OutputDir:          filepath.Join(root, "build"),
		CensusDate:         "2018-01-01",
		Compression:        config.CompressionNone,
		LockTimeoutSeconds: 1,
	}
	require.NoError(t, os.MkdirAll(build.SourcesDir, 0o755))

	overrides, err := sources.LoadOverrides("")
	require.NoError(t, err)

	return New(build, reconcile.DefaultRules(), overrides, zaptest.NewLogger(t)), build
}

func writeSource(t *testing.T, build config.Build, name string, comma rune, rows ...[]string) {
	t.Helper()
	f, err := os.Create(filepath.Join(build.SourcesDir, name+".csv"))
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = comma
	require.NoError(t, w.WriteAll(rows))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func readArtifact(t *testing.T, build config.Build, name string) []tabular.Record {
	t.Helper()
	r, err := tabular.Open(build.ArtifactPath(name))
	require.NoError(t, err)
	defer r.Close()

	var out []tabular.Record
	for {
		rec, err := r.Next()
		if err != nil {
			break
		}
		out = append(out, rec)
	}
	return out
}

// writeCurrentCommunes writes a communes source holding only the given "TYPE:code" keys.
func writeCurrentCommunes(t *testing.T, build config.Build, keys ...string) {
	t.Helper()
	rows := [][]string{{"type", "code", "nom", "type_nom", "departement", "commune_parent", "epci"}}
	for _, k := range keys {
		kind, code, _ := strings.Cut(k, ":")
		rows = append(rows, []string{kind, code, code, "0", "", "", ""})
	}
	writeSource(t, build, sources.Communes, ',', rows...)
}

func writeRegions(t *testing.T, build config.Build) {
	writeCurrentCommunes(t, build, "COM:01053", "COM:2A004", "COM:69123", "COM:75056")
	writeSource(t, build, sources.Regions, ',',
		[]string{"REG", "CHEFLIEU", "TNCC", "NCC", "NCCENR", "LIBELLE"},
		[]string{"11", "75056", "1", "ILE DE FRANCE", "Île-de-France", "Île-de-France"},
		[]string{"84", "69123", "1", "AUVERGNE RHONE ALPES", "Auvergne-Rhône-Alpes", "Auvergne-Rhône-Alpes"},
		[]string{"94", "2A004", "0", "CORSE", "Corse", "Corse"},
	)
}

func writeDepartements(t *testing.T, build config.Build) {
	writeSource(t, build, sources.Departements, ',',
		[]string{"DEP", "REG", "CHEFLIEU", "TNCC", "NCC", "NCCENR", "LIBELLE"},
		[]string{"01", "84", "01053", "5", "AIN", "Ain", "Ain"},
		[]string{"75", "11", "75056", "0", "PARIS", "Paris", "Paris"},
	)
}

func mustInt(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
