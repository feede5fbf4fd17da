package assembler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-france/core/sources"
)

func TestCodesPostaux(t *testing.T) {
	a, build := newTestAssembler(t)
	// 01003 merged into 01001: the store still knows it, the current code does not
	seedStore(t, build, Communes, "type,code,id\nCOMD,27058,11\nCOM,27058,10\nCOM,01001,12\nCOM,01003,99\n")
	writeCurrentCommunes(t, build, "COM:01001", "COM:27058", "COMD:27058")
	writeSource(t, build, sources.CodesPostaux, ',',
		[]string{"Code_commune_INSEE", "Nom_commune", "Code_postal", "Ligne_5", "Libellé_d_acheminement", "coordonnees_gps"},
		[]string{"27676", "LES TROIS LACS", "27940", "", "LES TROIS LACS", ""},
		[]string{"27058", "LES TROIS LACS", "27940", "BERNIERES SUR SEINE", "LES TROIS LACS", ""},
		[]string{"01001", "L ABERGEMENT CLEMENCIAT", "01400", "", "L ABERGEMENT CLEMENCIAT", ""},
		[]string{"01003", "AMAREINS", "01090", "", "AMAREINS", ""},
		[]string{"99999", "NULLE PART", "99999", "", "NULLE PART", ""},
	)

	results, err := a.Run(context.Background(), CodesPostaux)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{CodesPostaux: 4, CodesPostauxCommunes: 2}, results[0].Rows)

	assert.Equal(t, "id,code\n0,01090\n1,01400\n2,27940\n3,99999\n", readFile(t, build.ArtifactPath(CodesPostaux)))
	assert.Equal(t, "codepostal_id,commune_id\n1,12\n2,10\n", readFile(t, build.ArtifactPath(CodesPostauxCommunes)))
}
