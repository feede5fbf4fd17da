package assembler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-france/core/config"
	"data-france/core/sources"
)

func seedStore(t *testing.T, build config.Build, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(build.ReferencesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(build.ReferencesDir, name+".csv"), []byte(content), 0o644))
}

func TestSectionCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"75", "75C"},
		{"13", "13D"},
		{"2A", "2AD"},
		{"69M", "69M"},
		{"972E", "972E"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, sectionCode(tt.code))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12/03/1960", "1960-03-12", false},
		{"1960-03-12", "1960-03-12", false},
		{"", "", false},
		{"March 1960", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestElusMunicipaux(t *testing.T) {
	a, build := newTestAssembler(t)
	seedStore(t, build, Communes, "type,code,id\nCOM,27058,10\nCOMD,27058,11\nCOM,75056,99\n")
	writeCurrentCommunes(t, build, "COM:27058", "COMD:27058")
	writeSource(t, build, sources.ElusMunicipaux, ',',
		[]string{"code", "nom", "prenom", "sexe", "date_naissance", "profession", "date_debut_mandat",
			"fonction", "ordre_fonction", "date_debut_fonction", "date_debut_mandat_epci", "fonction_epci",
			"date_debut_fonction_epci", "nationalite"},
		[]string{"27676", "DUPONT", "Marie", "F", "12/03/1960", "", "15/03/2020",
			"Maire", "1", "15/03/2020", "", "", "", "FR"},
		[]string{"75056", "MARTIN", "Jean", "M", "01/01/1950", "", "15/03/2020",
			"", "", "", "", "", "", "FR"},
	)

	_, err := a.Run(context.Background(), ElusMunicipaux)
	require.NoError(t, err)

	want := "id,commune_id,nom,prenom,sexe,date_naissance,profession,date_debut_mandat,fonction,ordre_fonction,date_debut_fonction,date_debut_mandat_epci,fonction_epci,date_debut_fonction_epci,nationalite,parrainage2017\n" +
		`0,10,DUPONT,Marie,F,1960-03-12,\N,2020-03-15,Maire,1,2020-03-15,\N,,\N,FR,` + "\n"
	if diff := cmp.Diff(want, readFile(t, build.ArtifactPath(ElusMunicipaux))); diff != "" {
		t.Errorf("elus_municipaux mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "commune_id,nom,prenom,sexe,date_naissance,id\n10,DUPONT,Marie,F,1960-03-12,0\n",
		readFile(t, filepath.Join(build.ReferencesDir, ElusMunicipaux+".csv")))
}

func TestDeputes(t *testing.T) {
	a, build := newTestAssembler(t)
	seedStore(t, build, CirconscriptionsLegislatives, "code,id\n01-01,0\n")
	writeSource(t, build, sources.Groupes, ',',
		[]string{"code", "nom", "sigle"},
		[]string{"PO1", "Renaissance", "RE"},
	)
	writeSource(t, build, sources.Partis, ',',
		[]string{"code", "nom", "sigle"},
		[]string{"PA1", "Parti A", "PA"},
	)
	writeSource(t, build, sources.DeputesGroupes, ',',
		[]string{"code_depute", "code", "relation", "date_debut", "date_fin"},
		[]string{"PA100", "PO1", "M", "2022-06-22", ""},
		[]string{"PA100", "PO1", "P", "2022-06-28", ""},
		[]string{"PA200", "PO1", "M", "2022-06-22", "2023-01-01"},
	)
	writeSource(t, build, sources.DeputesPartis, ',',
		[]string{"code_depute", "code", "date_debut", "date_fin"},
		[]string{"PA100", "PA1", "2022-06-01", ""},
	)
	writeSource(t, build, sources.Deputes, ',',
		[]string{"code", "nom", "prenom", "sexe", "date_naissance", "legislature", "date_debut_mandat", "date_fin_mandat", "circonscription"},
		[]string{"PA100", "Martin", "Paul", "M", "1970-01-02", "16", "2022-06-22", "", "01-01"},
		[]string{"PA200", "Durand", "Léa", "F", "1980-05-06", "16", "2022-06-22", "2023-01-01", "01-01"},
	)

	_, err := a.Run(context.Background(), Deputes)
	require.NoError(t, err)

	want := "id,circonscription_id,code,nom,prenom,sexe,date_naissance,legislature,date_debut_mandat,groupe,parti,date_fin_mandat,relation,profession\n" +
		`0,0,PA100,Martin,Paul,M,1970-01-02,16,2022-06-22,Renaissance (RE),Parti A (PA),\N,P,\N` + "\n" +
		`1,0,PA200,Durand,Léa,F,1980-05-06,16,2022-06-22,,,2023-01-01,,\N` + "\n"
	if diff := cmp.Diff(want, readFile(t, build.ArtifactPath(Deputes))); diff != "" {
		t.Errorf("deputes mismatch (-want +got):\n%s", diff)
	}
}

func TestDeputesEuropeensKeepIds(t *testing.T) {
	a, build := newTestAssembler(t)
	seedStore(t, build, DeputesEuropeens, "nom,prenom,date_naissance,sexe,id\nDUPONT,Marie,1960-03-12,F,7\n")
	writeSource(t, build, sources.DeputesEuropeens, ',',
		[]string{"nom", "prenom", "sexe", "date_naissance", "profession", "date_debut_mandat"},
		[]string{"MARTIN", "Jean", "M", "01/01/1950", "Avocat", "02/07/2019"},
		[]string{"DUPONT", "Marie", "F", "12/03/1960", "", "02/07/2019"},
	)

	_, err := a.Run(context.Background(), DeputesEuropeens)
	require.NoError(t, err)

	assert.Equal(t,
		"id,nom,prenom,sexe,date_naissance,profession,date_debut_mandat\n"+
			"8,MARTIN,Jean,M,1950-01-01,Avocat,2019-07-02\n"+
			`7,DUPONT,Marie,F,1960-03-12,\N,2019-07-02`+"\n",
		readFile(t, build.ArtifactPath(DeputesEuropeens)))
}
