package assembler

import (
	"context"
)

// Artifact names.
const (
	CommunesGeometrie            = "communes_geometrie"
	Regions                      = "regions"
	Departements                 = "departements"
	CollectivitesDepartementales = "collectivites_departementales"
	CollectivitesRegionales      = "collectivites_regionales"
	EPCI                         = "epci"
	Communes                     = "communes"
	CodesPostaux                 = "codes_postaux"
	CodesPostauxCommunes         = "codes_postaux_communes"
	Cantons                      = "cantons"
	CirconscriptionsLegislatives = "circonscriptions_legislatives"
	CirconscriptionsConsulaires  = "circonscriptions_consulaires"
	ElusMunicipaux               = "elus_municipaux"
	ElusDepartementaux           = "elus_departementaux"
	ElusRegionaux                = "elus_regionaux"
	Deputes                      = "deputes"
	DeputesEuropeens             = "deputes_europeens"
)

// Artifact is one step of the build plan.
type Artifact struct {
	// Name is the artifact name, also the name of its main output.
	Name string

	// Requires lists the artifacts whose outputs or identifiers this one reads.
	Requires []string

	// Build writes the artifact through the session.
	Build func(ctx context.Context, s *Session) error
}

// artifacts returns the plan in dependency order.
func (a *Assembler) artifacts() []Artifact {
	return []Artifact{
		{Name: CommunesGeometrie, Build: a.buildCommunesGeometrie},
		{Name: Regions, Build: a.buildRegions},
		{Name: Departements, Requires: []string{Regions}, Build: a.buildDepartements},
		{Name: CollectivitesDepartementales, Requires: []string{Regions}, Build: a.buildCollectivitesDepartementales},
		{Name: CollectivitesRegionales, Requires: []string{Regions}, Build: a.buildCollectivitesRegionales},
		{Name: EPCI, Build: a.buildEPCI},
		{Name: Communes, Requires: []string{CommunesGeometrie, Departements, EPCI}, Build: a.buildCommunes},
		{Name: CodesPostaux, Requires: []string{Communes}, Build: a.buildCodesPostaux},
		{Name: Cantons, Requires: []string{Communes, Departements}, Build: a.buildCantons},
		{Name: CirconscriptionsLegislatives, Requires: []string{Departements}, Build: a.buildCirconscriptionsLegislatives},
		{Name: CirconscriptionsConsulaires, Requires: []string{CirconscriptionsLegislatives}, Build: a.buildCirconscriptionsConsulaires},
		{Name: ElusMunicipaux, Requires: []string{Communes}, Build: a.buildElusMunicipaux},
		{Name: ElusDepartementaux, Requires: []string{Cantons}, Build: a.buildElusDepartementaux},
		{Name: ElusRegionaux, Requires: []string{CollectivitesRegionales, CollectivitesDepartementales}, Build: a.buildElusRegionaux},
		{Name: Deputes, Requires: []string{CirconscriptionsLegislatives}, Build: a.buildDeputes},
		{Name: DeputesEuropeens, Build: a.buildDeputesEuropeens},
	}
}
