// Package assembler builds the reference dataset artifacts from the raw sources.
//
// Each artifact is a CSV table (optionally xz compressed) whose rows carry stable
// integer identifiers drawn from the identifier stores kept under the references
// directory. Artifacts are built one at a time, in dependency order, so an artifact
// can resolve foreign keys through the stores its dependencies filled.
//
// # Artifacts
//
//   - communes_geometrie: intermediate geometry table, consolidated per partition.
//   - regions, departements, collectivites_departementales, collectivites_regionales, epci.
//   - communes: joins the prepared communes with geometry, mairies and reconciled populations.
//   - codes_postaux and codes_postaux_communes.
//   - cantons, circonscriptions_legislatives, circonscriptions_consulaires.
//   - elus_municipaux, elus_departementaux, elus_regionaux, deputes_europeens, deputes.
//
// # Sessions
//
// Every artifact runs inside a Session. Outputs are written to temporary files and
// store allocations stay in memory; a successful build writes the stores back and then
// renames the outputs into place, a failed one discards both. A failing artifact makes
// its dependents fail with ErrDependencyFailed while unrelated artifacts still run.
//
// # Usage Example
//
//	a := assembler.New(cfg.Build, cfg.Events, overrides, log)
//	results, err := a.Run(ctx, assembler.Regions, assembler.Departements)
package assembler
