// Package models declares the downstream tables loaded from the reference dataset
// artifacts, as GORM models.
//
// Each model maps one artifact onto the table it is loaded into. Field order is the
// artifact column order, the column tag names the column, and a pointer field marks a
// column the artifact may fill with the NULL sentinel. Integer columns carry a
// type:int tag so the contract check can compare types across MySQL and SQLite.
//
// # Tables
//
//   - Territories: regions, departements, collectivites_departementales,
//     collectivites_regionales, epci, cantons, circonscriptions_legislatives,
//     circonscriptions_consulaires.
//   - Communes: communes, codes_postaux, codes_postaux_communes.
//   - Officials: elus_municipaux, elus_departementaux, elus_regionaux,
//     deputes_europeens, deputes.
package models
