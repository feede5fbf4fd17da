// Package contract checks the column contract between the reference dataset artifacts
// and the downstream database they are loaded into.
//
// The GORM models of the models subpackage are the source of truth. Two checks are
// provided:
//
//   - CheckArtifact: the header of a committed artifact lists the model columns, in order.
//   - CheckDatabase: the downstream table has every model column, with a compatible
//     type, and accepts NULL where the artifact may emit it.
//
// # Usage
//
//	report, err := contract.CheckDatabase(db)
//	if !report.Matched {
//		// inspect report.Tables
//	}
package contract
