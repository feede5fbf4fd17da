// Package tabular reads header-bearing CSV streams and writes the compressed CSV
// artifacts consumed by the downstream bulk loader.
//
// Artifacts use the literal two-character sentinel \N for SQL NULL and are written to a
// temporary file first; Commit renames it into place, Abort removes it, so a failed
// build never leaves a truncated artifact behind.
package tabular
