// Package sources describes the tabular inputs of the build: the column schema of each
// publication, and the override data (manual corrections, sector definitions, single
// territorial collectivities) that the builders receive explicitly.
//
// Publications rename their columns almost every year. A Schema maps every column a
// source is known to carry onto a canonical field name; a column it does not know is an
// UnknownSchemaFieldError, so a new vintage fails loudly instead of yielding NULLs.
package sources
