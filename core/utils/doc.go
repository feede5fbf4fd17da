// Package utils provides small text helpers shared by the artifact builders: name
// normalization, PostgreSQL array literals and number padding.
package utils
