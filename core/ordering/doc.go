// Package ordering defines the canonical total order used by every sort, merge and
// join of the reference dataset pipeline.
//
// Commune-like entities are identified by a (kind, code) pair. Kinds are ranked in a
// single shared table so that extraction passes, sorted streams and joins can never
// disagree on precedence:
//
//	COM < ARM < COMA < COMD < SRM < unset
//
// Within a kind, codes compare bytewise.
//
// # Usage
//
//	k, err := ordering.KeyOf("COMD", "01015")
//	if ordering.Compare(k, other) < 0 { ... }
//
// NaturalKey is the generic form (an ordered tuple of strings) used by the identifier
// stores, where a key may be (type, code), (code) or any other column set.
package ordering
