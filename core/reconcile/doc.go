// Package reconcile keeps census population figures attributable to the current commune
// code space.
//
// A census is captured at one fixed date, but communes keep merging, splitting and being
// renumbered afterwards. The engine replays every administrative event dated strictly
// after the census date, in ascending chronological order, against two population
// tables: current communes (Full) and historical sub-communes (Sub).
//
// # Events
//
// Three kinds of events are replayed:
//
//  1. Restoration: a former sub-commune regains full-commune status; its row is copied
//     from the sub-commune table into the full-commune table under the new code.
//
//  2. Merger: N full communes merge into a new or surviving code. Each source row is
//     copied into the sub-commune table, the sources leave the full-commune table, and
//     the destination row becomes the element-wise sum of the sources.
//
//  3. CodeChange: a pure renumbering; the row moves from the old code to the new code in
//     the table matching the entity kind.
//
// # Ordering
//
// A code produced by one merger may be consumed by a later merger or restoration, so
// replaying events out of order yields wrong sums without any runtime signal. Replay
// sorts events by date (ties keep change-log order) and validates every code an event
// references before mutating anything: an absent code is an InconsistentEventError.
//
// # Usage Example
//
//	tables, err := reconcile.LoadCensus(fullStream, subStream)
//	events, err := reconcile.ParseChangeLog(changeLog, reconcile.DefaultRules())
//	summary, err := reconcile.NewEngine(tables).Replay(events, censusDate)
package reconcile
