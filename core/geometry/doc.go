// Package geometry repairs, normalizes, unions and serializes the polygon geometries of
// administrative entities.
//
// Geometries are modelled with go-geom. Validity checks and polygon overlay are delegated
// to simplefeatures through a WKB bridge; every persisted geometry is a multipolygon
// encoded as upper-case little-endian WKB hex.
//
// Composite entities (electoral sectors of Paris, Lyon and Marseille) are built by the
// Consolidator from their municipal arrondissements. Consolidation buffers one
// quantization partition at a time (metropolitan France or overseas territories) so the
// features of a partition can be sorted and grouped by key before unioning.
package geometry
