// Package publish uploads committed reference dataset artifacts to object storage.
//
// Artifacts are stored under a release prefix (for example "latest/regions.csv.xz").
// A publication creates the bucket if needed, uploads every artifact and then prunes
// the objects of the prefix that the publication did not write, so the prefix always
// mirrors one complete build.
package publish
