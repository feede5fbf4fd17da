// Package join performs ordered merge-joins over pre-sorted record streams.
//
// A Cursor attaches to each key of a primary stream the matching record of one
// secondary stream, in a single forward pass and with a single buffered record. The
// caller walks its primary stream in non-decreasing key order and asks the cursor for
// every key:
//
//	geometries := join.NewCursor(geoReader, communeKey, ordering.Compare)
//	for {
//	    commune, err := communes.Next()
//	    ...
//	    geo, found, err := geometries.Seek(communeKey(commune))
//	}
//
// Both preconditions of the merge (non-decreasing queries, sorted secondary stream) are
// checked: violating them yields ErrQueryOutOfOrder or ErrStreamUnsorted instead of a
// silently wrong join.
//
// Merge recombines several sorted streams into a single sorted stream.
package join
