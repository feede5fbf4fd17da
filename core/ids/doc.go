// Package ids maintains the persistent mapping from natural keys to stable integer
// identifiers, one CSV store per entity type.
//
// A store file has a header made of the key columns followed by `id`:
//
//	type,code,id
//	COM,01001,0
//	COMD,01015,1
//
// # Lifecycle
//
// A Store is loaded wholesale by Open, mutated in memory by LookupOrAllocate, and
// written back wholesale by Close. Pre-existing rows keep their relative order and new
// rows follow in allocation order, so that diffs of the backing file stay minimal from
// one rebuild to the next. Discard releases a store without writing anything: a failed
// build leaves the previous file untouched.
//
// While open, the store holds an exclusive flock on `<path>.lock`, so two builds can
// never interleave their write-backs.
//
// # Usage
//
//	store, err := ids.Open("references/communes.csv")
//	if err != nil {
//	    return err
//	}
//	defer store.Discard() // no-op once Close succeeded
//
//	id, err := store.LookupOrAllocate(ids.Fields{"type": "COM", "code": "01001"})
//	parent, err := store.Lookup(ids.Fields{"type": "COM", "code": "01015"})
//
//	return store.Close()
package ids
