// Package hashindex implements an on-disk-persistable, open-addressed hash
// table that maps fixed-width binary keys to fixed-width binary values.
//
// It is the lookup substrate for a deduplicating archival backup system:
// chunk hashes, repository manifests, and segment metadata all live in a
// single memory-resident table that can be loaded from and flushed to a
// compact single-file representation (see [Read] and [Write]).
//
// # Basic usage
//
//	idx, err := hashindex.New(hashindex.Options{
//	    Capacity:  1000,
//	    KeySize:   32,
//	    ValueSize: 12,
//	})
//	if err != nil {
//	    // handle allocation failure
//	}
//	defer idx.Free()
//
//	if err := idx.Set(key, value); err != nil {
//	    // handle resize allocation failure
//	}
//
//	value, found := idx.Get(key)
//
//	if err := idx.Delete(key); err != nil {
//	    // handle resize allocation failure
//	}
//
// # Concurrency
//
// An [Index] is not safe for concurrent use. It is exclusively owned by a
// single caller at a time; two distinct [Index] values are fully
// independent. There is no internal locking and no background work.
//
// # Error handling
//
// [New] and [Read] report allocation and persistence failures directly.
// [Index.Set] and [Index.Delete] fail on malformed arguments, or when a
// triggered resize cannot allocate the replacement table. A failed Set
// leaves the index unchanged; a failed Delete has already removed the key
// and keeps the larger table.
// Diagnostics are logged to the standard [log] package, prefixed
// "hashindex:"; see [SetLogger] to redirect them.
package hashindex
