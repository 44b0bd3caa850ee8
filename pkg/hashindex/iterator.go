package hashindex

// Iterator walks the live entries of an Index in bucket order (physical
// index order, not insertion or key order). See [Index.Iterate].
//
// An Iterator is invalidated by any mutation of the Index it was obtained
// from (Set, Delete, a triggered resize, Free); using one afterward has
// undefined results.
type Iterator struct {
	idx  *Index
	next uint64
	cur  uint64
}

// Iterate returns an Iterator positioned before the first live bucket.
func (idx *Index) Iterate() *Iterator {
	return &Iterator{idx: idx, next: 0}
}

// Next advances the iterator to the next live bucket and reports whether
// one was found. Call [Iterator.Key] and [Iterator.Value] after a true
// result.
func (it *Iterator) Next() bool {
	for it.next < it.idx.numBuckets {
		i := it.next
		it.next++

		if it.idx.isLive(i) {
			it.cur = i

			return true
		}
	}

	return false
}

// Key returns the key of the bucket the last [Iterator.Next] call landed
// on. The returned slice aliases Index storage; copy it to retain it past
// the next mutation.
func (it *Iterator) Key() []byte {
	return it.idx.keyAt(it.cur)
}

// Value returns the value of the bucket the last [Iterator.Next] call
// landed on. The returned slice aliases Index storage; copy it to retain
// it past the next mutation.
func (it *Iterator) Value() []byte {
	return it.idx.valueAt(it.cur)
}
