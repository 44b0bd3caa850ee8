package hashindex

import (
	"bytes"
	"fmt"
)

// find performs the core robin-hood linear probe described in the probe
// engine design: it scans forward from the key's ideal index, stopping at
// the first EMPTY bucket, a matching LIVE bucket, or once the robin-hood
// early-exit condition proves the key cannot be present.
//
// On a match found behind one or more tombstones, it opportunistically
// compacts: the LIVE bucket's contents move into the first tombstone seen,
// the original slot becomes DELETED, and the (shorter) new index is
// returned. This mutates the table even when called from a read path
// (Get); the engine has no concurrent readers to upset.
func (idx *Index) find(key []byte) (at uint64, found bool) {
	s := idx.idealIndex(key)

	var tombstoneIdx uint64

	haveTombstone := false

	for dist := uint64(0); dist < idx.numBuckets; dist++ {
		i := (s + dist) % idx.numBuckets

		switch {
		case idx.isEmpty(i):
			return 0, false

		case idx.isDeleted(i):
			if !haveTombstone {
				tombstoneIdx = i
				haveTombstone = true
			}

			continue

		default: // LIVE
			if bytes.Equal(idx.keyAt(i), key) {
				if haveTombstone {
					idx.compact(i, tombstoneIdx)
					return tombstoneIdx, true
				}

				return i, true
			}

			occupantIdeal := idx.idealIndex(idx.keyAt(i))
			occupantDist := idx.probeDistance(occupantIdeal, i)

			if dist > occupantDist {
				// Robin-hood insertion keeps probe chains ordered by
				// distance: a key probing farther than the current occupant
				// would have displaced it, so the key cannot lie beyond
				// this point.
				return 0, false
			}
		}
	}

	// Wrapped all the way back to s without finding EMPTY: cannot happen
	// while the load factor keeps at least one free slot, but guard against
	// it rather than spin forever.
	return 0, false
}

// compact moves the live bucket at "from" into the tombstone at "to" and
// marks "from" DELETED. Used by find's opportunistic compaction.
func (idx *Index) compact(from, to uint64) {
	moved := idx.scratch[:idx.bucketSize]
	idx.readBucket(from, moved)
	idx.writeBucket(to, moved)
	idx.setTag(from, tagDeleted)
}

// Get retrieves the value bytes stored for key.
//
// Returns (value, true) if key is live in the table, (nil, false)
// otherwise. The returned slice is a copy; mutating it does not affect the
// Index.
func (idx *Index) Get(key []byte) ([]byte, bool) {
	if len(key) != int(idx.keySize) {
		logf("Get: key length %d != key_size %d", len(key), idx.keySize)

		return nil, false
	}

	i, found := idx.find(key)
	if !found {
		return nil, false
	}

	out := make([]byte, idx.valueSize)
	copy(out, idx.valueAt(i))

	return out, true
}

// Set inserts key with value, or overwrites value if key is already
// present. len(key) must equal KeySize and len(value) must equal ValueSize.
//
// Returns an error wrapping [ErrInvalidKey] or [ErrInvalidValue] for
// malformed arguments, or [ErrAlloc] if a triggered grow fails to allocate;
// in the alloc-failure case the Index is left unchanged.
func (idx *Index) Set(key, value []byte) error {
	if len(key) != int(idx.keySize) {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidKey, len(key), idx.keySize)
	}

	if len(value) != int(idx.valueSize) {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidValue, len(value), idx.valueSize)
	}

	if err := validateValue(value); err != nil {
		return fmt.Errorf("%w: leading bytes collide with a reserved bucket-state sentinel", err)
	}

	if i, found := idx.find(key); found {
		copy(idx.valueAt(i), value)

		return nil
	}

	// The resize check compares the count this insertion would produce
	// (not the count before it) against upperLimit, with strict ">", so
	// growth fires exactly when the table would otherwise exceed its load
	// factor and never a step early.
	if idx.numEntries+1 > idx.upperLimit {
		if err := idx.resizeTo(sizeTableGrow(idx.numBuckets)); err != nil {
			return err
		}
	}

	idx.robinHoodInsert(key, value)
	idx.numEntries++

	return nil
}

// robinHoodInsert walks forward from key's ideal index, displacing any
// occupant whose own probe distance is smaller than the carried entry's
// distance, until it reaches an EMPTY or DELETED bucket.
func (idx *Index) robinHoodInsert(key, value []byte) {
	carried := idx.scratch[:idx.bucketSize]
	copy(carried[:idx.keySize], key)
	copy(carried[idx.keySize:], value)

	i := idx.idealIndex(key)

	for {
		if idx.isEmpty(i) || idx.isDeleted(i) {
			idx.writeBucket(i, carried)

			return
		}

		carriedDist := idx.probeDistance(idx.idealIndex(carried[:idx.keySize]), i)
		occupantDist := idx.probeDistance(idx.idealIndex(idx.keyAt(i)), i)

		if occupantDist < carriedDist {
			idx.swapBucket(i, carried)
		}

		i = (i + 1) % idx.numBuckets
	}
}

// Delete removes key from the table, if present.
//
// Idempotent: deleting an absent key is a no-op that returns nil. Returns
// an error wrapping [ErrInvalidKey] for a malformed key, or [ErrAlloc] if a
// triggered shrink fails to allocate; the tombstone from this delete
// remains in place in that case and a future operation may retry the
// shrink.
func (idx *Index) Delete(key []byte) error {
	if len(key) != int(idx.keySize) {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidKey, len(key), idx.keySize)
	}

	i, found := idx.find(key)
	if !found {
		return nil
	}

	idx.setTag(i, tagDeleted)
	idx.numEntries--

	if idx.numEntries < idx.lowerLimit {
		if err := idx.resizeTo(sizeTableShrink(idx.numBuckets)); err != nil {
			return err
		}
	}

	return nil
}
