package hashindex

import "fmt"

// resizeTo rebuilds the table at newNumBuckets, re-inserting every live
// entry via the ordinary robin-hood insert path. newNumBuckets must already
// be a sizeTable entry; callers (Set, Delete) derive it from
// sizeTableGrow/sizeTableShrink.
//
// If the new table fails to allocate, idx is left completely unchanged:
// the old buckets, counts and limits all still describe a correct,
// smaller-than-ideal-but-valid table. The caller surfaces [ErrAlloc] and
// may retry the triggering operation later.
func (idx *Index) resizeTo(newNumBuckets uint64) error {
	if newNumBuckets == idx.numBuckets {
		return nil
	}

	fresh, err := newEmptyIndex(newNumBuckets, idx.keySize, idx.valueSize)
	if err != nil {
		return fmt.Errorf("resize to %d buckets: %w", newNumBuckets, err)
	}

	for i := uint64(0); i < idx.numBuckets; i++ {
		if !idx.isLive(i) {
			continue
		}

		fresh.robinHoodInsert(idx.keyAt(i), idx.valueAt(i))
		fresh.numEntries++
	}

	idx.buckets = fresh.buckets
	idx.numBuckets = fresh.numBuckets
	idx.lowerLimit = fresh.lowerLimit
	idx.upperLimit = fresh.upperLimit
	idx.scratch = fresh.scratch
	// numEntries is unchanged by a resize: same live keys, new table.

	return nil
}
