package hashindex

import "fmt"

// Check verifies the structural invariants of the table and returns an
// error wrapping [ErrCorrupt] describing the first violation found.
//
// Checked, in order:
//
//  1. num_buckets is a size-table entry.
//  2. num_entries equals the count of LIVE buckets.
//  3. lower_limit and upper_limit match the values derived from
//     num_buckets.
//  4. Probe-chain continuity: for every LIVE bucket, no bucket on the
//     wrap-around path from its ideal index to its physical index is
//     EMPTY. Lookup's early termination is only sound under this
//     invariant, so a violation means some keys may be unreachable.
//
// Check reads every bucket; on a hundreds-of-millions-entry table it
// costs a full table scan. [Read] already performs checks 1-2 while
// decoding, so Check is for suspected corruption and test oracles, not
// for every load.
func (idx *Index) Check() error {
	if sizeTableIndexOf(idx.numBuckets) < 0 {
		return fmt.Errorf("%w: num_buckets %d is not a size-table entry", ErrCorrupt, idx.numBuckets)
	}

	if n := idx.countLive(); n != idx.numEntries {
		return fmt.Errorf("%w: num_entries %d, counted %d live buckets", ErrCorrupt, idx.numEntries, n)
	}

	lower, upper := limitsFor(idx.numBuckets)
	if idx.lowerLimit != lower || idx.upperLimit != upper {
		return fmt.Errorf("%w: limits (%d,%d) do not match num_buckets %d, want (%d,%d)",
			ErrCorrupt, idx.lowerLimit, idx.upperLimit, idx.numBuckets, lower, upper)
	}

	for i := uint64(0); i < idx.numBuckets; i++ {
		if !idx.isLive(i) {
			continue
		}

		if err := idx.checkProbePath(i); err != nil {
			return err
		}
	}

	return nil
}

// checkProbePath verifies that no bucket between the ideal index of the
// live bucket at i and i itself is EMPTY.
func (idx *Index) checkProbePath(i uint64) error {
	s := idx.idealIndex(idx.keyAt(i))

	for j := s; j != i; j = (j + 1) % idx.numBuckets {
		if idx.isEmpty(j) {
			return fmt.Errorf("%w: EMPTY bucket %d inside the probe path %d..%d of key %x",
				ErrCorrupt, j, s, i, idx.keyAt(i))
		}
	}

	return nil
}
