package hashindex

import (
	"bytes"
	"testing"
)

// Inserting past the load factor grows to the next capacity with every
// key still retrievable.
func TestGrowCrossesLoadFactorThreshold(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	for i := uint32(0); i < 960; i++ {
		mustSet(t, idx, kOf(i), vOf(i))
	}

	if idx.NumBuckets() != 2053 {
		t.Fatalf("NumBuckets() = %d, want 2053", idx.NumBuckets())
	}

	if idx.lowerLimit != 513 {
		t.Errorf("lowerLimit = %d, want 513", idx.lowerLimit)
	}

	if idx.upperLimit != 1909 {
		t.Errorf("upperLimit = %d, want 1909", idx.upperLimit)
	}

	for i := uint32(0); i < 960; i++ {
		got, found := idx.Get(kOf(i))
		if !found || !bytes.Equal(got, vOf(i)) {
			t.Fatalf("Get(k(%d)) = (%x, %v), want (%x, true)", i, got, found, vOf(i))
		}
	}
}

// Deleting below the lower limit shrinks back to the minimum capacity.
func TestShrinkBelowLowerLimit(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	for i := uint32(0); i < 960; i++ {
		mustSet(t, idx, kOf(i), vOf(i))
	}

	for i := uint32(0); i < 700; i++ {
		if err := idx.Delete(kOf(i)); err != nil {
			t.Fatalf("Delete(k(%d)): %v", i, err)
		}
	}

	if idx.NumBuckets() != 1031 {
		t.Fatalf("NumBuckets() = %d, want 1031", idx.NumBuckets())
	}

	for i := uint32(700); i < 960; i++ {
		got, found := idx.Get(kOf(i))
		if !found || !bytes.Equal(got, vOf(i)) {
			t.Fatalf("Get(k(%d)) = (%x, %v), want (%x, true)", i, got, found, vOf(i))
		}
	}

	seen := map[uint32]bool{}

	it := idx.Iterate()
	for it.Next() {
		seen[uint32FromKey(it.Key())] = true
	}

	if len(seen) != 260 {
		t.Fatalf("iteration visited %d distinct keys, want 260", len(seen))
	}

	for i := uint32(700); i < 960; i++ {
		if !seen[i] {
			t.Fatalf("iteration did not visit k(%d)", i)
		}
	}
}

func TestResizeNeverCarriesTombstones(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	for i := uint32(0); i < 100; i++ {
		mustSet(t, idx, kOf(i), vOf(i))
	}

	for i := uint32(0); i < 50; i++ {
		if err := idx.Delete(kOf(i)); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	}

	if err := idx.resizeTo(sizeTableGrow(idx.numBuckets)); err != nil {
		t.Fatalf("resizeTo: %v", err)
	}

	for i := uint64(0); i < idx.numBuckets; i++ {
		if idx.isDeleted(i) {
			t.Fatalf("bucket %d is DELETED immediately after a resize", i)
		}
	}
}

func uint32FromKey(key []byte) uint32 {
	return uint32(key[0]) | uint32(key[1])<<8 | uint32(key[2])<<16 | uint32(key[3])<<24
}
