package hashindex

import (
	"bytes"
	"testing"
)

// A single insert is retrievable, and a second Set overwrites in place.
func TestSetGetSingleInsertAndOverwrite(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	if err := idx.Set(kOf(7), vOf(7)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}

	got, found := idx.Get(kOf(7))
	if !found || !bytes.Equal(got, vOf(7)) {
		t.Fatalf("Get(k(7)) = (%x, %v), want (%x, true)", got, found, vOf(7))
	}

	if err := idx.Set(kOf(7), vOf(8)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	if idx.Len() != 1 {
		t.Fatalf("Len() after overwrite = %d, want 1", idx.Len())
	}

	got, found = idx.Get(kOf(7))
	if !found || !bytes.Equal(got, vOf(8)) {
		t.Fatalf("Get(k(7)) after overwrite = (%x, %v), want (%x, true)", got, found, vOf(8))
	}
}

// Tombstone skip: k(0) and k(1031) share ideal index 0 in a
// 1031-bucket table; deleting k(0) must not hide k(1031) behind the
// resulting tombstone.
func TestTombstoneDoesNotMaskLaterEntrySharingIdealIndex(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	if idx.idealIndex(kOf(0)) != idx.idealIndex(kOf(1031)) {
		t.Fatalf("test setup broken: k(0) and k(1031) do not share an ideal index")
	}

	mustSet(t, idx, kOf(0), vOf(0))
	mustSet(t, idx, kOf(1031), vOf(1))

	if err := idx.Delete(kOf(0)); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, found := idx.Get(kOf(1031))
	if !found || !bytes.Equal(got, vOf(1)) {
		t.Fatalf("Get(k(1031)) after deleting k(0) = (%x, %v), want (%x, true)", got, found, vOf(1))
	}
}

func TestGetAbsentKeyNotFound(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	mustSet(t, idx, kOf(1), vOf(1))

	if _, found := idx.Get(kOf(2)); found {
		t.Fatalf("Get(k(2)) found an absent key")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	mustSet(t, idx, kOf(3), vOf(3))

	if err := idx.Delete(kOf(3)); err != nil {
		t.Fatalf("first Delete: %v", err)
	}

	before := idx.Len()

	if err := idx.Delete(kOf(3)); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	if idx.Len() != before {
		t.Fatalf("Len() changed across a redundant Delete: %d -> %d", before, idx.Len())
	}

	if _, found := idx.Get(kOf(3)); found {
		t.Fatalf("Get(k(3)) found a deleted key")
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	if err := idx.Delete(kOf(99)); err != nil {
		t.Fatalf("Delete on empty table: %v", err)
	}

	if idx.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", idx.Len())
	}
}

func TestSetRejectsWrongLengthKeyOrValue(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	if err := idx.Set(make([]byte, 31), vOf(1)); err == nil {
		t.Fatal("Set with short key did not error")
	}

	if err := idx.Set(kOf(1), make([]byte, 11)); err == nil {
		t.Fatal("Set with short value did not error")
	}
}

func TestSetRejectsValueCollidingWithSentinel(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	reserved := make([]byte, 12)
	reserved[0], reserved[1], reserved[2], reserved[3] = 0xFF, 0xFF, 0xFF, 0xFF

	if err := idx.Set(kOf(1), reserved); err == nil {
		t.Fatal("Set with a value colliding with the EMPTY sentinel did not error")
	}
}

// After a workload of sets and deletes, Len matches the number of
// keys whose last operation was Set, and every live bucket's probe chain
// back to its ideal index contains no EMPTY slot.
func TestSetDeleteWorkloadMaintainsInvariants(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	defer idx.Free()

	want := map[uint32]bool{}

	for i := uint32(0); i < 400; i++ {
		mustSet(t, idx, kOf(i), vOf(i))
		want[i] = true
	}

	for i := uint32(0); i < 400; i += 3 {
		if err := idx.Delete(kOf(i)); err != nil {
			t.Fatalf("Delete(k(%d)): %v", i, err)
		}

		delete(want, i)
	}

	if idx.Len() != uint64(len(want)) {
		t.Fatalf("Len() = %d, want %d", idx.Len(), len(want))
	}

	for i, live := range want {
		got, found := idx.Get(kOf(i))
		if live && (!found || !bytes.Equal(got, vOf(i))) {
			t.Fatalf("Get(k(%d)) = (%x, %v), want (%x, true)", i, got, found, vOf(i))
		}
	}

	assertProbeChainInvariant(t, idx)
}

func assertProbeChainInvariant(t *testing.T, idx *Index) {
	t.Helper()

	for i := uint64(0); i < idx.numBuckets; i++ {
		if !idx.isLive(i) {
			continue
		}

		s := idx.idealIndex(idx.keyAt(i))

		for j := s; j != i; j = (j + 1) % idx.numBuckets {
			if idx.isEmpty(j) {
				t.Fatalf("live bucket %d has an EMPTY slot at %d on its probe chain from ideal index %d", i, j, s)
			}
		}
	}
}

func mustSet(t *testing.T, idx *Index, key, value []byte) {
	t.Helper()

	if err := idx.Set(key, value); err != nil {
		t.Fatalf("Set(%x, %x): %v", key, value, err)
	}
}
