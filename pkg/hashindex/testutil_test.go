package hashindex

import "encoding/binary"

// kOf returns a 32-byte test key whose first four bytes are i
// little-endian and whose remaining 28 bytes are zero.
func kOf(i uint32) []byte {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint32(key[:4], i)

	return key
}

// vOf returns a 12-byte test value (i, 0, 0) as three little-endian
// uint32s.
func vOf(i uint32) []byte {
	value := make([]byte, 12)
	binary.LittleEndian.PutUint32(value[0:4], i)

	return value
}

func newTestIndex(t testingTB) *Index {
	t.Helper()

	idx, err := New(Options{Capacity: 0, KeySize: 32, ValueSize: 12})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return idx
}

// testingTB is the subset of *testing.T/*testing.B used by test helpers in
// this package, so helpers can be shared between Test and Benchmark files.
type testingTB interface {
	Helper()
	Fatalf(format string, args ...any)
}
