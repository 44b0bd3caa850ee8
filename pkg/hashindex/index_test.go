package hashindex

import (
	"errors"
	"testing"
)

func TestNewRejectsInvalidSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		keySize   int
		valueSize int
	}{
		{"key too small", 0, 12},
		{"key too large", 128, 12},
		{"value too small", 32, 3},
		{"value too large", 32, 128},
	}

	for _, tt := range tests {
		_, err := New(Options{Capacity: 0, KeySize: tt.keySize, ValueSize: tt.valueSize})
		if !errors.Is(err, ErrFormat) {
			t.Errorf("%s: New() err = %v, want ErrFormat", tt.name, err)
		}
	}
}

func TestNewFitsCapacityToSizeTable(t *testing.T) {
	t.Parallel()

	idx, err := New(Options{Capacity: 0, KeySize: 32, ValueSize: 12})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer idx.Free()

	if idx.NumBuckets() != 1031 {
		t.Errorf("NumBuckets() = %d, want 1031", idx.NumBuckets())
	}

	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}

	if idx.ByteSize() != 18+1031*44 {
		t.Errorf("ByteSize() = %d, want %d", idx.ByteSize(), 18+1031*44)
	}
}

func TestNewAllBucketsStartEmpty(t *testing.T) {
	t.Parallel()

	idx, err := New(Options{Capacity: 0, KeySize: 32, ValueSize: 12})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer idx.Free()

	for i := uint64(0); i < idx.numBuckets; i++ {
		if !idx.isEmpty(i) {
			t.Fatalf("bucket %d is not EMPTY on a freshly allocated table", i)
		}
	}
}
