package hashindex

import "fmt"

// Options configures a freshly allocated [Index]. See [New].
type Options struct {
	// Capacity selects the initial bucket count: sizeTableFit(Capacity),
	// the smallest size-table entry >= Capacity. The load factor is not
	// applied, so inserting Capacity entries can still trigger a grow
	// (Capacity 1000 gives 1031 buckets, which grow on the 959th entry).
	Capacity uint64

	// KeySize is the fixed length in bytes of every key. Must be in [1,127].
	KeySize int

	// ValueSize is the fixed length in bytes of every value. Must be in
	// [4,127]; the first four bytes of the value region double as the
	// bucket's state tag when the bucket is not live.
	ValueSize int
}

// Index is an open-addressed hash table mapping fixed-width binary keys to
// fixed-width binary values. The zero value is not usable; obtain one via
// [New] or [Read].
//
// An Index is exclusively owned by its caller: no two operations on the
// same Index may run concurrently. Two distinct Index values are fully
// independent.
type Index struct {
	buckets []byte // AoS: num_buckets * bucketSize bytes

	numEntries uint64 // live bucket count
	numBuckets uint64 // always a sizeTable entry

	keySize    uint8
	valueSize  uint8
	bucketSize uint32

	lowerLimit uint64
	upperLimit uint64

	// scratch holds one bucket's worth of bytes, reused across Set calls
	// to carry a displaced entry during robin-hood probing without
	// allocating per call. Instance-local so two Index values never share
	// a buffer.
	scratch []byte
}

// New allocates a fresh, empty Index at sizeTableFit(opts.Capacity) buckets.
//
// Returns an error wrapping [ErrFormat] for invalid sizes, or [ErrAlloc] if
// the backing allocation fails.
func New(opts Options) (*Index, error) {
	if err := validateSizes(opts.KeySize, opts.ValueSize); err != nil {
		return nil, err
	}

	numBuckets := sizeTableFit(opts.Capacity)

	idx, err := newEmptyIndex(numBuckets, uint8(opts.KeySize), uint8(opts.ValueSize))
	if err != nil {
		return nil, err
	}

	return idx, nil
}

func validateSizes(keySize, valueSize int) error {
	if keySize < 1 || keySize > 127 {
		return fmt.Errorf("%w: key_size %d out of [1,127]", ErrFormat, keySize)
	}

	if valueSize < 4 || valueSize > 127 {
		return fmt.Errorf("%w: value_size %d out of [4,127]", ErrFormat, valueSize)
	}

	return nil
}

// newEmptyIndex allocates numBuckets empty buckets and initializes every
// tag to EMPTY. numBuckets must already be a sizeTable entry.
func newEmptyIndex(numBuckets uint64, keySize, valueSize uint8) (*Index, error) {
	bucketSize := uint32(keySize) + uint32(valueSize)

	buf, err := allocBuckets(numBuckets, bucketSize)
	if err != nil {
		return nil, err
	}

	lower, upper := limitsFor(numBuckets)

	idx := &Index{
		buckets:    buf,
		numBuckets: numBuckets,
		keySize:    keySize,
		valueSize:  valueSize,
		bucketSize: bucketSize,
		lowerLimit: lower,
		upperLimit: upper,
		scratch:    make([]byte, bucketSize),
	}

	idx.markAllEmpty()

	return idx, nil
}

// allocBuckets allocates the contiguous bucket region. A size overflow, or
// a length that make rejects with a panic, is reported as [ErrAlloc]
// rather than panicking. An out-of-memory failure inside the Go runtime is
// fatal to the process and is not caught here.
func allocBuckets(numBuckets uint64, bucketSize uint32) (buf []byte, err error) {
	total := numBuckets * uint64(bucketSize)
	if bucketSize != 0 && total/uint64(bucketSize) != numBuckets {
		return nil, fmt.Errorf("%w: bucket region size overflow", ErrAlloc)
	}

	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %v", ErrAlloc, r)
		}
	}()

	return make([]byte, total), nil
}

func (idx *Index) markAllEmpty() {
	for i := uint64(0); i < idx.numBuckets; i++ {
		idx.setTag(i, tagEmpty)
	}
}

// Len returns num_entries, the number of live keys.
func (idx *Index) Len() uint64 {
	return idx.numEntries
}

// NumBuckets returns the current bucket capacity (always a sizeTable
// entry).
func (idx *Index) NumBuckets() uint64 {
	return idx.numBuckets
}

// KeySize returns the fixed key length in bytes.
func (idx *Index) KeySize() int {
	return int(idx.keySize)
}

// ValueSize returns the fixed value length in bytes.
func (idx *Index) ValueSize() int {
	return int(idx.valueSize)
}

// ByteSize returns the number of bytes [Write] would produce for this
// Index: the fixed header plus the raw bucket array.
func (idx *Index) ByteSize() uint64 {
	return headerSize + idx.numBuckets*uint64(idx.bucketSize)
}

// Free releases the bucket region. After Free, idx must not be used again.
func (idx *Index) Free() {
	idx.buckets = nil
	idx.scratch = nil
	idx.numEntries = 0
	idx.numBuckets = 0
}
