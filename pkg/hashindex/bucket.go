package hashindex

import "encoding/binary"

// Bucket state tags. Stored as a little-endian uint32 in the first four
// bytes of the value region whenever the bucket is not live. value_size >=
// 4 is required precisely so this always fits.
const (
	tagEmpty   uint32 = 0xFFFFFFFF // never occupied since the table was sized
	tagDeleted uint32 = 0xFFFFFFFE // tombstone: occupied once, now absent
)

// bucketOffset returns the byte offset of bucket i within idx.buckets.
func (idx *Index) bucketOffset(i uint64) uint64 {
	return i * uint64(idx.bucketSize)
}

// keyAt returns the key bytes of bucket i. The slice aliases the bucket
// region; callers that need to retain it across a mutation must copy.
func (idx *Index) keyAt(i uint64) []byte {
	off := idx.bucketOffset(i)
	return idx.buckets[off : off+uint64(idx.keySize)]
}

// valueAt returns the value bytes of bucket i. Only meaningful when the
// bucket is LIVE; on EMPTY/DELETED buckets the first four bytes are the
// state tag.
func (idx *Index) valueAt(i uint64) []byte {
	off := idx.bucketOffset(i) + uint64(idx.keySize)
	return idx.buckets[off : off+uint64(idx.valueSize)]
}

// tag reads the bucket's state tag from the first four bytes of its value
// region, regardless of whether the bucket is currently live.
func (idx *Index) tag(i uint64) uint32 {
	return binary.LittleEndian.Uint32(idx.valueAt(i))
}

// setTag overwrites only the first four bytes of the value region with the
// given sentinel. Used to mark a bucket EMPTY or DELETED without touching
// its key bytes or the rest of its value bytes.
func (idx *Index) setTag(i uint64, t uint32) {
	binary.LittleEndian.PutUint32(idx.valueAt(i), t)
}

// isLive reports whether bucket i currently holds a live entry.
func (idx *Index) isLive(i uint64) bool {
	return idx.tag(i) < tagDeleted
}

// isEmpty reports whether bucket i has never been occupied since sizing.
func (idx *Index) isEmpty(i uint64) bool {
	return idx.tag(i) == tagEmpty
}

// isDeleted reports whether bucket i is a tombstone.
func (idx *Index) isDeleted(i uint64) bool {
	return idx.tag(i) == tagDeleted
}

// swapBucket exchanges the key/value bytes of bucket i with the contents
// of scratch (both bucketSize bytes), used during robin-hood displacement.
func (idx *Index) swapBucket(i uint64, scratch []byte) {
	off := idx.bucketOffset(i)
	bucket := idx.buckets[off : off+uint64(idx.bucketSize)]

	for j := range bucket {
		bucket[j], scratch[j] = scratch[j], bucket[j]
	}
}

// readBucket copies bucket i's raw bytes into dst (len(dst) == bucketSize).
func (idx *Index) readBucket(i uint64, dst []byte) {
	off := idx.bucketOffset(i)
	copy(dst, idx.buckets[off:off+uint64(idx.bucketSize)])
}

// writeBucket overwrites bucket i's raw bytes from src (len(src) ==
// bucketSize).
func (idx *Index) writeBucket(i uint64, src []byte) {
	off := idx.bucketOffset(i)
	copy(idx.buckets[off:off+uint64(idx.bucketSize)], src)
}

// validateValue rejects values whose leading four bytes collide with a
// reserved sentinel; storing such a value would make the bucket
// indistinguishable from EMPTY/DELETED.
func validateValue(value []byte) error {
	lead := binary.LittleEndian.Uint32(value)
	if lead == tagEmpty || lead == tagDeleted {
		return ErrInvalidValue
	}

	return nil
}
