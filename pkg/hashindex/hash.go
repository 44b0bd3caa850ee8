package hashindex

import "encoding/binary"

// idealIndex returns h(key) mod num_buckets: the slot a key prefers.
//
// The hash is the first four bytes of the key interpreted as a
// little-endian uint32. No further mixing is applied. Callers are expected
// to supply keys already derived from a strong hash (e.g. chunk digests);
// this engine does not defend against adversarial key distributions.
func (idx *Index) idealIndex(key []byte) uint64 {
	h := binary.LittleEndian.Uint32(key[:4])
	return uint64(h) % idx.numBuckets
}

// probeDistance returns the wrap-around distance from s to i, i.e. how many
// forward steps from the ideal index s land on physical index i.
func (idx *Index) probeDistance(s, i uint64) uint64 {
	if i >= s {
		return i - s
	}

	return idx.numBuckets - s + i
}
