package hashindex

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/coldvault/hashindex/pkg/fs"
)

// On-disk format constants. The file is a fixed header immediately followed
// by the raw bucket array; there is no checksum and no reserved padding.
const (
	// magic identifies a hashindex file. Written verbatim at offset 0.
	magic = "BORG_IDX"

	// headerSize is the fixed header length in bytes.
	headerSize = 18
)

// Header field offsets.
const (
	offMagic      = 0  // [8]byte
	offNumEntries = 8  // int32
	offNumBuckets = 12 // int32
	offKeySize    = 16 // int8
	offValueSize  = 17 // int8
)

// fileHeader is the decoded form of the fixed 18-byte header.
type fileHeader struct {
	NumEntries int32
	NumBuckets int32
	KeySize    int8
	ValueSize  int8
}

func encodeHeader(h fileHeader) []byte {
	buf := make([]byte, headerSize)

	copy(buf[offMagic:], magic)
	binary.LittleEndian.PutUint32(buf[offNumEntries:], uint32(h.NumEntries))
	binary.LittleEndian.PutUint32(buf[offNumBuckets:], uint32(h.NumBuckets))
	buf[offKeySize] = byte(h.KeySize)
	buf[offValueSize] = byte(h.ValueSize)

	return buf
}

func decodeHeader(buf []byte) (fileHeader, error) {
	if len(buf) != headerSize {
		return fileHeader{}, fmt.Errorf("%w: short header (%d bytes)", ErrCorrupt, len(buf))
	}

	if string(buf[offMagic:offMagic+len(magic)]) != magic {
		return fileHeader{}, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}

	h := fileHeader{
		NumEntries: int32(binary.LittleEndian.Uint32(buf[offNumEntries:])),
		NumBuckets: int32(binary.LittleEndian.Uint32(buf[offNumBuckets:])),
		KeySize:    int8(buf[offKeySize]),
		ValueSize:  int8(buf[offValueSize]),
	}

	if h.NumEntries < 0 || h.NumBuckets <= 0 {
		return fileHeader{}, fmt.Errorf("%w: negative or zero counters", ErrCorrupt)
	}

	if h.KeySize < 1 || h.ValueSize < 4 {
		return fileHeader{}, fmt.Errorf("%w: invalid key_size/value_size in header", ErrCorrupt)
	}

	return h, nil
}

// Write persists idx to path using an atomic temp-file-then-rename, so a
// crash or interruption mid-write never leaves a truncated file at path.
//
// The written file can be reopened with [Read].
func Write(idx *Index, path string) error {
	return writeFS(fs.NewReal(), idx, path)
}

func writeFS(fsys fs.FS, idx *Index, path string) error {
	header := fileHeader{
		NumEntries: int32(idx.numEntries),
		NumBuckets: int32(idx.numBuckets),
		KeySize:    int8(idx.keySize),
		ValueSize:  int8(idx.valueSize),
	}

	var buf bytes.Buffer

	buf.Grow(headerSize + len(idx.buckets))
	buf.Write(encodeHeader(header))
	buf.Write(idx.buckets)

	writer := fs.NewAtomicWriter(fsys)

	if err := writer.WriteWithDefaults(path, &buf); err != nil {
		return fmt.Errorf("hashindex: write %q: %w", path, err)
	}

	return nil
}

// Read loads an Index previously written by [Write].
//
// Returns an error wrapping [ErrCorrupt] if the file is structurally
// invalid (bad magic, truncated, inconsistent counters), or [ErrAlloc] if
// the in-memory table cannot be allocated.
func Read(path string) (*Index, error) {
	return readFS(fs.NewReal(), path)
}

func readFS(fsys fs.FS, path string) (*Index, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hashindex: read %q: %w", path, err)
	}

	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file shorter than header (%d bytes)", ErrCorrupt, len(data))
	}

	header, err := decodeHeader(data[:headerSize])
	if err != nil {
		return nil, err
	}

	if sizeTableIndexOf(uint64(header.NumBuckets)) < 0 {
		return nil, fmt.Errorf("%w: num_buckets %d is not a size-table entry", ErrCorrupt, header.NumBuckets)
	}

	bucketSize := uint32(header.KeySize) + uint32(header.ValueSize)
	wantLen := headerSize + uint64(header.NumBuckets)*uint64(bucketSize)

	if uint64(len(data)) != wantLen {
		return nil, fmt.Errorf("%w: file length %d, want %d for %d buckets", ErrCorrupt, len(data), wantLen, header.NumBuckets)
	}

	idx, err := newEmptyIndex(uint64(header.NumBuckets), uint8(header.KeySize), uint8(header.ValueSize))
	if err != nil {
		return nil, err
	}

	copy(idx.buckets, data[headerSize:])
	idx.numEntries = uint64(header.NumEntries)

	if n := idx.countLive(); n != idx.numEntries {
		idx.Free()

		return nil, fmt.Errorf("%w: header num_entries %d, counted %d live buckets", ErrCorrupt, header.NumEntries, n)
	}

	return idx, nil
}

// countLive scans every bucket and counts how many are LIVE. Used by Read
// to cross-check the header's num_entries against reality.
func (idx *Index) countLive() uint64 {
	var n uint64

	for i := uint64(0); i < idx.numBuckets; i++ {
		if idx.isLive(i) {
			n++
		}
	}

	return n
}
