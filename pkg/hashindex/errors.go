package hashindex

import (
	"errors"
	"log"
)

// Error classification.
//
// Callers should classify errors using errors.Is. [ErrCorrupt] is
// rebuild-class: the file is not trustworthy and should be recreated from
// the caller's source of truth. [ErrFormat] reports invalid sizes passed to
// [New]. [ErrAlloc] is transient in the sense that a caller may retry after
// freeing memory elsewhere, and the Index it was raised against remains
// valid.
var (
	// ErrAlloc indicates a memory allocation failure during New, Read, or a
	// resize triggered by Set/Delete. The Index (if any) is left valid.
	ErrAlloc = errors.New("hashindex: allocation failed")

	// ErrCorrupt indicates a persisted file failed a structural check:
	// wrong magic, length mismatch, or a size/offset that cannot be true of
	// a well-formed file.
	ErrCorrupt = errors.New("hashindex: corrupt file")

	// ErrFormat indicates key/value sizes given to New are out of range.
	// Invalid sizes found in a persisted header are reported as ErrCorrupt.
	ErrFormat = errors.New("hashindex: format mismatch")

	// ErrInvalidKey indicates a key argument whose length does not equal
	// the Index's configured KeySize.
	ErrInvalidKey = errors.New("hashindex: invalid key length")

	// ErrInvalidValue indicates a value argument whose length does not
	// equal the Index's configured ValueSize, or whose leading bytes
	// collide with a reserved bucket-state sentinel.
	ErrInvalidValue = errors.New("hashindex: invalid value")
)

// logger receives diagnostics. Overridable with [SetLogger] so embedders can
// route hashindex's side-channel messages into their own logging stack.
var logger = log.Default()

// SetLogger redirects hashindex's diagnostic side-channel.
//
// By default diagnostics go to [log.Default]. Passing nil restores it.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}

	logger = l
}

func logf(format string, args ...any) {
	logger.Printf("hashindex: "+format, args...)
}
