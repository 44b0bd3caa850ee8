// Package fs provides the filesystem seam used by the persistence codec
// and the index tooling.
//
// The main types are:
//   - [FS]: the operations the codec and CLI actually perform
//   - [File]: an open OS-backed file (satisfied by [os.File])
//   - [Real]: production implementation over the [os] package
//   - [AtomicWriter]: rename-based atomic file replacement
//   - [Locker]: flock-based advisory locking
//
// The interface is deliberately narrow: it contains exactly the calls the
// rest of the module makes, nothing speculative. Substituting an FS in
// tests is how write-failure and permission paths get exercised without
// touching the host filesystem's error behavior.
package fs

import (
	"io"
	"os"
)

// File is an open OS-backed file descriptor.
//
// Satisfied by [os.File], and implementations must behave like it: in
// particular [File.Fd] must return a descriptor valid for syscalls such
// as [syscall.Flock] until the file is closed, and Write on a read-only
// handle must fail rather than panic.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type File interface {
	io.ReadWriteCloser

	// Fd returns the file descriptor, as [os.File.Fd]. The Locker passes
	// it to flock(2).
	Fd() uintptr

	// Stat returns the file's [os.FileInfo], as [os.File.Stat].
	Stat() (os.FileInfo, error)

	// Sync commits the file's contents to stable storage, as
	// [os.File.Sync].
	Sync() error

	// Chmod changes the file's mode, as [os.File.Chmod].
	Chmod(mode os.FileMode) error
}

// FS is the set of filesystem operations the codec and the index tooling
// perform. Each method mirrors its [os] equivalent, including error
// semantics, so [Real] is a plain passthrough and fakes only need to
// deviate where a test wants them to.
//
// Paths use OS semantics (as in the os package and path/filepath), not
// the slash-separated paths of io/fs.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type FS interface {
	// Open opens a file (or directory, for fsync-after-rename) for
	// reading. See [os.Open].
	Open(path string) (File, error)

	// OpenFile opens a file with explicit flags and permissions. See
	// [os.OpenFile]. The atomic writer relies on [os.O_EXCL] behaving
	// exactly as the os package documents.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads a whole file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating or truncating it. See
	// [os.WriteFile]. Not atomic and not durable; use [AtomicWriter]
	// when a crash must not leave a partial file.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and any missing parents. See
	// [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Exists reports whether a file or directory exists. Returns
	// (false, nil) when absent, (false, err) for any other stat failure.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error

	// Rename moves oldpath to newpath, atomically on the same
	// filesystem. See [os.Rename].
	Rename(oldpath, newpath string) error
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
