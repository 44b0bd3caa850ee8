package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
)

// ErrAtomicWriteDirSync indicates the parent directory could not be synced
// after the rename. The new file is in place but its directory entry may
// not survive a crash. Detect with errors.Is.
var ErrAtomicWriteDirSync = errors.New("dir sync")

// AtomicWriter replaces files atomically: content goes to a temp file in
// the destination directory, is fsynced, renamed over the target, and the
// directory is synced. A reader of the target path sees either the old
// bytes or the new bytes, never a prefix.
type AtomicWriter struct {
	fs FS
}

// NewAtomicWriter creates an AtomicWriter backed by fsys. Panics if fsys is
// nil.
func NewAtomicWriter(fsys FS) *AtomicWriter {
	if fsys == nil {
		panic("fs is nil")
	}

	return &AtomicWriter{fs: fsys}
}

// AtomicWriteOptions configures Write.
type AtomicWriteOptions struct {
	// SyncDir syncs the parent directory after the rename so the new
	// directory entry is durable.
	SyncDir bool

	// Perm is the final file mode. Must be non-zero; the temp file is
	// chmod'd explicitly so the result does not depend on umask.
	Perm os.FileMode
}

// DefaultOptions returns the options used by [AtomicWriter.WriteWithDefaults].
func (*AtomicWriter) DefaultOptions() AtomicWriteOptions {
	return AtomicWriteOptions{
		SyncDir: true,
		Perm:    0o644,
	}
}

// WriteWithDefaults writes reader's content to path atomically with
// [AtomicWriter.DefaultOptions].
func (w *AtomicWriter) WriteWithDefaults(path string, reader io.Reader) error {
	return w.Write(path, reader, w.DefaultOptions())
}

// Write streams reader to a temp file next to path, syncs it, renames it
// over path, and (if opts.SyncDir) syncs the parent directory.
//
// On any failure up to and including the rename the temp file is removed;
// path is untouched. Failures after the rename leave the new content
// already at path: a failed close of the temp handle is returned as is,
// and a failed final directory sync returns an error satisfying
// errors.Is(err, ErrAtomicWriteDirSync).
func (w *AtomicWriter) Write(path string, reader io.Reader, opts AtomicWriteOptions) error {
	if reader == nil {
		panic("reader is nil")
	}

	if path == "" {
		return errors.New("path is empty")
	}

	if opts.Perm == 0 {
		return errors.New("opts.Perm must be non-zero")
	}

	dir, base := filepath.Split(path)
	if base == "" || base == string(os.PathSeparator) || base == "." {
		return fmt.Errorf("path is invalid: %q", path)
	}

	if dir == "" {
		dir = "."
	}

	dir = filepath.Clean(dir)

	tmpFile, tmpPath, err := w.openTemp(dir, base, opts.Perm)
	if err != nil {
		return err
	}

	// discardTemp tears down the temp file after a failed step. Remove
	// errors for an already-gone temp file are not interesting.
	discardTemp := func(stepErr error) error {
		closeErr := tmpFile.Close()

		removeErr := w.fs.Remove(tmpPath)
		if removeErr != nil && os.IsNotExist(removeErr) {
			removeErr = nil
		}

		return errors.Join(stepErr, closeErr, removeErr)
	}

	if err := tmpFile.Chmod(opts.Perm); err != nil {
		return discardTemp(fmt.Errorf("chmod temp file %q: %w", tmpPath, err))
	}

	if _, err := io.Copy(tmpFile, reader); err != nil {
		return discardTemp(fmt.Errorf("write temp file %q: %w", tmpPath, err))
	}

	if err := tmpFile.Sync(); err != nil {
		return discardTemp(fmt.Errorf("sync temp file %q: %w", tmpPath, err))
	}

	if err := w.fs.Rename(tmpPath, path); err != nil {
		return discardTemp(fmt.Errorf("rename: %w", err))
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file %q: %w", tmpPath, err)
	}

	if opts.SyncDir {
		return w.syncDir(dir)
	}

	return nil
}

// tempSeq distinguishes concurrent temp files within one process. Cross
// process collisions are handled by O_EXCL and retry.
var tempSeq atomic.Uint64

const tempMaxAttempts = 10000

func (w *AtomicWriter) openTemp(dir, base string, perm os.FileMode) (File, string, error) {
	for i := 0; i < tempMaxAttempts; i++ {
		name := fmt.Sprintf(".%s.tmp-%d", base, tempSeq.Add(1))
		path := filepath.Join(dir, name)

		file, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return file, path, nil
		}

		if os.IsExist(err) {
			continue
		}

		return nil, "", fmt.Errorf("create temp file: %w", err)
	}

	return nil, "", fmt.Errorf("exhausted temp file attempts in %q", dir)
}

func (w *AtomicWriter) syncDir(dir string) error {
	handle, err := w.fs.Open(dir)
	if err != nil {
		return errors.Join(ErrAtomicWriteDirSync, fmt.Errorf("open dir %q: %w", dir, err))
	}

	syncErr := handle.Sync()
	closeErr := handle.Close()

	if syncErr != nil {
		return errors.Join(ErrAtomicWriteDirSync, fmt.Errorf("%q: %w", dir, syncErr), closeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close dir %q: %w", dir, closeErr)
	}

	return nil
}
