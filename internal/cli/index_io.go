package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/coldvault/hashindex/pkg/fs"
	"github.com/coldvault/hashindex/pkg/hashindex"
)

// Argument errors shared by the subcommands.
var (
	errFileRequired  = errors.New("index file is required")
	errKeyRequired   = errors.New("key is required")
	errValueRequired = errors.New("value is required")
	errFileExists    = errors.New("index file already exists")
)

// lockTimeout bounds how long a mutating command waits for another
// vaultidx process to finish with the same file.
const lockTimeout = 2 * time.Second

// resolvePath anchors a relative file argument at the working directory
// chosen via --cwd.
func resolvePath(workDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}

	return filepath.Join(workDir, file)
}

// parseHexArg decodes a hex string into exactly width bytes. Shorter
// input is zero-padded on the right (so "aa" is a valid 32-byte key
// prefix); longer input is an error.
func parseHexArg(arg string, width int) ([]byte, error) {
	raw, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", arg, err)
	}

	if len(raw) > width {
		return nil, fmt.Errorf("%q is %d bytes, limit is %d", arg, len(raw), width)
	}

	out := make([]byte, width)
	copy(out, raw)

	return out, nil
}

// withFileLock runs fn while holding the exclusive sidecar lock for the
// index file at path. Serializes vaultidx's read-modify-write against
// concurrent invocations on the same file.
func withFileLock(path string, fn func() error) error {
	locker := fs.NewLocker(fs.NewReal())

	lock, err := locker.LockWithTimeout(path+".lock", lockTimeout)
	if err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}

	defer func() { _ = lock.Close() }()

	return fn()
}

// mutateIndex loads the index at path, applies fn, and writes the result
// back atomically, all under the file lock. The on-disk file is replaced
// only if fn succeeds.
func mutateIndex(path string, fn func(idx *hashindex.Index) error) error {
	return withFileLock(path, func() error {
		idx, err := hashindex.Read(path)
		if err != nil {
			return err
		}

		defer idx.Free()

		if err := fn(idx); err != nil {
			return err
		}

		return hashindex.Write(idx, path)
	})
}
