package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/fs"
	"github.com/coldvault/hashindex/pkg/hashindex"
)

// CreateCmd returns the create command.
func CreateCmd(cfg Config, workDir string) *Command {
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	keySize := flags.IntP("key-size", "k", cfg.KeySize, "Key width in bytes [1,127]")
	valueSize := flags.IntP("value-size", "v", cfg.ValueSize, "Value width in bytes [4,127]")
	capacity := flags.Uint64P("capacity", "n", 0, "Expected entry count (sizes the initial table)")

	return &Command{
		Flags: flags,
		Usage: "create [flags] <file>",
		Short: "Create a new empty index file",
		Long: "Allocate an empty index with the given key/value widths and write it\n" +
			"to <file>. Widths default to the config (" + ConfigFileName + ").",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execCreate(o, workDir, *keySize, *valueSize, *capacity, args)
		},
	}
}

func execCreate(o *IO, workDir string, keySize, valueSize int, capacity uint64, args []string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	path := resolvePath(workDir, args[0])

	// The existence check lives inside the lock: two concurrent creates
	// racing on the same path must serialize before either decides the
	// file is absent, or the loser silently clobbers the winner's table.
	return withFileLock(path, func() error {
		exists, err := fs.NewReal().Exists(path)
		if err != nil {
			return err
		}

		if exists {
			return fmt.Errorf("%w: %s", errFileExists, path)
		}

		idx, err := hashindex.New(hashindex.Options{
			Capacity:  capacity,
			KeySize:   keySize,
			ValueSize: valueSize,
		})
		if err != nil {
			return err
		}

		defer idx.Free()

		if err := hashindex.Write(idx, path); err != nil {
			return err
		}

		o.Printf("created %s (key_size=%d value_size=%d buckets=%d)\n",
			path, idx.KeySize(), idx.ValueSize(), idx.NumBuckets())

		return nil
	})
}
