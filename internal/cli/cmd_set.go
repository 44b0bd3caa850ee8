package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/hashindex"
)

// SetCmd returns the set command.
func SetCmd(workDir string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("set", flag.ContinueOnError),
		Usage: "set <file> <key-hex> <value-hex>",
		Short: "Insert or overwrite an entry",
		Long: "Store a value under a key and write the index back atomically.\n" +
			"Hex arguments shorter than the configured widths are zero-padded\n" +
			"on the right.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execSet(workDir, args)
		},
	}
}

func execSet(workDir string, args []string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	if len(args) < 2 {
		return errKeyRequired
	}

	if len(args) < 3 {
		return errValueRequired
	}

	path := resolvePath(workDir, args[0])

	return mutateIndex(path, func(idx *hashindex.Index) error {
		key, err := parseHexArg(args[1], idx.KeySize())
		if err != nil {
			return err
		}

		value, err := parseHexArg(args[2], idx.ValueSize())
		if err != nil {
			return err
		}

		return idx.Set(key, value)
	})
}
