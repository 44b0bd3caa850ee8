package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/hashindex"
)

// DelCmd returns the del command.
func DelCmd(workDir string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("del", flag.ContinueOnError),
		Usage: "del <file> <key-hex>",
		Short: "Delete an entry",
		Long:  "Remove a key and write the index back atomically. Deleting an absent key succeeds.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execDel(workDir, args)
		},
	}
}

func execDel(workDir string, args []string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	if len(args) < 2 {
		return errKeyRequired
	}

	path := resolvePath(workDir, args[0])

	return mutateIndex(path, func(idx *hashindex.Index) error {
		key, err := parseHexArg(args[1], idx.KeySize())
		if err != nil {
			return err
		}

		return idx.Delete(key)
	})
}
