package cli

import (
	"context"
	"encoding/hex"

	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/hashindex"
)

// LsCmd returns the ls command.
func LsCmd(workDir string) *Command {
	flags := flag.NewFlagSet("ls", flag.ContinueOnError)
	limit := flags.IntP("limit", "n", 0, "Stop after this many entries (0 = all)")

	return &Command{
		Flags: flags,
		Usage: "ls [flags] <file>",
		Short: "List live entries in bucket order",
		Long: "Print every live entry as \"key-hex  value-hex\", one per line, in\n" +
			"physical bucket order. The order is deterministic for a given file\n" +
			"but is neither insertion nor key order.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execLs(o, workDir, *limit, args)
		},
	}
}

func execLs(o *IO, workDir string, limit int, args []string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	path := resolvePath(workDir, args[0])

	idx, err := hashindex.Read(path)
	if err != nil {
		return err
	}

	defer idx.Free()

	printed := 0

	for it := idx.Iterate(); it.Next(); {
		if limit > 0 && printed >= limit {
			break
		}

		o.Printf("%s  %s\n", hex.EncodeToString(it.Key()), hex.EncodeToString(it.Value()))

		printed++
	}

	return nil
}
