package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/hashindex"
)

// VerifyCmd returns the verify command.
func VerifyCmd(workDir string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("verify", flag.ContinueOnError),
		Usage: "verify <file>",
		Short: "Check structural integrity of an index file",
		Long: "Decode the file and verify its invariants: header consistency,\n" +
			"live-entry count, size-table membership, and probe-chain\n" +
			"continuity. Exits non-zero on the first violation.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execVerify(o, workDir, args)
		},
	}
}

func execVerify(o *IO, workDir string, args []string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	path := resolvePath(workDir, args[0])

	idx, err := hashindex.Read(path)
	if err != nil {
		return err
	}

	defer idx.Free()

	if err := idx.Check(); err != nil {
		return err
	}

	o.Printf("%s: ok (%s entries in %s buckets)\n",
		path, humanize.Comma(int64(idx.Len())), humanize.Comma(int64(idx.NumBuckets())))

	return nil
}
