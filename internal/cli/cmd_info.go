package cli

import (
	"context"
	"os"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/hashindex"
)

// InfoCmd returns the info command.
func InfoCmd(workDir string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("info", flag.ContinueOnError),
		Usage: "info <file>",
		Short: "Show index header and capacity details",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execInfo(o, workDir, args)
		},
	}
}

func execInfo(o *IO, workDir string, args []string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	path := resolvePath(workDir, args[0])

	idx, err := hashindex.Read(path)
	if err != nil {
		return err
	}

	defer idx.Free()

	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	loadPct := 0.0
	if idx.NumBuckets() > 0 {
		loadPct = float64(idx.Len()) / float64(idx.NumBuckets()) * 100
	}

	o.Printf("file:        %s\n", path)
	o.Printf("size:        %s (%s bytes)\n", humanize.IBytes(uint64(stat.Size())), humanize.Comma(stat.Size()))
	o.Printf("key_size:    %d\n", idx.KeySize())
	o.Printf("value_size:  %d\n", idx.ValueSize())
	o.Printf("entries:     %s\n", humanize.Comma(int64(idx.Len())))
	o.Printf("buckets:     %s\n", humanize.Comma(int64(idx.NumBuckets())))
	o.Printf("load:        %.1f%%\n", loadPct)

	return nil
}
