package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/hashindex"
)

var errKeyNotFound = errors.New("key not found")

// GetCmd returns the get command.
func GetCmd(workDir string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("get", flag.ContinueOnError),
		Usage: "get <file> <key-hex>",
		Short: "Print the value stored for a key",
		Long: "Look up a key and print its value as hex. Keys shorter than the\n" +
			"index's key width are zero-padded on the right.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execGet(o, workDir, args)
		},
	}
}

func execGet(o *IO, workDir string, args []string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	if len(args) < 2 {
		return errKeyRequired
	}

	path := resolvePath(workDir, args[0])

	idx, err := hashindex.Read(path)
	if err != nil {
		return err
	}

	defer idx.Free()

	key, err := parseHexArg(args[1], idx.KeySize())
	if err != nil {
		return err
	}

	value, found := idx.Get(key)
	if !found {
		return fmt.Errorf("%w: %s", errKeyNotFound, args[1])
	}

	o.Println(hex.EncodeToString(value))

	return nil
}
