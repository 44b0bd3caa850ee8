package cli

import (
	"context"
	"fmt"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/coldvault/hashindex/pkg/fs"
)

// ConfigCmd returns the config command.
func ConfigCmd(cfg Config, sources ConfigSources, workDir string) *Command {
	flags := flag.NewFlagSet("config", flag.ContinueOnError)
	initFlag := flags.Bool("init", false, "Write a starter "+ConfigFileName+" to the working directory")

	return &Command{
		Flags: flags,
		Usage: "config [--init]",
		Short: "Show the effective configuration",
		Long: "Print the effective config and where it came from. With --init,\n" +
			"write a commented starter " + ConfigFileName + " instead.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execConfig(o, cfg, sources, workDir, *initFlag)
		},
	}
}

func execConfig(o *IO, cfg Config, sources ConfigSources, workDir string, initConfig bool) error {
	if initConfig {
		path := filepath.Join(workDir, ConfigFileName)

		exists, err := fs.NewReal().Exists(path)
		if err != nil {
			return err
		}

		if exists {
			return fmt.Errorf("%w: %s", errFileExists, path)
		}

		if err := WriteDefaultConfig(path); err != nil {
			return err
		}

		o.Println("wrote", path)

		return nil
	}

	formatted, err := FormatConfig(cfg)
	if err != nil {
		return err
	}

	o.Println(formatted)

	if sources.Global != "" {
		o.Println("// global:", sources.Global)
	}

	if sources.Project != "" {
		o.Println("// project:", sources.Project)
	}

	return nil
}
