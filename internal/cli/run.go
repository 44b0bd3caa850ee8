package cli

import (
	"context"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

// Run is the vaultidx entry point. Returns the process exit code.
func Run(_ io.Reader, out, errOut io.Writer, args []string, env map[string]string) int {
	globalFlags := flag.NewFlagSet("vaultidx", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.Usage = func() {}
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")

	o := NewIO(out, errOut)

	if err := globalFlags.Parse(args[1:]); err != nil {
		o.ErrPrintln("error:", err)
		printGlobalOptions(o)

		return 1
	}

	workDir := *flagCwd
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			o.ErrPrintln("error:", err)
			return 1
		}

		workDir = wd
	}

	cfg, sources, err := LoadConfig(workDir, *flagConfig, env)
	if err != nil {
		o.ErrPrintln("error:", err)
		printGlobalOptions(o)

		return 1
	}

	commands := allCommands(cfg, sources, workDir)

	commandMap := make(map[string]*Command, len(commands))
	for _, cmd := range commands {
		commandMap[cmd.Name()] = cmd
	}

	commandAndArgs := globalFlags.Args()

	if *flagHelp || len(commandAndArgs) == 0 {
		code := 0

		if !*flagHelp && globalFlags.NFlag() > 0 {
			o.ErrPrintln("error: no command provided")

			code = 1
		}

		printUsage(o, commands, code != 0)

		return code
	}

	cmdName := commandAndArgs[0]

	cmd, ok := commandMap[cmdName]
	if !ok {
		o.ErrPrintln("error: unknown command:", cmdName)
		printUsage(o, commands, true)

		return 1
	}

	return cmd.Run(context.Background(), o, commandAndArgs[1:])
}

func allCommands(cfg Config, sources ConfigSources, workDir string) []*Command {
	return []*Command{
		CreateCmd(cfg, workDir),
		InfoCmd(workDir),
		GetCmd(workDir),
		SetCmd(workDir),
		DelCmd(workDir),
		LsCmd(workDir),
		VerifyCmd(workDir),
		ConfigCmd(cfg, sources, workDir),
	}
}

func printUsage(o *IO, commands []*Command, toErr bool) {
	println := o.Println
	if toErr {
		println = o.ErrPrintln
	}

	println("Usage: vaultidx [global flags] <command> [args]")
	println()
	println("Commands:")

	for _, cmd := range commands {
		println(cmd.HelpLine())
	}

	println()
	printGlobalOptionsTo(println)
}

func printGlobalOptions(o *IO) {
	printGlobalOptionsTo(o.ErrPrintln)
}

func printGlobalOptionsTo(println func(a ...any)) {
	println("Global flags:")
	println("  -C, --cwd dir       Run as if started in dir")
	println("  -c, --config file   Use specified config file")
	println("  -h, --help          Show help")
}
