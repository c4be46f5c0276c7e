// Command lox is the Lox language driver: it either runs a source file or
// drops into an interactive REPL. The core pipeline (scanner, parser,
// interpreter) treats this package as an external collaborator — it only
// does argument parsing, file I/O, terminal I/O and exit-code selection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes: 0 success, 64 usage error, 65 syntax/static error,
// 70 runtime error.
const (
	exitSuccess = 0
	exitUsage   = 64
	exitSyntax  = 65
	exitRuntime = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var watch bool
	var debug bool

	cmd := &cobra.Command{
		Use:           "lox [script]",
		Short:         "Run Lox source files or start an interactive REPL",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetArgs(args)
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run the script whenever it changes on disk (file mode only)")
	cmd.Flags().BoolVar(&debug, "debug", false, "print a trace line on each watch-triggered re-run")

	exitCode := exitSuccess
	cmd.RunE = func(_ *cobra.Command, cliArgs []string) error {
		if len(cliArgs) == 0 {
			if watch {
				return fmt.Errorf("--watch requires a script argument")
			}
			runREPL(os.Stdin, os.Stdout)
			return nil
		}
		if watch {
			exitCode = runWatch(cliArgs[0], debug, os.Stdout)
			return nil
		}
		exitCode = runFile(cliArgs[0], os.Stdout)
		return nil
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == exitSuccess {
			exitCode = exitUsage
		}
	}
	return exitCode
}
