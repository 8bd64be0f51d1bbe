package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chamber/internal/version"
)

// errFailed reports a run that already printed its results, such as error
// diagnostics or files that need formatting. main exits with status 1
// without printing it again.
var errFailed = errors.New("chamber: failed")

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chamber",
		Short:         "ABC music notation toolkit",
		Long:          `chamber tokenizes, parses, checks, formats and fixes tunes written in ABC notation`,
		Version:       version.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			cleanup, err := setupTracing(cmd)
			if err != nil {
				stopProfiling()
				return err
			}
			traceCleanup = func() {
				cleanup()
				stopProfiling()
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			runTraceCleanup()
		},
	}

	// Добавляем команды
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newFmtCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	flags.String("config", "", "path to chamber.toml or chamber.yaml (default: discovered upwards)")
	flags.String("trace", "", "write trace events to file ('-' for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring|both")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
	return root
}

// main runs the root command. Any error exits with status 1; errFailed is
// not printed because the command already reported what went wrong.
func main() {
	root := newRootCmd()
	err := root.Execute()
	runTraceCleanup()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "chamber: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
