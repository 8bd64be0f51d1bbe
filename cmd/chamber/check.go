package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chamber/internal/diag"
	"chamber/internal/diagfmt"
	"chamber/internal/driver"
	"chamber/internal/observ"
	"chamber/internal/ui"
	"chamber/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <path> [path...]",
		Short: "Check ABC files for syntax and semantic issues",
		Long: `Check parses every given file, or every *.abc file under a directory, runs the
analyzer rules and prints the diagnostics. The exit status is 1 when any error
diagnostic was reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short|sarif)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0 = config or GOMAXPROCS)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the diagnostics cache")
	cmd.Flags().Bool("no-analyze", false, "skip analyzer rules, report parser diagnostics only")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().String("paths", "auto", "path display (auto|absolute|relative|basename)")
	return cmd
}

type checkFlags struct {
	format    string
	jobs      int
	noCache   bool
	noAnalyze bool
	ui        uiMode
	paths     diagfmt.PathMode
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "json", "short", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.noCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return f, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if f.noAnalyze, err = cmd.Flags().GetBool("no-analyze"); err != nil {
		return f, fmt.Errorf("failed to get no-analyze flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	pathsValue, err := cmd.Flags().GetString("paths")
	if err != nil {
		return f, fmt.Errorf("failed to get paths flag: %w", err)
	}
	if f.paths, err = readPathMode(pathsValue); err != nil {
		return f, err
	}
	return f, nil
}

// runCheck executes the "check" command and returns errFailed when any
// error diagnostic was reported.
func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	opts := driver.CheckOptions{
		MaxDiagnostics: s.maxDiagnostics,
		Analyze:        !flags.noAnalyze,
		Analyzer:       s.cfg.Analyzer,
		Jobs:           s.cfg.Check.Jobs,
		ToolVersion:    version.Current().Version,
		Timings:        s.timings,
	}
	if cmd.Flags().Changed("jobs") {
		opts.Jobs = flags.jobs
	}
	errOut := cmd.ErrOrStderr()
	if s.cfg.Check.Cache && !flags.noCache {
		cache, err := driver.OpenDiskCache("chamber")
		if err != nil {
			// без кэша просто медленнее
			if !s.quiet {
				fmt.Fprintf(errOut, "warning: diagnostics cache disabled: %v\n", err)
			}
		} else {
			opts.Cache = cache
		}
	}

	var results []driver.FileResult
	work := func(sink driver.ProgressSink) error {
		opts.Progress = sink
		var workErr error
		_, results, workErr = driver.CheckPaths(cmd.Context(), args, opts)
		return workErr
	}

	if !s.quiet && shouldUseTUI(flags.ui, errOut) {
		files, err := driver.CollectFiles(cmd.Context(), args)
		if err != nil {
			return err
		}
		err = ui.Run(errOut, "check", files, work)
		if err != nil {
			return err
		}
	} else if err := work(nil); err != nil {
		return err
	}
	if len(results) == 0 {
		return driver.ErrNoFiles
	}

	reports := make([]diagfmt.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, diagfmt.Report{File: r.File, Path: r.Path, Diagnostics: r.Diagnostics})
	}
	base, _ := os.Getwd()
	out := cmd.OutOrStdout()
	switch flags.format {
	case "pretty":
		prettyOpts := s.prettyOpts(out)
		prettyOpts.PathMode = flags.paths
		prettyOpts.BaseDir = base
		err = diagfmt.Pretty(out, reports, prettyOpts)
	case "short":
		err = diagfmt.Short(out, reports, flags.paths, base)
	case "json":
		err = diagfmt.JSON(out, reports, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         flags.paths,
			BaseDir:          base,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "sarif":
		err = diagfmt.Sarif(out, reports, diagfmt.SarifRunMeta{
			ToolName:       "chamber",
			ToolVersion:    version.Current().Version,
			InvocationArgs: os.Args,
			PathMode:       flags.paths,
			BaseDir:        base,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if flags.format == "pretty" && !s.quiet {
		printCheckSummary(errOut, results)
	}
	if s.timings {
		printTimings(errOut, results)
	}
	if driver.HasErrors(results) {
		return errFailed
	}
	return nil
}

func printCheckSummary(w io.Writer, results []driver.FileResult) {
	var errs, warnings, cached int
	for _, r := range results {
		if r.Cached {
			cached++
		}
		for _, d := range r.Diagnostics {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warnings++
			}
		}
	}
	fmt.Fprintf(w, "checked %d file(s): %d error(s), %d warning(s)", len(results), errs, warnings)
	if cached > 0 {
		fmt.Fprintf(w, ", %d from cache", cached)
	}
	fmt.Fprintln(w)
}

// printTimings печатает суммарные стадии по всем файлам
func printTimings(w io.Writer, results []driver.FileResult) {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		if r.Timing != nil {
			reports = append(reports, *r.Timing)
		}
	}
	if len(reports) == 0 {
		return
	}
	fmt.Fprint(w, observ.Aggregate(reports).Summary())
}
