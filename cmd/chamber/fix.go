package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"chamber/internal/diagfmt"
	"chamber/internal/driver"
	"chamber/internal/fix"
	"chamber/internal/version"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <file.abc>",
		Short: "Apply available fixes to an ABC file",
		Long:  "Run diagnostics, apply the attached fixes and report what is left.",
		Args:  cobra.ExactArgs(1),
		RunE:  runFix,
	}
	cmd.Flags().Bool("all", false, "also apply fixes that need review, not only safe ones")
	cmd.Flags().Bool("once", false, "apply only the first safe fix")
	cmd.Flags().Bool("stdout", false, "print the fixed tune instead of rewriting the file")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeSafe
	switch {
	case applyAll:
		mode = fix.ApplyModeAll
	case applyOnce:
		mode = fix.ApplyModeOnce
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	outcome, err := driver.FixFile(cmd.Context(), args[0], driver.FixOptions{
		Mode:  mode,
		Write: !toStdout,
		Check: driver.CheckOptions{
			MaxDiagnostics: s.maxDiagnostics,
			Analyze:        true,
			Analyzer:       s.cfg.Analyzer,
			ToolVersion:    version.Current().Version,
		},
	})

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		return fmt.Errorf("fix: %w", err)
	}
	if toStdout {
		text := outcome.File.Content
		if outcome.Result != nil {
			text = outcome.Result.Output
		}
		_, _ = io.WriteString(out, text)
	}

	report := out
	if toStdout {
		report = errOut
	}
	if !s.quiet {
		printFixResult(report, outcome.File.Path, outcome.Result, errors.Is(err, fix.ErrNoFixes))
	}

	remaining := diagfmt.Report{File: outcome.Remaining.File, Path: outcome.Remaining.Path, Diagnostics: outcome.Remaining.Diagnostics}
	if len(remaining.Diagnostics) > 0 && !s.quiet {
		if err := diagfmt.Pretty(errOut, []diagfmt.Report{remaining}, s.prettyOpts(errOut)); err != nil {
			return err
		}
	}
	if driver.HasErrors([]driver.FileResult{outcome.Remaining}) {
		return errFailed
	}
	return nil
}

func printFixResult(w io.Writer, path string, res *fix.Result, none bool) {
	if none || res == nil {
		fmt.Fprintln(w, "No applicable fixes found.")
		return
	}
	fmt.Fprintf(w, "Applied %d fix(es) to %s:\n", len(res.Applied), path)
	for _, item := range res.Applied {
		fmt.Fprintf(w, "  %s [%s] %s (%d edits, %s)\n",
			item.Title, item.Code.ID(), item.ID, item.EditCount, item.Applicability)
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
		}
	}
}
