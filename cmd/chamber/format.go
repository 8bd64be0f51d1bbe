package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"chamber/internal/driver"
	"chamber/internal/format"
)

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] <path> [path...]",
		Short: "Format ABC files",
		Long: `Fmt rewrites whitespace, comments and header layout of ABC files. Notes,
bar lines and every other token stay as written. Without --preset the [format]
table of the config file is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFmt,
	}
	cmd.Flags().Bool("check", false, "check if files are properly formatted")
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().Bool("stdout", false, "print formatted tunes to stdout instead of rewriting files")
	cmd.Flags().String("preset", "", "formatter preset (default|minimal|passthrough)")
	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	preset, err := cmd.Flags().GetString("preset")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg := s.cfg.Format
	if cmd.Flags().Changed("preset") {
		if cfg, err = format.Preset(preset); err != nil {
			return err
		}
	}

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Config: cfg,
		Check:  check,
		Stdout: writeToStdout,
	})
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var hasErrors, hasChanges bool
	switch {
	case writeToStdout:
		hasErrors = renderFmtStdout(out, errOut, results)
	case outputFormat == "json":
		if err := renderFmtJSON(out, results, check); err != nil {
			return err
		}
		for _, res := range results {
			hasErrors = hasErrors || res.Err != nil
			hasChanges = hasChanges || res.Changed
		}
	default:
		hasErrors, hasChanges = renderFmtText(out, errOut, results, check, s.quiet)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return errFailed
	}
	return nil
}

func renderFmtStdout(out, errOut io.Writer, results []driver.FormatResult) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = io.WriteString(out, res.Formatted)
	}
	return hasErrors
}

func renderFmtText(out, errOut io.Writer, results []driver.FormatResult, check, quiet bool) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintf(out, "would reformat %s\n", res.Path)
		} else {
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}
	return hasErrors, hasChanges
}

func renderFmtJSON(out io.Writer, results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
