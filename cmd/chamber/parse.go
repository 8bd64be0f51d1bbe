package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"chamber/internal/cst"
	"chamber/internal/diagfmt"
	"chamber/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.abc>",
		Short: "Parse an ABC file and print its tree",
		Long: `Parse builds the lossless syntax tree and the semantic tree of an ABC file.
Diagnostics go to stderr; the selected tree goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("tree", "ast", "tree to print (cst|ast)")
	cmd.Flags().String("format", "pretty", "output format (pretty|json); cst supports pretty only")
	cmd.Flags().Bool("trivia", false, "include trivia in the cst dump")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	tree, err := cmd.Flags().GetString("tree")
	if err != nil {
		return fmt.Errorf("failed to get tree flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	trivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}
	switch {
	case tree != "cst" && tree != "ast":
		return fmt.Errorf("unknown tree: %s", tree)
	case format != "pretty" && format != "json":
		return fmt.Errorf("unknown format: %s", format)
	case tree == "cst" && format == "json":
		return fmt.Errorf("--tree cst supports only --format pretty")
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(cmd.Context(), args[0], s.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.Len() > 0 && !s.quiet {
		result.Bag.Sort()
		report := diagfmt.Report{File: result.File, Path: result.File.Path, Diagnostics: result.Bag.Items()}
		errOut := cmd.ErrOrStderr()
		if err := diagfmt.Pretty(errOut, []diagfmt.Report{report}, s.prettyOpts(errOut)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case tree == "cst":
		dump := cst.Dump(result.Tree, result.File.Content)
		if trivia {
			dump = cst.DumpTrivia(result.Tree, result.File.Content)
		}
		_, err = io.WriteString(out, dump)
		return err
	case format == "json":
		return diagfmt.FormatASTJSON(out, result.Tune)
	default:
		return diagfmt.FormatASTPretty(out, result.Tune)
	}
}
