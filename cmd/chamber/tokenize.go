package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chamber/internal/diagfmt"
	"chamber/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.abc>",
		Short: "Tokenize an ABC file",
		Long:  `Tokenize breaks an ABC file into raw tokens, trivia included`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Tokenize(args[0])
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatTokensJSON(out, result.Tokens, result.File)
	}
	return diagfmt.FormatTokensPretty(out, result.Tokens, result.File)
}
