package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"chamber/internal/version"
)

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
	color       bool
}

type versionPayload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Info
}

const versionTagline = "every tune, bar by bar"

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show chamber build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("message", false, "include git commit message")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	hash, _ := cmd.Flags().GetBool("hash")
	message, _ := cmd.Flags().GetBool("message")
	date, _ := cmd.Flags().GetBool("date")
	full, _ := cmd.Flags().GetBool("full")

	opts := versionOptions{
		format:      strings.ToLower(format),
		showHash:    hash || full,
		showMessage: message || full,
		showDate:    date || full,
	}
	switch opts.format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	info := version.Current()
	out := cmd.OutOrStdout()
	if opts.format == "json" {
		return renderVersionJSON(out, info, opts)
	}
	colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
	opts.color = colorMode == "on" || (colorMode == "auto" && isTerminal(out))
	renderVersionPretty(out, info, opts)
	return nil
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions) {
	v := info.Version
	if opts.color {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "chamber %s: %s\n", v, versionTagline)
	if opts.showHash {
		fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(info.BuildDate))
	}
	if opts.showHash || opts.showDate {
		fmt.Fprintf(out, "go:      %s\n", valueOrUnknown(info.GoVersion))
	}
}

func renderVersionJSON(out io.Writer, info version.Info, opts versionOptions) error {
	payload := versionPayload{Tool: "chamber", Tagline: versionTagline, Info: info}
	if !opts.showHash {
		payload.GitCommit = ""
	} else {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if !opts.showMessage {
		payload.GitMessage = ""
	} else {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if !opts.showDate {
		payload.BuildDate = ""
	} else {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
