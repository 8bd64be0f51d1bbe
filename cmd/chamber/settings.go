package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chamber/internal/config"
	"chamber/internal/diagfmt"
)

// settings is the effective configuration of one run: the config file
// with global flags applied on top.
type settings struct {
	cfg            config.Config
	colorMode      string
	quiet          bool
	timings        bool
	maxDiagnostics int
}

// loadSettings reads --config or discovers a config file upwards from the
// working directory. Flags set on the command line win over file values.
func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()
	var s settings

	configPath, err := flags.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		s.cfg, err = config.Load(configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return s, err
		}
		s.cfg, err = config.Discover(wd)
		if errors.Is(err, config.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return s, err
	}
	if err := s.cfg.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", configName(s.cfg), err)
	}

	if s.colorMode, err = flags.GetString("color"); err != nil {
		return s, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch s.colorMode {
	case "auto", "on", "off":
	default:
		return s, fmt.Errorf("invalid --color value %q (expected auto|on|off)", s.colorMode)
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}

	s.maxDiagnostics = s.cfg.Check.MaxDiagnostics
	if flags.Changed("max-diagnostics") {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if s.maxDiagnostics < 0 {
			return s, fmt.Errorf("--max-diagnostics must be >= 0, got %d", s.maxDiagnostics)
		}
	}
	return s, nil
}

func configName(cfg config.Config) string {
	if cfg.Path == "" {
		return "config"
	}
	return cfg.Path
}

// useColor decides colouring for output going to w.
func (s settings) useColor(w io.Writer) bool {
	switch s.colorMode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(w) && os.Getenv("NO_COLOR") == ""
	}
}

func (s settings) prettyOpts(w io.Writer) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.useColor(w),
		Context:   2,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
		ShowFixes: true,
	}
}

func readPathMode(value string) (diagfmt.PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return diagfmt.PathModeAuto, fmt.Errorf("invalid --paths value %q (expected auto|absolute|relative|basename)", value)
	}
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI reports whether the progress UI runs. Auto mode needs a
// terminal on out.
func shouldUseTUI(mode uiMode, out io.Writer) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(out)
	}
}
