package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kr.dev/diff"

	"chamber/internal/config"
)

func TestDecodeTOMLOverDefaults(t *testing.T) {
	src := `
[format]
normalize_header_order = true
max_line_width = 72

[analyzer]
disable = ["barLength"]
meter_default = "3/4"

[check]
jobs = 4
`
	cfg, err := config.Decode([]byte(src), config.SyntaxTOML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := config.Default()
	want.Format.NormalizeHeaderOrder = true
	want.Format.MaxLineWidth = 72
	want.Analyzer.Disable = []string{"barLength"}
	want.Analyzer.MeterDefault = "3/4"
	want.Check.Jobs = 4
	diff.Test(t, t.Errorf, cfg, want)
}

func TestDecodeYAML(t *testing.T) {
	src := "format:\n  space_around_bars: false\ncheck:\n  cache: false\n  max_diagnostics: 5\n"
	cfg, err := config.Decode([]byte(src), config.SyntaxYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := config.Default()
	want.Format.SpaceAroundBars = false
	want.Check.Cache = false
	want.Check.MaxDiagnostics = 5
	diff.Test(t, t.Errorf, cfg, want)
}

func TestDecodeEmpty(t *testing.T) {
	for _, syntax := range []config.Syntax{config.SyntaxTOML, config.SyntaxYAML} {
		cfg, err := config.Decode(nil, syntax)
		if err != nil {
			t.Fatalf("Decode(%d): %v", syntax, err)
		}
		diff.Test(t, t.Errorf, cfg, config.Default())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		syntax config.Syntax
		want   string
	}{
		{"bad toml", "[format\n", config.SyntaxTOML, "failed to parse TOML"},
		{"unknown toml key", "[format]\nwidth = 3\n", config.SyntaxTOML, `unknown key "format.width"`},
		{"unknown yaml key", "check:\n  workers: 2\n", config.SyntaxYAML, "failed to parse YAML"},
		{"negative jobs", "[check]\njobs = -1\n", config.SyntaxTOML, "check.jobs must be >= 0"},
		{"unknown rule", "[analyzer]\ndisable = [\"nope\"]\n", config.SyntaxTOML, "unknown rules"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode([]byte(tt.src), tt.syntax)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "chamber.yaml")
	if err := os.WriteFile(path, []byte("check:\n  jobs: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := config.Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != path {
		t.Errorf("Find = %q, want %q", got, path)
	}

	cfg, err := config.Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Check.Jobs != 2 || cfg.Path != path {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestFindPrefersTOML(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"chamber.yaml", "chamber.toml"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := config.Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(got) != "chamber.toml" {
		t.Errorf("Find = %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "chamber.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestEncodeTOMLRoundTrip(t *testing.T) {
	want := config.Default()
	want.Format.MaxLineWidth = 80
	data, err := config.EncodeTOML(want)
	if err != nil {
		t.Fatalf("EncodeTOML: %v", err)
	}
	got, err := config.Decode(data, config.SyntaxTOML)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, data)
	}
	diff.Test(t, t.Errorf, got, want)
}
