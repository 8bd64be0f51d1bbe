package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrentDefaults(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "  "
	if got := Current().Version; got != "dev" {
		t.Errorf("Current().Version = %q, want dev", got)
	}
	Version = " 1.2.3 "
	if got := Current().Version; got != "1.2.3" {
		t.Errorf("Current().Version = %q, want 1.2.3", got)
	}
}

func TestCurrentTrimsMetadata(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "abc123\n"
	BuildDate = ""
	info := Current()
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	if info.BuildDate != "" {
		t.Errorf("BuildDate = %q, want empty", info.BuildDate)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1", "1.2.3-rc.1"},
		{"dev", "dev"},
		{"1.2", "1.2"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
