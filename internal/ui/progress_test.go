package ui

import (
	"errors"
	"strings"
	"testing"

	"chamber/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	m := NewProgressModel("check", []string{"a.abc", "b.abc"}, nil).(*progressModel)

	m.applyEvent(driver.ProgressEvent{File: "a.abc", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := m.rows[0].label(); got != "parsing" {
		t.Fatalf("label = %q", got)
	}
	m.applyEvent(driver.ProgressEvent{File: "a.abc", Stage: driver.StageAnalyze, Status: driver.StatusCached})
	m.applyEvent(driver.ProgressEvent{File: "b.abc", Stage: driver.StageLoad, Status: driver.StatusError, Err: errors.New("permission denied")})
	// финальный статус не перезаписывается
	m.applyEvent(driver.ProgressEvent{File: "b.abc", Stage: driver.StageParse, Status: driver.StatusWorking})
	m.applyEvent(driver.ProgressEvent{File: "unknown.abc", Status: driver.StatusDone})

	if m.rows[0].label() != "cached" || m.rows[1].label() != "error" {
		t.Errorf("labels = %q, %q", m.rows[0].label(), m.rows[1].label())
	}
	if m.finishedN != 2 || m.failedN != 1 || m.cachedN != 1 {
		t.Errorf("finished=%d failed=%d cached=%d", m.finishedN, m.failedN, m.cachedN)
	}

	view := m.View()
	for _, want := range []string{"check (2/2)", "a.abc", "permission denied", "1 failed, 1 from cache"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRowShare(t *testing.T) {
	tests := []struct {
		row  fileRow
		want float64
	}{
		{fileRow{}, 0},
		{fileRow{state: rowWorking, stage: driver.StageLoad}, 0.1},
		{fileRow{state: rowWorking, stage: driver.StageFormat}, 0.8},
		{fileRow{state: rowFailed}, 1},
	}
	for _, tt := range tests {
		if got := tt.row.share(); got != tt.want {
			t.Errorf("share(%+v) = %v, want %v", tt.row, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.abc", 20, "short.abc"},
		{"a/very/long/path/tune.abc", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"ноты/tune.abc", 8, "ноты/..."},
		{"ノート/tune.abc", 8, "ノー..."},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
