package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"kr.dev/diff"

	"chamber/internal/analyzer"
	"chamber/internal/diag"
	"chamber/internal/fix"
	"chamber/internal/format"
	"chamber/internal/source"
)

const (
	goodTune = "X:1\nT:t\nK:C\nCDEF GABc|\n"
	badTune  = "X:1\nT:t\nK:C\n[CEG\n"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestCollectFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.abc":          goodTune,
		"a/c.ABC":        goodTune,
		"notes.txt":      "x",
		".hidden/d.abc":  goodTune,
		"explicit.tune":  goodTune,
		"a/.cache/e.abc": goodTune,
		"a/deeper/f.abc": goodTune,
	})
	got, err := CollectFiles(context.Background(), []string{dir, filepath.Join(dir, "explicit.tune"), filepath.Join(dir, "b.abc")})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a", "c.ABC"),
		filepath.Join(dir, "a", "deeper", "f.abc"),
		filepath.Join(dir, "b.abc"),
		filepath.Join(dir, "explicit.tune"),
	}
	diff.Test(t, t.Errorf, got, want)
}

type recordingSink struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (s *recordingSink) OnEvent(ev ProgressEvent) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) has(file string, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.File == file && ev.Status == status {
			return true
		}
	}
	return false
}

func TestCheckPaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{"good.abc": goodTune, "bad.abc": badTune})
	missing := filepath.Join(dir, "missing.abc")
	sink := &recordingSink{}

	_, results, err := CheckPaths(context.Background(), []string{dir, missing}, CheckOptions{
		Analyze:  true,
		Analyzer: analyzer.DefaultConfig(),
		Jobs:     2,
		Progress: sink,
		Timings:  true,
	})
	if err != nil {
		t.Fatalf("CheckPaths: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	bad, good, gone := results[0], results[1], results[2]
	if filepath.Base(bad.Path) != "bad.abc" || filepath.Base(good.Path) != "good.abc" || gone.Path != missing {
		t.Fatalf("order = %q, %q, %q", bad.Path, good.Path, gone.Path)
	}
	if got := codes(bad.Diagnostics); len(got) == 0 || got[0] != "M001" {
		t.Errorf("bad.abc codes = %v, want M001 first", got)
	}
	if len(good.Diagnostics) != 0 {
		t.Errorf("good.abc diagnostics = %v", codes(good.Diagnostics))
	}
	if good.Timing == nil || len(good.Timing.Stages) != 2 {
		t.Errorf("good.abc timing = %+v", good.Timing)
	}
	if gone.File != nil || len(gone.Diagnostics) != 1 || gone.Diagnostics[0].Code != diag.IOLoadFileError {
		t.Errorf("missing file result = %+v", gone)
	}
	if !HasErrors(results) {
		t.Error("HasErrors = false")
	}
	if !sink.has(good.Path, StatusDone) || !sink.has(missing, StatusError) {
		t.Errorf("progress events = %+v", sink.events)
	}
}

func TestCheckPathsCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"good.abc": goodTune})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := CheckPaths(ctx, []string{dir}, CheckOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCheckPathsUsesCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.abc": badTune})
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := CheckOptions{Cache: cache, ToolVersion: "test"}

	_, first, err := CheckPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := CheckPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cached flags = %v, %v", first[0].Cached, second[0].Cached)
	}
	diff.Test(t, t.Errorf, second[0].Diagnostics, first[0].Diagnostics)

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	_, third, err := CheckPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached {
		t.Error("entry survived DropAll")
	}
}

func TestDiskPayloadRoundTrip(t *testing.T) {
	want := []diag.Diagnostic{
		diag.NewError(diag.UnclosedChord, source.NewRange(12, 16), "unclosed chord, missing ']'").
			WithLabel(source.NewRange(12, 13), "opening '[' here").
			WithNote("a note").
			WithFix(diag.Fix{Title: "insert ']'", Edits: []diag.TextEdit{diag.InsertText(16, "]")}}),
		diag.NewWarning(diag.MissingTitle, source.At(0), "missing title field (T:)"),
	}
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey([32]byte{1}, CheckOptions{})
	if err := cache.Put(key, toDiskPayload("t.abc", want)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var payload DiskPayload
	hit, err := cache.Get(key, &payload)
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v", hit, err)
	}
	got, ok := fromDiskPayload(&payload)
	if !ok {
		t.Fatal("payload rejected")
	}
	diff.Test(t, t.Errorf, got, want)

	if hit, err := cache.Get(CacheKey([32]byte{2}, CheckOptions{}), &payload); hit || err != nil {
		t.Errorf("unexpected hit for other key: %v, %v", hit, err)
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	content := [32]byte{7}
	base := CacheKey(content, CheckOptions{})
	variants := []CheckOptions{
		{Analyze: true},
		{MaxDiagnostics: 3},
		{ToolVersion: "v2"},
		{Analyzer: analyzer.Config{Disable: []string{"barLength"}}},
	}
	for _, opts := range variants {
		if CacheKey(content, opts) == base {
			t.Errorf("key unchanged for %+v", opts)
		}
	}
	// воркеры и прогресс не влияют на диагностики
	if CacheKey(content, CheckOptions{Jobs: 8, Timings: true}) != base {
		t.Error("key depends on Jobs/Timings")
	}
}

func TestFormatPaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.abc": "X:1\nK:C\nC|D", "b.abc": "X:1\nK:C\nC | D |\n"})
	cfg := format.Default()

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Config: cfg, Check: true})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(results) != 2 || !results[0].Changed || results[1].Changed {
		t.Fatalf("check results = %+v", results)
	}

	if _, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Config: cfg}); err != nil {
		t.Fatalf("FormatPaths write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.abc"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "X:1\nK:C\nC | D\n"; got != want {
		t.Errorf("a.abc = %q, want %q", got, want)
	}

	if _, err := FormatPaths(context.Background(), []string{t.TempDir()}, FormatOptions{}); !errors.Is(err, ErrNoFiles) {
		t.Errorf("empty dir err = %v", err)
	}
}

func TestFixFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.abc": badTune, "good.abc": goodTune})
	path := filepath.Join(dir, "bad.abc")

	out, err := FixFile(context.Background(), path, FixOptions{Write: true})
	if err != nil {
		t.Fatalf("FixFile: %v", err)
	}
	if out.Result.Output != "X:1\nT:t\nK:C\n[CEG]\n" || len(out.Result.Applied) != 1 {
		t.Errorf("result = %+v", out.Result)
	}
	if len(out.Remaining.Diagnostics) != 0 {
		t.Errorf("remaining = %v", codes(out.Remaining.Diagnostics))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != out.Result.Output {
		t.Errorf("file not rewritten: %q", data)
	}

	if _, err := FixFile(context.Background(), filepath.Join(dir, "good.abc"), FixOptions{}); !errors.Is(err, fix.ErrNoFixes) {
		t.Errorf("good.abc err = %v, want ErrNoFixes", err)
	}
}
