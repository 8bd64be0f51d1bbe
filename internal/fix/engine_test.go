package fix_test

import (
	"errors"
	"testing"

	"chamber/internal/diag"
	"chamber/internal/fix"
	"chamber/internal/parser"
	"chamber/internal/source"
)

func fixSource(t *testing.T, src string) *fix.Result {
	t.Helper()
	_, diags := parser.ParseWithDiagnostics(src)
	res, err := fix.Apply(src, diags, fix.Options{})
	if err != nil {
		t.Fatalf("Apply(%q): %v", src, err)
	}
	return res
}

func TestApplyClosesConstructs(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{"CDEF", "X:1\nK:C\nCDEF"},
		{"X:1\nT:t", "X:1\nT:t\nK:C\n"},
		{"[CEG\n(ABC", "X:1\nK:C\n[CEG]\n(ABC)"},
		{"X:1\nT:t\nK:C\n({a", "X:1\nT:t\nK:C\n({a})"},
		{"X:1\nT:t\nK:C\n[K:D\nC", "X:1\nT:t\nK:C\n[K:D]\nC"},
	}
	for _, tt := range tests {
		res := fixSource(t, tt.src)
		if res.Output != tt.want {
			t.Errorf("fix(%q) = %q, want %q", tt.src, res.Output, tt.want)
		}
		if !res.Changed() {
			t.Errorf("fix(%q) reported no change", tt.src)
		}
		_, after := parser.ParseWithDiagnostics(res.Output)
		for _, d := range after {
			if d.IsError() {
				t.Errorf("fix(%q): %s remains", tt.src, d.Code.ID())
			}
		}
	}
}

func TestApplyWithoutFixes(t *testing.T) {
	src := "X:1\nT:t\nK:C\nCDEF|"
	_, diags := parser.ParseWithDiagnostics(src)
	res, err := fix.Apply(src, diags, fix.Options{})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if res.Output != src || res.Changed() {
		t.Errorf("output changed: %q", res.Output)
	}
}

func TestManualFixesNeedAllMode(t *testing.T) {
	src := "X:1\nK:C\n!trilx!C"
	rng := source.NewRange(8, 15)
	d := diag.ReportError(diag.Discard, diag.UnknownDecoration, rng, "unknown decoration 'trilx'").
		WithSuggestion("use trill", diag.ReplaceRange(rng, "!trilx!", "!trill!")).
		Diagnostic()

	res, err := fix.Apply(src, []diag.Diagnostic{d}, fix.Options{})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("safe mode err = %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "applicability is manual" {
		t.Errorf("skipped = %#v", res.Skipped)
	}

	res, err = fix.Apply(src, []diag.Diagnostic{d}, fix.Options{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if res.Output != "X:1\nK:C\n!trill!C" {
		t.Errorf("output = %q", res.Output)
	}
}

func TestGuardAndConflicts(t *testing.T) {
	src := "abcdef"
	mk := func(code diag.Code, edits ...diag.TextEdit) diag.Diagnostic {
		return diag.Report(diag.Discard, code, source.NewRange(0, 1), "x").WithFix("fix", edits...).Diagnostic()
	}
	diags := []diag.Diagnostic{
		mk(diag.UnclosedChord, diag.ReplaceRange(source.NewRange(1, 3), "bc", "BC")),
		mk(diag.UnclosedSlur, diag.ReplaceRange(source.NewRange(2, 4), "cd", "CD")),
		mk(diag.UnclosedGraceNotes, diag.ReplaceRange(source.NewRange(4, 5), "zz", "E")),
		mk(diag.MissingKeyField, diag.InsertText(6, "!")),
	}
	res, err := fix.Apply(src, diags, fix.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Output != "aBCdef!" {
		t.Errorf("output = %q", res.Output)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 2 {
		t.Fatalf("applied %d skipped %d", len(res.Applied), len(res.Skipped))
	}
	if res.Skipped[0].Reason != "conflicts with previously applied edits" {
		t.Errorf("first skip = %q", res.Skipped[0].Reason)
	}
	if res.Skipped[1].Reason != "existing text does not match expected content" {
		t.Errorf("second skip = %q", res.Skipped[1].Reason)
	}
}

func TestOnceModeAndCodeFilter(t *testing.T) {
	src := "[CEG\n(ABC"
	_, diags := parser.ParseWithDiagnostics(src)

	res, err := fix.Apply(src, diags, fix.Options{Mode: fix.ApplyModeOnce})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Code != diag.MissingReferenceNumber {
		t.Errorf("once applied = %#v", res.Applied)
	}

	res, err = fix.Apply(src, diags, fix.Options{Codes: []diag.Code{diag.UnclosedSlur}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Output != "[CEG\n(ABC)" {
		t.Errorf("filtered output = %q", res.Output)
	}
}
