package diag

import (
	"strings"
	"testing"

	"chamber/internal/source"
)

func TestCodeTableIsComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllCodes() {
		id := c.ID()
		if len(id) != 4 || !strings.ContainsRune("LHMSWI", rune(id[0])) {
			t.Fatalf("%s: malformed id %q", c.Name(), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		if c.Name() == "" || c.Title() == "" {
			t.Fatalf("%s: missing name or message", id)
		}
		if got, ok := ParseCode(id); !ok || got != c {
			t.Fatalf("ParseCode(%q) = %v, %v", id, got, ok)
		}
		if c.Category() == CategoryStyle && c.DefaultSeverity() != SevWarning {
			t.Fatalf("%s: style codes must default to warning", id)
		}
	}
}

func TestStableIdentifiers(t *testing.T) {
	tests := map[Code]string{
		UnexpectedCharacter:    "L001",
		MissingReferenceNumber: "H001",
		MissingKeyField:        "H002",
		InvalidReferenceNumber: "H012",
		UnclosedChord:          "M001",
		UnclosedInlineField:    "M013",
		UnknownDecoration:      "M014",
		EmptyTune:              "S001",
		UnexpectedToken:        "S002",
		UnusualOctave:          "W001",
		BarLengthMismatch:      "W003",
	}
	for code, want := range tests {
		if code.String() != want {
			t.Errorf("%s: String() = %q, want %q", code.Name(), code.String(), want)
		}
	}
	if Code(250).ID() != "E000" {
		t.Errorf("out-of-range code id = %q", Code(250).ID())
	}
}

func TestNewUsesDefaults(t *testing.T) {
	d := New(EmptyChord, source.NewRange(0, 2))
	if d.Severity != SevWarning || d.Message != "empty chord" {
		t.Fatalf("New = %+v", d)
	}
	e := d.WithSeverity(SevError).WithMessage("custom").WithLabel(source.At(0), "here")
	if d.Severity != SevWarning || len(d.Labels) != 0 {
		t.Fatal("With* must not mutate the receiver")
	}
	if e.Severity != SevError || e.Message != "custom" || len(e.Labels) != 1 {
		t.Fatalf("derived = %+v", e)
	}
}

func TestBagCountsIncrementally(t *testing.T) {
	bag := NewBag(0)
	bag.Report(New(MissingKeyField, source.At(0)))
	bag.Report(New(MissingTitle, source.At(0)))
	bag.Report(New(UnclosedChord, source.NewRange(2, 4)))
	if bag.ErrorCount() != 2 || bag.WarningCount() != 1 || bag.Len() != 3 {
		t.Fatalf("counts: errors=%d warnings=%d len=%d", bag.ErrorCount(), bag.WarningCount(), bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("HasErrors/HasWarnings mismatch")
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(New(MissingKeyField, source.At(0))) {
		t.Fatal("first Add must succeed")
	}
	if bag.Add(New(MissingKeyField, source.At(1))) {
		t.Fatal("second Add must be rejected")
	}
	if bag.Dropped() != 1 || bag.ErrorCount() != 1 {
		t.Fatalf("dropped=%d errors=%d", bag.Dropped(), bag.ErrorCount())
	}
}

func TestBagSortAfterDedup(t *testing.T) {
	bag := NewBag(0)
	sink := NewDedupSink(bag)
	sink.Report(New(MissingTitle, source.NewRange(5, 6)))
	sink.Report(New(UnclosedChord, source.NewRange(0, 3)))
	sink.Report(New(EmptyChord, source.NewRange(0, 3)))
	sink.Report(New(UnclosedChord, source.NewRange(0, 3)))
	if bag.Len() != 3 || bag.ErrorCount() != 1 || bag.WarningCount() != 2 {
		t.Fatalf("after dedup: len=%d errors=%d warnings=%d", bag.Len(), bag.ErrorCount(), bag.WarningCount())
	}
	bag.Sort()
	got := []Code{bag.Items()[0].Code, bag.Items()[1].Code, bag.Items()[2].Code}
	want := []Code{UnclosedChord, EmptyChord, MissingTitle}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted codes = %v, want %v", got, want)
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := Report(bag, UnclosedSlur, source.NewRange(0, 2), "unclosed slur, missing ')'").
		WithLabel(source.NewRange(0, 1), "opening '(' here").
		WithFix("insert ')'", InsertText(2, ")"))
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != SevError || len(d.Labels) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Applicability != FixSafe {
		t.Fatalf("built = %+v", d)
	}
}

func TestDedupSink(t *testing.T) {
	bag := NewBag(0)
	sink := NewDedupSink(bag)
	d := New(UnusualOctave, source.NewRange(1, 4))
	sink.Report(d)
	sink.Report(d)
	sink.Report(d.WithMessage("other"))
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	src := "X:1\nK:C\n[CE\n"
	diags := []Diagnostic{
		New(MissingTitle, source.NewRange(0, 8)),
		New(UnclosedChord, source.NewRange(8, 11)).WithLabel(source.NewRange(8, 9), "opening '[' here"),
	}
	got := FormatGoldenDiagnostics(diags, src, "t.abc", true)
	want := strings.Join([]string{
		"warning H009 t.abc:1:1 missing title field (T:)",
		"error M001 t.abc:3:1 unclosed chord, missing ']'",
		"label M001 t.abc:3:1 opening '[' here",
	}, "\n")
	if got != want {
		t.Fatalf("golden mismatch:\n%s\nwant:\n%s", got, want)
	}
}
