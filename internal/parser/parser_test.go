package parser_test

import (
	"context"
	"strings"
	"testing"

	"chamber/internal/ast"
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/parser"
	"chamber/internal/source"
)

const validHeader = "X:1\nT:Test\nK:C\n"

func ids(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code.ID())
	}
	return out
}

func idsWithPrefix(diags []diag.Diagnostic, prefix string) []string {
	var out []string
	for _, d := range diags {
		if id := d.Code.ID(); strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out
}

func find(diags []diag.Diagnostic, id string) (diag.Diagnostic, bool) {
	for _, d := range diags {
		if d.Code.ID() == id {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}

func TestLosslessRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"% only a comment\n",
		"CDEF",
		validHeader + "|:GABc d2e2|f4 g4:|\n",
		"X:1\r\nT:crlf\r\nK:G\r\nGABc\r\n",
		"[CEG\n(ABC",
		"X:1\nK:C\n!trill C %x\n\"Am",
		"X:1\nK:C\n#$€ ]) } {a [K:D\n",
		"T:no x\nM:9\nQ:zz\nL:1/0\nK:Hx\n(3CD (2 [] {}",
		"X:1\nK:C\nC\\\nD [Q:1/4=90] E>F G<<A B- c",
	}
	for _, src := range inputs {
		tree := parser.ParseLossless(src)
		if got := cst.Print(tree, src); got != src {
			t.Errorf("round trip of %q printed %q", src, got)
		}
	}
}

func TestValidTuneHasNoDiagnostics(t *testing.T) {
	src := "X:1\nT:Test\nM:4/4\nL:1/8\nQ:1/4=120\nK:G\n|:GABc d2e2|f4 g4:|\n"
	tune, diags := parser.ParseWithDiagnostics(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", ids(diags))
	}
	if got := tune.Header.Value(ast.FieldTitle); got != "Test" {
		t.Errorf("title = %q", got)
	}
	if got := tune.Header.Value(ast.FieldKey); got != "G" {
		t.Errorf("key = %q", got)
	}
	if len(tune.Header.Fields) != 6 {
		t.Errorf("header fields = %d, want 6", len(tune.Header.Fields))
	}
	notes := 0
	ast.WalkNotes(tune.Body.Elements, func(*ast.Note) { notes++ })
	if notes != 8 {
		t.Errorf("notes = %d, want 8", notes)
	}
}

func TestRecoveryStopsAtEndOfLine(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics("[CEG\n(ABC")
	if len(tune.Body.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(tune.Body.Elements))
	}
	chord, ok := tune.Body.Elements[0].(*ast.Chord)
	if !ok || len(chord.Notes) != 3 {
		t.Fatalf("first element = %#v, want chord with 3 notes", tune.Body.Elements[0])
	}
	slur, ok := tune.Body.Elements[1].(*ast.Slur)
	if !ok || len(slur.Elements) != 3 {
		t.Fatalf("second element = %#v, want slur with 3 elements", tune.Body.Elements[1])
	}

	m001, ok := find(diags, "M001")
	if !ok {
		t.Fatalf("missing M001 in %v", ids(diags))
	}
	if m001.Range != source.NewRange(0, 4) {
		t.Errorf("M001 range = %v, want 0..4", m001.Range)
	}
	if len(m001.Labels) != 1 || m001.Labels[0].Message != "opening '[' here" {
		t.Errorf("M001 labels = %#v", m001.Labels)
	}
	if len(m001.Fixes) != 1 || m001.Fixes[0].Edits[0].NewText != "]" || m001.Fixes[0].Edits[0].Range.Start != 4 {
		t.Errorf("M001 fix = %#v", m001.Fixes)
	}
	if m002, ok := find(diags, "M002"); !ok || m002.Range != source.NewRange(5, 9) {
		t.Errorf("M002 = %#v", m002)
	}
}

func TestEachLineRecoversIndependently(t *testing.T) {
	src := "[C\n(D\n{e\n[F\n(G\n"
	_, diags := parser.ParseWithDiagnostics(src)
	var music []diag.Diagnostic
	for _, d := range diags {
		if d.Code.Category() == diag.CategoryMusic {
			music = append(music, d)
		}
	}
	got := diag.FormatGoldenDiagnostics(music, src, "lines.abc", true)
	want := strings.Join([]string{
		"error M001 lines.abc:1:1 unclosed chord, missing ']'",
		"label M001 lines.abc:1:1 opening '[' here",
		"error M002 lines.abc:2:1 unclosed slur, missing ')'",
		"label M002 lines.abc:2:1 opening '(' here",
		"error M003 lines.abc:3:1 unclosed grace notes, missing '}'",
		"label M003 lines.abc:3:1 opening '{' here",
		"error M001 lines.abc:4:1 unclosed chord, missing ']'",
		"label M001 lines.abc:4:1 opening '[' here",
		"error M002 lines.abc:5:1 unclosed slur, missing ')'",
		"label M002 lines.abc:5:1 opening '(' here",
	}, "\n")
	if got != want {
		t.Fatalf("music diagnostics:\n%s\nwant:\n%s", got, want)
	}
}

func TestBarLineEndsConstructs(t *testing.T) {
	_, diags := parser.ParseWithDiagnostics(validHeader + "[CE|G]")
	got := strings.Join(idsWithPrefix(diags, "M"), " ")
	if got != "M001 M004" {
		t.Fatalf("music codes = %s", got)
	}
}

func TestCloserOnNextLineIsStray(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"[CE\n]", "M001 M004"},
		{"(CE\n)", "M002 M005"},
		{"{CE\n}", "M003 M006"},
		{"[K:D\n]", "M013 M004"},
		{"[CE]\n[CE\nG]", "M001 M004"},
	}
	for _, tt := range tests {
		_, diags := parser.ParseWithDiagnostics(validHeader + tt.body)
		if got := strings.Join(idsWithPrefix(diags, "M"), " "); got != tt.want {
			t.Errorf("%q: music codes = %s, want %s", tt.body, got, tt.want)
		}
	}

	_, diags := parser.ParseWithDiagnostics(validHeader + "[CE\n]")
	start := source.Pos(len(validHeader))
	if m001, ok := find(diags, "M001"); !ok || m001.Range != source.NewRange(start, start+3) {
		t.Errorf("M001 = %#v", m001)
	}
	if m004, ok := find(diags, "M004"); !ok || m004.Range != source.NewRange(start+4, start+5) {
		t.Errorf("M004 = %#v", m004)
	}
}

func TestUnclosedChordKeepsNoteDuration(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics(validHeader + "[CE2")
	if got := strings.Join(ids(diags), " "); got != "M001" {
		t.Fatalf("codes = %s", got)
	}
	chord, ok := tune.Body.Elements[0].(*ast.Chord)
	if !ok || len(chord.Notes) != 2 {
		t.Fatalf("element = %#v", tune.Body.Elements[0])
	}
	if chord.Duration != nil {
		t.Errorf("chord duration = %v, want none", chord.Duration)
	}
	if d := chord.Notes[1].Duration; d == nil || *d != (ast.Duration{Num: 2, Den: 1}) {
		t.Errorf("last note duration = %v, want 2/1", d)
	}
}

func TestDoubleSlashReadsAsOneSlash(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics(validHeader + "C//D")
	if len(diags) != 0 {
		t.Fatalf("unexpected %v", ids(diags))
	}
	if len(tune.Body.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(tune.Body.Elements))
	}
	note := tune.Body.Elements[0].(*ast.Note)
	if note.Duration == nil || *note.Duration != (ast.Duration{Num: 1, Den: 2}) {
		t.Errorf("duration = %v, want 1/2", note.Duration)
	}
}

func TestBareNotesNeedHeaderFields(t *testing.T) {
	_, diags := parser.ParseWithDiagnostics("CDEF")
	var errs []string
	for _, d := range diags {
		if d.IsError() {
			errs = append(errs, d.Code.ID())
		}
	}
	if strings.Join(errs, " ") != "H001 H002" {
		t.Fatalf("errors = %v", errs)
	}
	if _, ok := find(diags, "H009"); !ok {
		t.Fatalf("missing H009 in %v", ids(diags))
	}

	h001, _ := find(diags, "H001")
	if len(h001.Fixes) != 1 || h001.Fixes[0].Edits[0].NewText != "X:1\n" || h001.Fixes[0].Edits[0].Range.Start != 0 {
		t.Errorf("H001 fix = %#v", h001.Fixes)
	}
	h002, _ := find(diags, "H002")
	if len(h002.Fixes) != 1 || h002.Fixes[0].Edits[0].NewText != "K:C\n" || h002.Fixes[0].Applicability != diag.FixSafe {
		t.Errorf("H002 fix = %#v", h002.Fixes)
	}
}

func TestMissingKeyFixClosesOpenLine(t *testing.T) {
	src := "X:1\nT:t"
	_, diags := parser.ParseWithDiagnostics(src)
	h002, ok := find(diags, "H002")
	if !ok {
		t.Fatalf("missing H002 in %v", ids(diags))
	}
	edit := h002.Fixes[0].Edits[0]
	if edit.NewText != "\nK:C\n" || edit.Range.Start != source.Pos(len(src)) {
		t.Fatalf("edit = %#v", edit)
	}
}

func TestHeaderValidation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		msg  string
	}{
		{"duplicate X", "X:1\nX:2\nT:t\nK:C\n", "H003", "duplicate reference number field"},
		{"X not first", "T:t\nX:1\nK:C\n", "H004", "X: (reference number) should be the first field in the header"},
		{"meter", "X:1\nT:t\nM:5\nK:C\n", "H005", "invalid meter value '5' (expected format: 4/4, 3/4, C, C|)"},
		{"meter zero den", "X:1\nT:t\nM:3/0\nK:C\n", "H005", "invalid meter value '3/0' (expected format: 4/4, 3/4, C, C|)"},
		{"tempo", "X:1\nT:t\nQ:abc\nK:C\n", "H006", "invalid tempo value 'abc' (expected format: 120 or 1/4=120)"},
		{"tempo bpm", "X:1\nT:t\nQ:1/4=fast\nK:C\n", "H006", "invalid tempo BPM 'fast'"},
		{"unit length", "X:1\nT:t\nL:x\nK:C\n", "H007", "invalid unit note length 'x' (expected format: 1/4, 1/8)"},
		{"key tonic", "X:1\nT:t\nK:H\n", "H008", "invalid key 'H' (must start with A-G)"},
		{"key mode", "X:1\nT:t\nK:Cxyz\n", "H008", "invalid key mode 'xyz' for key C"},
		{"empty key", "X:1\nT:t\nK:\n", "H008", "empty key field (K:)"},
		{"no title", "X:1\nK:C\n", "H009", "missing title field (T:)"},
		{"empty title", "X:1\nT:\nK:C\n", "H010", "empty title field"},
		{"empty X", "X:\nT:t\nK:C\n", "H011", "empty reference number field"},
		{"bad X", "X:abc\nT:t\nK:C\n", "H012", "invalid reference number 'abc' (must be a positive integer)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parser.ParseWithDiagnostics(tt.src)
			if len(diags) != 1 {
				t.Fatalf("diagnostics = %v, want only %s", ids(diags), tt.code)
			}
			if got := diags[0].Code.ID(); got != tt.code {
				t.Fatalf("code = %s, want %s", got, tt.code)
			}
			if diags[0].Message != tt.msg {
				t.Errorf("message = %q, want %q", diags[0].Message, tt.msg)
			}
		})
	}
}

func TestDuplicateReferenceLabelsFirst(t *testing.T) {
	_, diags := parser.ParseWithDiagnostics("X:1\nX:2\nT:t\nK:C\n")
	d, ok := find(diags, "H003")
	if !ok {
		t.Fatal("missing H003")
	}
	if d.Range != source.NewRange(4, 7) {
		t.Errorf("range = %v, want 4..7", d.Range)
	}
	if len(d.Labels) != 1 || d.Labels[0].Range != source.NewRange(0, 3) || d.Labels[0].Message != "first X: defined here" {
		t.Errorf("labels = %#v", d.Labels)
	}
}

func TestValidHeaderValues(t *testing.T) {
	fields := []string{
		"M:C", "M:C|", "M:none", "M:6/8", "M: 3 / 4",
		"Q:120", "Q:1/4=120", "Q:\"Allegro\" 1/4=120", "Q:\"Allegro\"",
		"L:1/16",
		"K:A minor", "K:F#m", "K:Bb", "K:Dmix", "K:none", "K:HP",
	}
	for _, f := range fields {
		src := "X:1\nT:t\n" + f + "\n"
		if !strings.HasPrefix(f, "K:") {
			src += "K:C\n"
		}
		if _, diags := parser.ParseWithDiagnostics(src); len(diags) != 0 {
			t.Errorf("%q: unexpected %v", f, ids(diags))
		}
	}
}

func TestCheckers(t *testing.T) {
	if !parser.ValidMeter("2/2") || parser.ValidMeter("2/") || parser.ValidMeter("x") {
		t.Error("ValidMeter mismatch")
	}
	if _, ok := parser.CheckTempo("3/8=60"); !ok {
		t.Error("CheckTempo rejected 3/8=60")
	}
	if msg, ok := parser.CheckTempo("x=60"); ok || msg != "invalid tempo note length 'x'" {
		t.Errorf("CheckTempo(x=60) = %q, %v", msg, ok)
	}
	if _, ok := parser.CheckKey("Gdorian"); !ok {
		t.Error("CheckKey rejected Gdorian")
	}
	if msg, ok := parser.CheckKey("c"); ok || msg != "invalid key 'c' (must start with A-G)" {
		t.Errorf("CheckKey(c) = %q, %v", msg, ok)
	}
}

func TestEmptyTune(t *testing.T) {
	for _, src := range []string{"", "  % nothing\n"} {
		_, diags := parser.ParseWithDiagnostics(src)
		if got := strings.Join(ids(diags), " "); got != "H001 H002 H009 S001" {
			t.Errorf("%q: codes = %s", src, got)
			continue
		}
		if s001 := diags[3]; s001.Range != source.NewRange(0, source.Pos(len(src))) {
			t.Errorf("%q: S001 range = %v", src, s001.Range)
		}
	}
}

func TestFieldInBody(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics(validHeader + "CD\nT:again\nE")
	if got := strings.Join(ids(diags), " "); got != "S002" {
		t.Fatalf("codes = %s", got)
	}
	if diags[0].Message != "field 'T:' found in music body (should be in header before K:)" {
		t.Errorf("message = %q", diags[0].Message)
	}
	if len(tune.Body.Elements) != 3 {
		t.Errorf("elements = %d, want 3", len(tune.Body.Elements))
	}
}

func TestStrayClosers(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics(validHeader + "C]D)E}")
	if got := strings.Join(ids(diags), " "); got != "M004 M005 M006" {
		t.Fatalf("codes = %s", got)
	}
	if len(tune.Body.Elements) != 3 {
		t.Errorf("elements = %d, want 3", len(tune.Body.Elements))
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		body string
		code string
		msg  string
	}{
		{"C#D", "L001", "unexpected character '#'"},
		{"!trill C", "L002", "unterminated decoration, missing closing '!'"},
		{"+fermata", "L002", "unterminated decoration, missing closing '+'"},
		{"\"Am", "L003", "unterminated annotation, missing closing '\"'"},
	}
	for _, tt := range tests {
		_, diags := parser.ParseWithDiagnostics(validHeader + tt.body)
		if len(diags) != 1 || diags[0].Code.ID() != tt.code || diags[0].Message != tt.msg {
			t.Errorf("%q: got %v %#v", tt.body, ids(diags), diags)
		}
	}
}

func TestInlineFields(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics(validHeader + "C[K:D]E")
	if len(diags) != 0 {
		t.Fatalf("unexpected %v", ids(diags))
	}
	field, ok := tune.Body.Elements[1].(*ast.InlineField)
	if !ok || field.Label != 'K' || field.Value != "D" {
		t.Fatalf("inline field = %#v", tune.Body.Elements[1])
	}

	_, diags = parser.ParseWithDiagnostics(validHeader + "[K:D\nC")
	if got := strings.Join(ids(diags), " "); got != "M013" {
		t.Fatalf("codes = %s", got)
	}
	if diags[0].Range != source.NewRange(source.Pos(len(validHeader)), source.Pos(len(validHeader)+4)) {
		t.Errorf("M013 range = %v", diags[0].Range)
	}
}

func TestStrayAccidental(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics(validHeader + "^|C")
	if got := strings.Join(ids(diags), " "); got != "M008" {
		t.Fatalf("codes = %s", got)
	}
	if diags[0].Message != "accidental '^' is not followed by a note" {
		t.Errorf("message = %q", diags[0].Message)
	}
	if len(tune.Body.Elements) != 2 {
		t.Errorf("elements = %d, want bar and note", len(tune.Body.Elements))
	}
}

func TestTupletStopsAtRatio(t *testing.T) {
	tune, diags := parser.ParseWithDiagnostics(validHeader + "(3CDEF")
	if len(diags) != 0 {
		t.Fatalf("unexpected %v", ids(diags))
	}
	if len(tune.Body.Elements) != 2 {
		t.Fatalf("elements = %d, want tuplet and note", len(tune.Body.Elements))
	}
	tuplet := tune.Body.Elements[0].(*ast.Tuplet)
	if tuplet.Ratio != 3 || len(tuplet.Notes) != 3 {
		t.Errorf("tuplet = %#v", tuplet)
	}
}

func TestParseDropsDiagnostics(t *testing.T) {
	tune := parser.Parse("[CEG")
	if tune == nil || len(tune.Body.Elements) != 1 {
		t.Fatalf("tune = %#v", tune)
	}
}

func TestParseSourceBoundsBag(t *testing.T) {
	var seen int
	res := parser.ParseSource(context.Background(), "t.abc", "CDEF", parser.Options{
		MaxDiagnostics: 1,
		Sink:           diag.SinkFunc(func(diag.Diagnostic) { seen++ }),
	})
	if res.Bag.Len() != 1 || res.Bag.Dropped() != 2 {
		t.Errorf("bag len = %d dropped = %d", res.Bag.Len(), res.Bag.Dropped())
	}
	if seen != 3 {
		t.Errorf("sink saw %d diagnostics, want 3", seen)
	}
	if res.Tree == nil || res.Tune == nil {
		t.Fatal("missing trees")
	}
}

func TestParseWithDiagnosticsMatchesParseSource(t *testing.T) {
	inputs := []string{
		"CDEF",
		"[CEG\n(ABC",
		"X:1\nX:2\nT:t\nK:C\n",
		validHeader + "C]D)E}[CE\n]",
		"T:no x\nM:9\nQ:zz\nL:1/0\nK:Hx\n(3CD (2 [] {}",
	}
	for _, src := range inputs {
		_, got := parser.ParseWithDiagnostics(src)
		want := parser.ParseSource(context.Background(), "", src, parser.Options{}).Bag.Items()
		if len(got) != len(want) {
			t.Errorf("%q: %v, want %v", src, ids(got), ids(want))
			continue
		}
		for i := range got {
			if got[i].Code != want[i].Code || got[i].Range != want[i].Range || got[i].Message != want[i].Message {
				t.Errorf("%q: diagnostic %d = %v %v, want %v %v", src, i, got[i].Code.ID(), got[i].Range, want[i].Code.ID(), want[i].Range)
			}
		}
		seen := map[string]bool{}
		for _, d := range got {
			key := d.Code.ID() + d.Range.String() + d.Message
			if seen[key] {
				t.Errorf("%q: duplicate %s at %v", src, d.Code.ID(), d.Range)
			}
			seen[key] = true
		}
	}
}
