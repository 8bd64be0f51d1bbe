package lower_test

import (
	"strings"
	"testing"

	"chamber/internal/ast"
	"chamber/internal/diag"
	"chamber/internal/parser"
	"chamber/internal/source"
)

const header = "X:1\nT:t\nK:C\n"

func body(t *testing.T, music string) ([]ast.Element, []diag.Diagnostic) {
	t.Helper()
	tune, diags := parser.ParseWithDiagnostics(header + music)
	return tune.Body.Elements, diags
}

func notesOf(elems []ast.Element) []*ast.Note {
	var out []*ast.Note
	ast.WalkNotes(elems, func(n *ast.Note) { out = append(out, n) })
	return out
}

func codes(diags []diag.Diagnostic) string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.Code.ID())
	}
	return strings.Join(ids, " ")
}

func TestOctaves(t *testing.T) {
	elems, diags := body(t, "C c c' C, c'' C,,")
	if len(diags) != 0 {
		t.Fatalf("unexpected %s", codes(diags))
	}
	want := []int{0, 1, 2, -1, 3, -2}
	notes := notesOf(elems)
	if len(notes) != len(want) {
		t.Fatalf("notes = %d, want %d", len(notes), len(want))
	}
	for i, n := range notes {
		if n.Octave != want[i] {
			t.Errorf("note %d octave = %d, want %d", i, n.Octave, want[i])
		}
	}
}

func TestUnusualOctave(t *testing.T) {
	tests := []struct {
		music string
		msg   string
		rng   source.Range
	}{
		{"^c'''2", "unusual octave 4 (notes this high are rare)", source.NewRange(0, 5)},
		{"C,,,", "unusual octave -3 (notes this low are rare)", source.NewRange(0, 4)},
	}
	base := source.Pos(len(header))
	for _, tt := range tests {
		_, diags := body(t, tt.music)
		if codes(diags) != "W001" {
			t.Errorf("%q: codes = %s", tt.music, codes(diags))
			continue
		}
		if diags[0].Message != tt.msg {
			t.Errorf("%q: message = %q", tt.music, diags[0].Message)
		}
		want := source.NewRange(base+tt.rng.Start, base+tt.rng.End)
		if diags[0].Range != want {
			t.Errorf("%q: range = %v, want %v", tt.music, diags[0].Range, want)
		}
	}
}

func TestDurations(t *testing.T) {
	tests := []struct {
		music string
		want  string
	}{
		{"C2", "2/1"},
		{"C/", "1/2"},
		{"C/4", "1/4"},
		{"C3/4", "3/4"},
		{"C3/", "3/2"},
	}
	for _, tt := range tests {
		elems, diags := body(t, tt.music)
		if len(diags) != 0 {
			t.Errorf("%q: unexpected %s", tt.music, codes(diags))
		}
		note := elems[0].(*ast.Note)
		if note.Duration == nil || note.Duration.String() != tt.want {
			t.Errorf("%q: duration = %v, want %s", tt.music, note.Duration, tt.want)
		}
	}

	elems, _ := body(t, "C")
	if d := elems[0].(*ast.Note).Duration; d != nil {
		t.Errorf("bare note duration = %v, want nil", d)
	}
}

func TestLongDurationWarning(t *testing.T) {
	_, diags := body(t, "^C16")
	if codes(diags) != "W002" {
		t.Fatalf("codes = %s", codes(diags))
	}
	if diags[0].Message != "suspicious duration 16/1 (very long note)" {
		t.Errorf("message = %q", diags[0].Message)
	}
	base := source.Pos(len(header))
	if diags[0].Range != source.NewRange(base, base+4) {
		t.Errorf("range = %v", diags[0].Range)
	}

	for _, music := range []string{"C31/2", "C15", "z8"} {
		if _, diags := body(t, music); len(diags) != 0 {
			t.Errorf("%q: unexpected %s", music, codes(diags))
		}
	}
	if _, diags := body(t, "z16"); codes(diags) != "W002" {
		t.Errorf("rest z16: codes = %s", codes(diags))
	}
}

func TestZeroDenominator(t *testing.T) {
	elems, diags := body(t, "C/0")
	if codes(diags) != "M009" {
		t.Fatalf("codes = %s", codes(diags))
	}
	if got := elems[0].(*ast.Note).Duration.String(); got != "1/1" {
		t.Errorf("coerced duration = %s", got)
	}
}

func TestAccidentals(t *testing.T) {
	tests := []struct {
		music string
		want  ast.Accidental
	}{
		{"C", ast.AccNone},
		{"^C", ast.AccSharp},
		{"^^C", ast.AccDoubleSharp},
		{"_B", ast.AccFlat},
		{"__B", ast.AccDoubleFlat},
		{"=F", ast.AccNatural},
		{"^=F", ast.AccNatural},
	}
	for _, tt := range tests {
		elems, _ := body(t, tt.music)
		if got := elems[0].(*ast.Note).Accidental; got != tt.want {
			t.Errorf("%q: accidental = %v, want %v", tt.music, got, tt.want)
		}
	}
}

func TestElements(t *testing.T) {
	elems, diags := body(t, "!trill!C +fermata+z2 Z4 \"Am\"[CEG]2 (3DEF (AB) {ga} A>>B<C D-D [K:G]")
	if len(diags) != 0 {
		t.Fatalf("unexpected %s", codes(diags))
	}
	var kinds []string
	for _, e := range elems {
		kinds = append(kinds, e.Kind().String())
	}
	want := "note rest rest annotation chord tuplet slur grace_notes note broken_rhythm note broken_rhythm note note tie note inline_field"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("kinds:\n got  %s\n want %s", got, want)
	}

	if d := elems[0].(*ast.Note).Decorations; len(d) != 1 || d[0].Name != "trill" {
		t.Errorf("note decorations = %#v", d)
	}
	rest := elems[1].(*ast.Rest)
	if len(rest.Decorations) != 1 || rest.Decorations[0].Name != "fermata" || rest.MultiMeasure {
		t.Errorf("rest = %#v", rest)
	}
	if mm := elems[2].(*ast.Rest); !mm.MultiMeasure || mm.Duration.String() != "4/1" {
		t.Errorf("multi-measure rest = %#v", mm)
	}
	if a := elems[3].(*ast.Annotation); a.Text != "Am" {
		t.Errorf("annotation = %q", a.Text)
	}
	if c := elems[4].(*ast.Chord); len(c.Notes) != 3 || c.Duration.String() != "2/1" {
		t.Errorf("chord = %#v", c)
	}
	if tp := elems[5].(*ast.Tuplet); tp.Ratio != 3 || len(tp.Notes) != 3 {
		t.Errorf("tuplet = %#v", tp)
	}
	if s := elems[6].(*ast.Slur); len(s.Elements) != 2 {
		t.Errorf("slur = %#v", s)
	}
	if g := elems[7].(*ast.GraceNotes); len(g.Notes) != 2 || g.Notes[0].Octave != 1 {
		t.Errorf("grace = %#v", g)
	}
	if br := elems[9].(*ast.BrokenRhythm); !br.DottedFirst || br.Count != 2 {
		t.Errorf("broken rhythm = %#v", br)
	}
	if br := elems[11].(*ast.BrokenRhythm); br.DottedFirst || br.Count != 1 {
		t.Errorf("broken rhythm = %#v", br)
	}
	if f := elems[16].(*ast.InlineField); f.Label != 'K' || f.Value != "G" {
		t.Errorf("inline field = %#v", f)
	}
}

func TestBarLineKinds(t *testing.T) {
	elems, _ := body(t, "|a||b|:c:|d|]e[|f")
	want := []ast.BarLineKind{ast.BarSingle, ast.BarDouble, ast.BarRepeatStart, ast.BarRepeatEnd, ast.BarThinThick, ast.BarThickThin}
	var got []ast.BarLineKind
	for _, e := range elems {
		if b, ok := e.(*ast.BarLine); ok {
			got = append(got, b.Bar)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("bars = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bar %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStructureWarnings(t *testing.T) {
	tests := []struct {
		music string
		codes string
		msg   string
	}{
		{"[]", "M010", "empty chord"},
		{"(3|", "M011", "empty tuplet"},
		{"(3CD|", "M012", "tuplet expects 3 notes but found 2"},
		{"(5CDE\nF", "M012", "tuplet expects 5 notes but found 3"},
	}
	for _, tt := range tests {
		_, diags := body(t, tt.music)
		if codes(diags) != tt.codes {
			t.Errorf("%q: codes = %s, want %s", tt.music, codes(diags), tt.codes)
			continue
		}
		if diags[0].Message != tt.msg {
			t.Errorf("%q: message = %q", tt.music, diags[0].Message)
		}
	}
}

func TestHeaderProjection(t *testing.T) {
	tune := parser.Parse("X:7\nT: Title here \nC:Trad\nN:me\nK:Am\nA")
	if got := tune.Header.Value(ast.FieldReferenceNumber); got != "7" {
		t.Errorf("X = %q", got)
	}
	if got := tune.Header.Value(ast.FieldTitle); got != "Title here" {
		t.Errorf("T = %q", got)
	}
	if got := tune.Header.Value(ast.FieldComposer); got != "Trad" {
		t.Errorf("C = %q", got)
	}
	f := tune.Header.Fields[3]
	if f.Kind != ast.FieldOther || f.Label != 'N' || f.Value != "me" {
		t.Errorf("other field = %#v", f)
	}
	if tune.Header.Range != source.NewRange(0, 35) {
		t.Errorf("header range = %v", tune.Header.Range)
	}
	if tune.Body.Range != source.NewRange(36, 37) {
		t.Errorf("body range = %v", tune.Body.Range)
	}
}

func TestEmptyBodyRange(t *testing.T) {
	tune := parser.Parse(header)
	end := source.Pos(len(header))
	if tune.Body.Range != source.At(end) || len(tune.Body.Elements) != 0 {
		t.Errorf("body = %#v", tune.Body)
	}
}
