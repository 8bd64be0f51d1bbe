package ast

import (
	"testing"

	"chamber/internal/source"
)

func TestPitchOf(t *testing.T) {
	tests := []struct {
		letter byte
		pitch  Pitch
		octave int
		ok     bool
	}{
		{'C', PitchC, 0, true},
		{'B', PitchB, 0, true},
		{'c', PitchC, 1, true},
		{'g', PitchG, 1, true},
		{'H', 0, 0, false},
		{'z', 0, 0, false},
	}
	for _, tt := range tests {
		p, o, ok := PitchOf(tt.letter)
		if ok != tt.ok || (ok && (p != tt.pitch || o != tt.octave)) {
			t.Errorf("PitchOf(%q) = %v, %d, %v", tt.letter, p, o, ok)
		}
	}
}

func TestHeaderLookup(t *testing.T) {
	h := Header{Fields: []HeaderField{
		{Kind: FieldReferenceNumber, Label: 'X', Value: "1"},
		{Kind: FieldTitle, Label: 'T', Value: "First"},
		{Kind: FieldTitle, Label: 'T', Value: "Second"},
	}}
	if got := h.Value(FieldTitle); got != "First" {
		t.Fatalf("title = %q", got)
	}
	if _, ok := h.Field(FieldKey); ok {
		t.Fatal("unexpected key field")
	}
	if FieldKindOf('Q') != FieldTempo || FieldKindOf('W') != FieldOther {
		t.Fatal("FieldKindOf mismatch")
	}
}

func TestWalkNotesReachesNested(t *testing.T) {
	body := []Element{
		&Note{Pitch: PitchC},
		&Chord{Notes: []Note{{Pitch: PitchE}, {Pitch: PitchG}}},
		&Slur{Elements: []Element{
			&Note{Pitch: PitchA},
			&Tuplet{Ratio: 3, Notes: []Note{{Pitch: PitchB}}},
		}},
		&GraceNotes{Notes: []Note{{Pitch: PitchD}}},
		&BarLine{Range: source.NewRange(10, 11)},
	}
	var got []Pitch
	WalkNotes(body, func(n *Note) { got = append(got, n.Pitch) })
	want := []Pitch{PitchC, PitchE, PitchG, PitchA, PitchB, PitchD}
	if len(got) != len(want) {
		t.Fatalf("notes = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notes = %v, want %v", got, want)
		}
	}
}

func TestDurationValue(t *testing.T) {
	if v := (Duration{Num: 3, Den: 2}).Value(); v != 1.5 {
		t.Fatalf("value = %v", v)
	}
	if s := (Duration{Num: 1, Den: 8}).String(); s != "1/8" {
		t.Fatalf("string = %q", s)
	}
}
