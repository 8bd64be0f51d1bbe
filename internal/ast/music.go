package ast

import (
	"strconv"

	"chamber/internal/source"
)

// ElementKind tags the concrete type behind an Element.
type ElementKind uint8

const (
	ElemNote ElementKind = iota
	ElemRest
	ElemChord
	ElemBarLine
	ElemTuplet
	ElemSlur
	ElemGraceNotes
	ElemBrokenRhythm
	ElemTie
	ElemInlineField
	ElemAnnotation
)

var elementKindNames = [...]string{
	ElemNote:         "note",
	ElemRest:         "rest",
	ElemChord:        "chord",
	ElemBarLine:      "bar_line",
	ElemTuplet:       "tuplet",
	ElemSlur:         "slur",
	ElemGraceNotes:   "grace_notes",
	ElemBrokenRhythm: "broken_rhythm",
	ElemTie:          "tie",
	ElemInlineField:  "inline_field",
	ElemAnnotation:   "annotation",
}

func (k ElementKind) String() string {
	if int(k) < len(elementKindNames) {
		return elementKindNames[k]
	}
	return "element(" + strconv.Itoa(int(k)) + ")"
}

// Element is a music element of the body. The set of implementations is closed.
type Element interface {
	Kind() ElementKind
	Span() source.Range
	element()
}

// Pitch is a pitch class.
type Pitch uint8

const (
	PitchC Pitch = iota
	PitchD
	PitchE
	PitchF
	PitchG
	PitchA
	PitchB
)

// PitchOf maps a note letter to its pitch class and base octave:
// uppercase letters are octave 0, lowercase octave 1.
func PitchOf(letter byte) (Pitch, int, bool) {
	octave := 0
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
		octave = 1
	}
	switch letter {
	case 'C':
		return PitchC, octave, true
	case 'D':
		return PitchD, octave, true
	case 'E':
		return PitchE, octave, true
	case 'F':
		return PitchF, octave, true
	case 'G':
		return PitchG, octave, true
	case 'A':
		return PitchA, octave, true
	case 'B':
		return PitchB, octave, true
	}
	return 0, 0, false
}

func (p Pitch) String() string {
	if p > PitchB {
		return "?"
	}
	return string("CDEFGAB"[p])
}

// Accidental is the resolved accidental of a note.
type Accidental uint8

const (
	AccNone Accidental = iota
	AccSharp
	AccDoubleSharp
	AccFlat
	AccDoubleFlat
	AccNatural
)

func (a Accidental) String() string {
	switch a {
	case AccSharp:
		return "sharp"
	case AccDoubleSharp:
		return "double_sharp"
	case AccFlat:
		return "flat"
	case AccDoubleFlat:
		return "double_flat"
	case AccNatural:
		return "natural"
	default:
		return "none"
	}
}

// Decoration is "!name!" or "+name+" with the delimiters stripped.
type Decoration struct {
	Name  string
	Range source.Range
}

// Note is a single pitched note.
type Note struct {
	Pitch       Pitch
	Octave      int
	Accidental  Accidental
	Duration    *Duration
	Decorations []Decoration
	Range       source.Range
}

// Rest is "z" or, for a multi-measure rest, "Z".
type Rest struct {
	MultiMeasure bool
	Duration     *Duration
	Decorations  []Decoration
	Range        source.Range
}

// Chord is "[...]" with an optional duration after the closer.
type Chord struct {
	Notes       []Note
	Duration    *Duration
	Decorations []Decoration
	Range       source.Range
}

// BarLineKind enumerates bar variants.
type BarLineKind uint8

const (
	BarSingle BarLineKind = iota
	BarDouble
	BarRepeatStart
	BarRepeatEnd
	BarThinThick
	BarThickThin
)

func (k BarLineKind) String() string {
	switch k {
	case BarDouble:
		return "double"
	case BarRepeatStart:
		return "repeat_start"
	case BarRepeatEnd:
		return "repeat_end"
	case BarThinThick:
		return "thin_thick"
	case BarThickThin:
		return "thick_thin"
	default:
		return "single"
	}
}

type BarLine struct {
	Bar   BarLineKind
	Range source.Range
}

// Tuplet is "(n" followed by up to n notes.
type Tuplet struct {
	Ratio uint32
	Notes []Note
	Range source.Range
}

type Slur struct {
	Elements []Element
	Range    source.Range
}

type GraceNotes struct {
	Notes []Note
	Range source.Range
}

// BrokenRhythm is a run of '>' (DottedFirst) or '<'.
type BrokenRhythm struct {
	DottedFirst bool
	Count       uint32
	Range       source.Range
}

type Tie struct {
	Range source.Range
}

// InlineField is "[L:value]" inside the body. Label is 0 when absent.
type InlineField struct {
	Label rune
	Value string
	Range source.Range
}

// Annotation is a quoted string such as a chord symbol.
type Annotation struct {
	Text  string
	Range source.Range
}

func (*Note) Kind() ElementKind         { return ElemNote }
func (*Rest) Kind() ElementKind         { return ElemRest }
func (*Chord) Kind() ElementKind        { return ElemChord }
func (*BarLine) Kind() ElementKind      { return ElemBarLine }
func (*Tuplet) Kind() ElementKind       { return ElemTuplet }
func (*Slur) Kind() ElementKind         { return ElemSlur }
func (*GraceNotes) Kind() ElementKind   { return ElemGraceNotes }
func (*BrokenRhythm) Kind() ElementKind { return ElemBrokenRhythm }
func (*Tie) Kind() ElementKind          { return ElemTie }
func (*InlineField) Kind() ElementKind  { return ElemInlineField }
func (*Annotation) Kind() ElementKind   { return ElemAnnotation }

func (n *Note) Span() source.Range         { return n.Range }
func (r *Rest) Span() source.Range         { return r.Range }
func (c *Chord) Span() source.Range        { return c.Range }
func (b *BarLine) Span() source.Range      { return b.Range }
func (t *Tuplet) Span() source.Range       { return t.Range }
func (s *Slur) Span() source.Range         { return s.Range }
func (g *GraceNotes) Span() source.Range   { return g.Range }
func (b *BrokenRhythm) Span() source.Range { return b.Range }
func (t *Tie) Span() source.Range          { return t.Range }
func (f *InlineField) Span() source.Range  { return f.Range }
func (a *Annotation) Span() source.Range   { return a.Range }

func (*Note) element()         {}
func (*Rest) element()         {}
func (*Chord) element()        {}
func (*BarLine) element()      {}
func (*Tuplet) element()       {}
func (*Slur) element()         {}
func (*GraceNotes) element()   {}
func (*BrokenRhythm) element() {}
func (*Tie) element()          {}
func (*InlineField) element()  {}
func (*Annotation) element()   {}
