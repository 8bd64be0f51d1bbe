package lower

import (
	"fmt"
	"strconv"
	"strings"

	"chamber/internal/ast"
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

const (
	maxOctave = 3
	minOctave = -2
	// longDuration: порог подозрительно длинной ноты (в единицах L:).
	longDuration = 16.0
)

// note projects a NOTE node. ok is false when the node has no note letter
// (a stray accidental kept by the parser) or the letter is not A-G.
func (p *projector) note(n *cst.Node) (ast.Note, bool) {
	note := ast.Note{Range: visible(n)}
	var (
		start  source.Pos
		marked source.Pos
		letter *cst.Token
		acc    *cst.Node
		dur    *cst.Node
		shift  int
		begun  bool
	)
	for _, ch := range n.Children {
		if child := ch.Node(); child != nil {
			switch child.Kind {
			case syntax.DecorationNode:
				note.Decorations = append(note.Decorations, p.decoration(child))
			case syntax.Accidental:
				acc = child
				start, begun = visible(child).Start, true
			case syntax.Duration:
				dur = child
			}
			continue
		}
		t := ch.Token()
		switch t.Kind {
		case syntax.NoteName:
			letter = t
			if !begun {
				start, begun = t.Range.Start, true
			}
			marked = t.Range.End
		case syntax.OctaveUp:
			shift++
			marked = t.Range.End
		case syntax.OctaveDown:
			shift--
			marked = t.Range.End
		}
	}
	if letter == nil {
		return note, false
	}

	text := letter.Text(p.src)
	pitch, base, ok := ast.PitchOf(text[0])
	if !ok {
		p.report(diag.InvalidNoteName, letter.Range, "invalid note name '"+text[:1]+"'")
		return note, false
	}
	note.Pitch = pitch
	note.Octave = base + shift
	if acc != nil {
		note.Accidental = accidental(acc)
	}

	if note.Octave > maxOctave || note.Octave < minOctave {
		where := "high"
		if note.Octave < minOctave {
			where = "low"
		}
		p.report(diag.UnusualOctave, source.NewRange(start, marked),
			fmt.Sprintf("unusual octave %d (notes this %s are rare)", note.Octave, where))
	}

	if dur != nil {
		d := p.duration(dur, start, true)
		note.Duration = &d
	}
	return note, true
}

// notes projects the NOTE children of a chord, tuplet or grace group.
func (p *projector) notes(n *cst.Node) []ast.Note {
	var out []ast.Note
	for _, child := range n.ChildNodes(syntax.Note) {
		if note, ok := p.note(child); ok {
			out = append(out, note)
		}
	}
	return out
}

func (p *projector) rest(n *cst.Node) *ast.Rest {
	r := &ast.Rest{Range: visible(n)}
	for _, deco := range n.ChildNodes(syntax.DecorationNode) {
		r.Decorations = append(r.Decorations, p.decoration(deco))
	}
	if tok := n.ChildToken(syntax.Rest); tok != nil {
		r.MultiMeasure = tok.Text(p.src) == "Z"
	}
	if dur := n.ChildNode(syntax.Duration); dur != nil {
		d := p.duration(dur, 0, false)
		r.Duration = &d
	}
	return r
}

func (p *projector) chord(n *cst.Node) *ast.Chord {
	c := &ast.Chord{Range: visible(n)}
	for _, deco := range n.ChildNodes(syntax.DecorationNode) {
		c.Decorations = append(c.Decorations, p.decoration(deco))
	}
	c.Notes = p.notes(n)

	open, closer := n.ChildToken(syntax.LeftBracket), n.ChildToken(syntax.RightBracket)
	if closer != nil && len(c.Notes) == 0 {
		start := closer.Range.Start
		if open != nil {
			start = open.Range.Start
		}
		p.report(diag.EmptyChord, source.NewRange(start, closer.Range.End), "empty chord")
	}

	if dur := n.ChildNode(syntax.Duration); dur != nil {
		d := p.duration(dur, 0, false)
		c.Duration = &d
	}
	return c
}

func (p *projector) tuplet(n *cst.Node) *ast.Tuplet {
	t := &ast.Tuplet{Ratio: 3, Range: visible(n)}
	if marker := n.ChildToken(syntax.TupletMarker); marker != nil {
		t.Ratio = Ratio(marker.Text(p.src))
	}
	t.Notes = p.notes(n)

	found := len(t.Notes)
	if found > 0 && uint64(found) < uint64(t.Ratio) {
		p.report(diag.TupletNoteMismatch, t.Range,
			fmt.Sprintf("tuplet expects %d notes but found %d", t.Ratio, found))
	}
	if found == 0 {
		p.report(diag.EmptyTuplet, t.Range, "empty tuplet")
	}
	return t
}

// Ratio extracts n from a tuplet marker "(n"; 3 when the digits are unusable.
func Ratio(marker string) uint32 {
	digits := strings.TrimLeft(strings.TrimPrefix(marker, "("), " \t")
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 3
	}
	return uint32(n)
}

func (p *projector) barLine(n *cst.Node) *ast.BarLine {
	tok := n.FirstToken()
	b := &ast.BarLine{Range: tok.Range}
	switch tok.Kind {
	case syntax.DoubleBar:
		b.Bar = ast.BarDouble
	case syntax.RepeatStart:
		b.Bar = ast.BarRepeatStart
	case syntax.RepeatEnd:
		b.Bar = ast.BarRepeatEnd
	case syntax.ThinThickBar:
		b.Bar = ast.BarThinThick
	case syntax.ThickThinBar:
		b.Bar = ast.BarThickThin
	default:
		b.Bar = ast.BarSingle
	}
	return b
}

func (p *projector) decoration(n *cst.Node) ast.Decoration {
	tok := n.FirstToken()
	return ast.Decoration{Name: strings.Trim(tok.Text(p.src), "!+"), Range: tok.Range}
}

// accidental resolves a run of accidental symbols: any '=' is a natural,
// two or more '^' a double sharp, two or more '_' a double flat.
func accidental(n *cst.Node) ast.Accidental {
	sharps, flats := 0, 0
	first := syntax.Error
	for _, ch := range n.Children {
		t := ch.Token()
		if t == nil {
			continue
		}
		if first == syntax.Error {
			first = t.Kind
		}
		switch t.Kind {
		case syntax.Natural:
			return ast.AccNatural
		case syntax.Sharp:
			sharps++
		case syntax.Flat:
			flats++
		}
	}
	switch {
	case first == syntax.Sharp && sharps >= 2:
		return ast.AccDoubleSharp
	case first == syntax.Sharp:
		return ast.AccSharp
	case first == syntax.Flat && flats >= 2:
		return ast.AccDoubleFlat
	case first == syntax.Flat:
		return ast.AccFlat
	}
	return ast.AccNone
}

// duration resolves a DURATION node. A missing numerator is 1, a lone '/'
// halves. A zero denominator is reported and coerced to 1. When fromNote is
// set, the long-duration warning spans from noteStart to the end of the
// duration; otherwise it spans the duration alone.
func (p *projector) duration(n *cst.Node, noteStart source.Pos, fromNote bool) ast.Duration {
	d := ast.Duration{Num: 1, Den: 1}
	rng := visible(n)
	slash := false
	for _, ch := range n.Children {
		t := ch.Token()
		if t == nil {
			continue
		}
		switch t.Kind {
		case syntax.Slash:
			slash = true
			d.Den = 2
		case syntax.Number:
			v, ok := parseCount(t.Text(p.src))
			if !slash {
				if ok {
					d.Num = v
				}
				continue
			}
			if !ok {
				continue
			}
			if v == 0 {
				p.report(diag.InvalidDuration, rng, "invalid duration: denominator cannot be zero")
				v = 1
			}
			d.Den = v
		}
	}

	if d.Value() >= longDuration {
		wrng := rng
		if fromNote {
			wrng = source.NewRange(noteStart, rng.End)
		}
		p.report(diag.SuspiciousDuration, wrng,
			fmt.Sprintf("suspicious duration %d/%d (very long note)", d.Num, d.Den))
	}
	return d
}

func parseCount(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func (p *projector) report(code diag.Code, rng source.Range, msg string) {
	diag.Report(p.sink, code, rng, msg).Emit()
}
