package format

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"chamber/internal/cst"
	"chamber/internal/parser"
	"chamber/internal/syntax"
)

// Format parses src losslessly and re-emits it under cfg. Only trivia is
// rewritten and header lines may move, so the token sequence of every field
// and of the music is unchanged. Format(Format(src)) == Format(src).
func Format(src string, cfg Config) string {
	tree := parser.ParseLossless(src)
	pr := printer{
		src: src,
		cfg: cfg,
		w:   NewWriter(len(src)),
	}
	pr.printTune(flatten(tree, src, cfg))
	return pr.w.Finish(cfg)
}

type region uint8

const (
	regionHeader region = iota
	regionBody
	regionEnd // the EOF token of a trivia-only input
)

// item is one significant token with the context the gap rules need.
type item struct {
	tok    *cst.Token
	region region
	// field is the header field group; top is the top-level body element.
	field int
	top   int
	// topKind is the kind of the top-level body element holding tok.
	topKind syntax.Kind
	// first and last mark the boundaries of the field or top-level element.
	first, last bool
}

type printer struct {
	src string
	cfg Config
	w   *Writer
}

func (p *printer) printTune(items []item) {
	for i := range items {
		next := &items[i]
		if i == 0 {
			p.gap(next.tok.Leading, nil, next)
		} else {
			prev := &items[i-1]
			tr := make([]cst.Trivia, 0, len(prev.tok.Trailing)+len(next.tok.Leading))
			tr = append(tr, prev.tok.Trailing...)
			tr = append(tr, next.tok.Leading...)
			p.gap(tr, prev, next)
		}
		p.token(next)
	}
	if n := len(items); n > 0 {
		p.gap(items[n-1].tok.Trailing, &items[n-1], nil)
	}
}

func (p *printer) token(it *item) {
	text := it.tok.Text(p.src)
	switch it.tok.Kind {
	case syntax.Text:
		if it.region == regionHeader && it.last && p.cfg.NormalizeHeaderSpacing {
			text = strings.TrimRight(text, " \t")
		}
		text = p.unicode(text)
	case syntax.Annotation:
		text = p.unicode(text)
	}
	p.w.WriteString(text)
}

func (p *printer) unicode(s string) string {
	if p.cfg.NormalizeUnicode {
		return norm.NFC.String(s)
	}
	return s
}

// trivia writes one trivia piece as-is, apart from NFC on comments.
func (p *printer) trivia(tr cst.Trivia) {
	text := tr.Text(p.src)
	if tr.Kind == syntax.Comment {
		text = p.unicode(text)
	}
	p.w.WriteString(text)
}

// gap renders the trivia between prev and next. Either may be nil at the
// ends of the input. The trivia is cut into lines: the first line finishes
// prev's line, the last one indents next, the ones between are whole lines
// of blanks or comments.
func (p *printer) gap(tr []cst.Trivia, prev, next *item) {
	lines := splitLines(tr)
	for i, line := range lines {
		first, final := i == 0, i == len(lines)-1
		switch {
		case first && final && prev != nil && next != nil:
			p.inline(line, prev, next)
		case first && prev != nil:
			p.tail(line, prev)
		case final && next != nil:
			p.indent(line, next)
		default:
			p.fullLine(line, prev, next)
		}
	}
}

// splitLines cuts tr after every newline. The result always has at least
// one (possibly empty) line.
func splitLines(tr []cst.Trivia) [][]cst.Trivia {
	lines := [][]cst.Trivia{nil}
	for _, t := range tr {
		cur := len(lines) - 1
		lines[cur] = append(lines[cur], t)
		if t.Kind == syntax.Newline {
			lines = append(lines, nil)
		}
	}
	return lines
}

func (p *printer) normalizes(r region) bool {
	if r == regionHeader {
		return p.cfg.NormalizeHeaderSpacing
	}
	return p.cfg.NormalizeNoteSpacing
}

// inline handles a gap between two tokens of the same line.
func (p *printer) inline(line []cst.Trivia, prev, next *item) {
	hasSpace := false
	var rest []cst.Trivia
	for _, t := range line {
		if t.Kind == syntax.Whitespace {
			hasSpace = true
			continue
		}
		rest = append(rest, t)
	}

	if prev.region == regionHeader && next.region == regionHeader {
		p.headerInline(line, rest, hasSpace, prev, next)
		return
	}

	start := p.w.Len()
	switch {
	case len(rest) > 0 || !p.normalizes(regionBody):
		for _, t := range line {
			p.trivia(t)
		}
		if !hasSpace && len(rest) == 0 && p.barSpace(prev, next) {
			p.w.WriteString(" ")
		}
	case hasSpace || p.barSpace(prev, next):
		p.w.WriteString(" ")
	}
	if len(rest) == 0 && p.wrapPoint(prev, next) {
		p.w.MarkWrap(start)
	}
}

func (p *printer) headerInline(line, rest []cst.Trivia, hasSpace bool, prev, next *item) {
	if prev.field != next.field {
		// поля переставлены: строка без перевода строки оказалась не последней
		p.w.WriteString("\n")
		return
	}
	if !p.cfg.NormalizeHeaderSpacing || len(rest) > 0 {
		for _, t := range line {
			p.trivia(t)
		}
		return
	}
	switch {
	case prev.tok.Kind == syntax.Colon && p.cfg.AlignHeaderValues:
		p.w.WriteString(" ")
	case prev.tok.Kind == syntax.FieldLabel, prev.tok.Kind == syntax.Colon,
		next.tok.Kind == syntax.Colon:
		// "T : x" -> "T:x"
	case hasSpace:
		p.w.WriteString(" ")
	}
}

// tail finishes the line of prev: comments and continuations, then the
// newline when there is one.
func (p *printer) tail(line []cst.Trivia, prev *item) {
	if !p.normalizes(prev.region) {
		for _, t := range line {
			p.trivia(t)
		}
		return
	}
	for _, t := range line {
		switch t.Kind {
		case syntax.Whitespace:
		case syntax.Newline:
			p.trivia(t)
		default:
			p.w.WriteString(" ")
			p.trivia(t)
		}
	}
}

// indent writes what precedes next on its line.
func (p *printer) indent(line []cst.Trivia, next *item) {
	normalize := p.normalizes(next.region)
	wrote := false
	for _, t := range line {
		if t.Kind == syntax.Whitespace && normalize {
			continue
		}
		if normalize && wrote {
			p.w.WriteString(" ")
		}
		p.trivia(t)
		wrote = true
	}
	if normalize && wrote {
		p.w.WriteString(" ")
	}
}

// fullLine writes a line that holds no significant token.
func (p *printer) fullLine(line []cst.Trivia, prev, next *item) {
	r := regionBody
	switch {
	case next != nil:
		r = next.region
	case prev != nil:
		r = prev.region
	}
	inHeader := next != nil && next.region == regionHeader &&
		(prev == nil || prev.region == regionHeader)

	blank := true
	for _, t := range line {
		if t.Kind != syntax.Whitespace && t.Kind != syntax.Newline {
			blank = false
			break
		}
	}
	if blank && inHeader && p.cfg.RemoveEmptyHeaderLines && hasNewline(line) {
		return
	}
	if !p.normalizes(r) {
		for _, t := range line {
			p.trivia(t)
		}
		return
	}
	// пробелы в начале и в конце строки отбрасываются
	wrote := false
	for _, t := range line {
		switch t.Kind {
		case syntax.Whitespace:
		case syntax.Newline:
			p.trivia(t)
		default:
			if wrote {
				p.w.WriteString(" ")
			}
			p.trivia(t)
			wrote = true
		}
	}
}

func hasNewline(line []cst.Trivia) bool {
	return len(line) > 0 && line[len(line)-1].Kind == syntax.Newline
}

// barSpace reports whether a missing space between two top-level body
// elements must be added.
func (p *printer) barSpace(prev, next *item) bool {
	if !p.cfg.SpaceAroundBars || !p.boundary(prev, next) {
		return false
	}
	return prev.topKind == syntax.BarLine && spacedAroundBar(next.topKind) ||
		spacedAroundBar(prev.topKind) && next.topKind == syntax.BarLine
}

// wrapPoint reports whether a long line may be broken between prev and next.
func (p *printer) wrapPoint(prev, next *item) bool {
	return p.cfg.MaxLineWidth > 0 && p.boundary(prev, next) &&
		prev.topKind == syntax.BarLine && next.topKind.IsNode()
}

func (p *printer) boundary(prev, next *item) bool {
	return prev.region == regionBody && next.region == regionBody &&
		prev.last && next.first && prev.top != next.top
}

func spacedAroundBar(k syntax.Kind) bool {
	switch k {
	case syntax.Note, syntax.RestNode, syntax.Chord, syntax.Tuplet, syntax.Slur,
		syntax.GraceNotes, syntax.AnnotationNode:
		return true
	default:
		return false
	}
}
