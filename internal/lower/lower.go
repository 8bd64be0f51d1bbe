package lower

import (
	"strings"

	"chamber/internal/ast"
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

type projector struct {
	src  string
	sink diag.Sink
}

// Tune builds the semantic tree from a TUNE node.
func Tune(tree *cst.Node, src string, sink diag.Sink) *ast.Tune {
	if sink == nil {
		sink = diag.Discard
	}
	p := &projector{src: src, sink: sink}
	tune := &ast.Tune{}
	if tree == nil {
		return tune
	}
	if rng, ok := tree.FullRange(); ok {
		tune.Range = rng
	}

	body := tree.ChildNode(syntax.Body)
	bodyStart := tune.Range.End
	if body != nil {
		if rng, ok := body.VisibleRange(); ok {
			bodyStart = rng.Start
			tune.Body.Range = rng
		} else {
			tune.Body.Range = source.At(bodyStart)
		}
	}

	if header := tree.ChildNode(syntax.Header); header != nil {
		tune.Header = p.header(header, bodyStart)
	} else {
		tune.Header.Range = source.At(bodyStart)
	}
	if body != nil {
		tune.Body.Elements = p.elements(body)
	}
	return tune
}

func (p *projector) header(n *cst.Node, bodyStart source.Pos) ast.Header {
	h := ast.Header{Range: source.At(bodyStart)}
	if rng, ok := n.VisibleRange(); ok {
		h.Range = rng
	}
	for _, field := range n.ChildNodes(syntax.HeaderField) {
		label, value := FieldValue(field, p.src)
		rng, _ := field.VisibleRange()
		h.Fields = append(h.Fields, ast.HeaderField{
			Kind:  ast.FieldKindOf(rune(label)),
			Label: rune(label),
			Value: value,
			Range: rng,
		})
	}
	return h
}

// FieldValue returns the label letter and the trimmed value of a HEADER_FIELD
// or INLINE_FIELD node. The value spans every token after the colon (after
// the label when there is no colon), up to a closing ']'. Label is 0 when the
// node has no FIELD_LABEL.
func FieldValue(n *cst.Node, src string) (label byte, value string) {
	var first, last *cst.Token
	seenColon := false
	for _, ch := range n.Children {
		t := ch.Token()
		if t == nil {
			continue
		}
		switch t.Kind {
		case syntax.FieldLabel:
			if label == 0 && first == nil {
				if text := t.Text(src); text != "" {
					label = text[0]
				}
				continue
			}
		case syntax.Colon:
			if !seenColon && first == nil {
				seenColon = true
				continue
			}
		case syntax.LeftBracket:
			if first == nil {
				continue
			}
		case syntax.RightBracket:
			if n.Kind == syntax.InlineField {
				continue
			}
		}
		if first == nil {
			first = t
		}
		last = t
	}
	if first == nil {
		return label, ""
	}
	return label, strings.TrimSpace(src[first.Range.Start:last.Range.End])
}

func (p *projector) elements(n *cst.Node) []ast.Element {
	var out []ast.Element
	for _, ch := range n.Children {
		child := ch.Node()
		if child == nil {
			continue
		}
		if el := p.element(child); el != nil {
			out = append(out, el)
		}
	}
	return out
}

func (p *projector) element(n *cst.Node) ast.Element {
	switch n.Kind {
	case syntax.Note:
		if note, ok := p.note(n); ok {
			return &note
		}
	case syntax.RestNode:
		return p.rest(n)
	case syntax.Chord:
		return p.chord(n)
	case syntax.BarLine:
		return p.barLine(n)
	case syntax.Tuplet:
		return p.tuplet(n)
	case syntax.Slur:
		return &ast.Slur{Elements: p.elements(n), Range: visible(n)}
	case syntax.GraceNotes:
		return &ast.GraceNotes{Notes: p.notes(n), Range: visible(n)}
	case syntax.BrokenRhythmNode:
		tok := n.FirstToken()
		text := tok.Text(p.src)
		return &ast.BrokenRhythm{
			DottedFirst: strings.HasPrefix(text, ">"),
			Count:       uint32(len(text)),
			Range:       tok.Range,
		}
	case syntax.TieNode:
		return &ast.Tie{Range: visible(n)}
	case syntax.InlineField:
		label, value := FieldValue(n, p.src)
		return &ast.InlineField{Label: rune(label), Value: value, Range: visible(n)}
	case syntax.AnnotationNode:
		return &ast.Annotation{Text: strings.Trim(n.FirstToken().Text(p.src), `"`), Range: visible(n)}
	}
	// DECORATION_NODE без ноты, ACCIDENTAL без ноты, HEADER_FIELD в теле
	return nil
}

func visible(n *cst.Node) source.Range {
	rng, _ := n.VisibleRange()
	return rng
}
