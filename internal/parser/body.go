package parser

import (
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/syntax"
)

// parseBody: Body := Element* до конца ввода.
func (p *Parser) parseBody() *cst.Node {
	body := cst.NewNode(syntax.Body)
	for !p.atEOF() {
		switch p.peek().Kind {
		case syntax.Error:
			p.errorToken(body)
		case syntax.FieldLabel:
			p.misplacedField(body)
		case syntax.RightBracket, syntax.RightParen, syntax.RightBrace:
			p.strayCloser(body)
		default:
			if !p.parseElement(body) {
				body.Push(p.advance())
			}
		}
	}
	return body
}

// misplacedField: метка поля после K:. Остаток строки уходит в узел
// HEADER_FIELD внутри тела, проектор его пропускает.
func (p *Parser) misplacedField(parent *cst.Node) {
	label := p.peek()
	p.report(diag.UnexpectedToken, label.Range,
		"field '"+p.text(label)+":' found in music body (should be in header before K:)")
	field := cst.NewNode(syntax.HeaderField)
	field.Push(p.advance())
	for !p.atEOF() && !p.atLineStart() {
		field.Push(p.advance())
	}
	parent.PushNode(field)
}

// strayCloser reports a closing delimiter without an opener and keeps it raw.
func (p *Parser) strayCloser(parent *cst.Node) {
	tok := p.advance()
	switch tok.Kind {
	case syntax.RightBracket:
		p.report(diag.UnexpectedClosingBracket, tok.Range, "unexpected ']' without matching '['")
	case syntax.RightParen:
		p.report(diag.UnexpectedClosingParen, tok.Range, "unexpected ')' without matching '('")
	case syntax.RightBrace:
		p.report(diag.UnexpectedClosingBrace, tok.Range, "unexpected '}' without matching '{'")
	}
	parent.Push(tok)
}

// parseElement разбирает один элемент и кладёт его в parent.
// Возвращает false, если текущий токен элемент не начинает (ничего не съедено).
func (p *Parser) parseElement(parent *cst.Node) bool {
	switch k := p.peek().Kind; {
	case k == syntax.Decoration:
		p.parseDecorated(parent)
	case k == syntax.Annotation:
		parent.PushNode(p.single(syntax.AnnotationNode))
	case k == syntax.NoteName || k.IsAccidental():
		parent.PushNode(p.parseNote(nil))
	case k == syntax.Rest:
		parent.PushNode(p.parseRest(nil))
	case k.IsBar():
		parent.PushNode(p.single(syntax.BarLine))
	case k == syntax.LeftBracket:
		if p.isInlineField() {
			parent.PushNode(p.parseInlineField())
		} else {
			parent.PushNode(p.parseChord(nil))
		}
	case k == syntax.TupletMarker:
		parent.PushNode(p.parseTuplet())
	case k == syntax.LeftParen:
		parent.PushNode(p.parseSlur())
	case k == syntax.LeftBrace:
		parent.PushNode(p.parseGraceNotes())
	case k == syntax.BrokenRhythm:
		parent.PushNode(p.single(syntax.BrokenRhythmNode))
	case k == syntax.Tie:
		parent.PushNode(p.single(syntax.TieNode))
	default:
		return false
	}
	return true
}

// single wraps the current token into a one-token node.
func (p *Parser) single(kind syntax.Kind) *cst.Node {
	n := cst.NewNode(kind)
	n.Push(p.advance())
	return n
}

// parseDecorated: Decoration* перед нотой, паузой или аккордом становятся
// их детьми; иначе каждая декорация остаётся отдельным узлом.
func (p *Parser) parseDecorated(parent *cst.Node) {
	var decos []cst.Element
	for p.at(syntax.Decoration) {
		decos = append(decos, cst.NodeElement(p.single(syntax.DecorationNode)))
	}
	switch {
	case p.atNoteStart():
		parent.PushNode(p.parseNote(decos))
	case p.at(syntax.Rest):
		parent.PushNode(p.parseRest(decos))
	case p.at(syntax.LeftBracket) && !p.isInlineField():
		parent.PushNode(p.parseChord(decos))
	default:
		parent.Children = append(parent.Children, decos...)
	}
}

// parseNote: Accidental* NOTE_NAME OctaveMark* Duration?.
// Знаки альтерации без буквы ноты дают M008 и одиночный узел ACCIDENTAL.
func (p *Parser) parseNote(decos []cst.Element) *cst.Node {
	note := cst.NewNode(syntax.Note, decos...)
	if p.peek().Kind.IsAccidental() {
		acc := cst.NewNode(syntax.Accidental)
		for p.peek().Kind.IsAccidental() {
			acc.Push(p.advance())
		}
		if !p.at(syntax.NoteName) {
			rng, _ := acc.VisibleRange()
			p.report(diag.InvalidAccidental, rng, "accidental '"+rng.Slice(p.src)+"' is not followed by a note")
			if len(decos) == 0 {
				return acc
			}
			note.PushNode(acc)
			return note
		}
		note.PushNode(acc)
	}
	note.Push(p.advance())
	for p.at(syntax.OctaveUp) || p.at(syntax.OctaveDown) {
		note.Push(p.advance())
	}
	note.PushNode(p.parseDuration())
	return note
}

// parseRest: REST Duration?.
func (p *Parser) parseRest(decos []cst.Element) *cst.Node {
	rest := cst.NewNode(syntax.RestNode, decos...)
	rest.Push(p.advance())
	rest.PushNode(p.parseDuration())
	return rest
}

// parseDuration: NUMBER? ('/' NUMBER?)?; nil если длительности нет.
// Разбирается только один '/': в "C//D" второй слеш остаётся сырым
// токеном тела без диагностики, длительность C равна 1/2.
func (p *Parser) parseDuration() *cst.Node {
	if !p.at(syntax.Number) && !p.at(syntax.Slash) {
		return nil
	}
	dur := cst.NewNode(syntax.Duration)
	if p.at(syntax.Number) {
		dur.Push(p.advance())
	}
	if p.at(syntax.Slash) {
		dur.Push(p.advance())
		if p.at(syntax.Number) {
			dur.Push(p.advance())
		}
	}
	return dur
}
