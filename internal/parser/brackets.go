package parser

import (
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/lower"
	"chamber/internal/syntax"
)

// isInlineField: после '[' сразу идёт метка поля или текст.
func (p *Parser) isInlineField() bool {
	if !p.at(syntax.LeftBracket) {
		return false
	}
	k := p.peekAt(1).Kind
	return k == syntax.FieldLabel || k == syntax.Text
}

// parseChord: Decoration* '[' Note* ']' Duration?.
// Аккорд обрывается на точке восстановления и на '(' или '{'; длительность
// разбирается только у закрытого аккорда. Закрывающая скобка в начале
// следующей строки аккорд уже не закрывает.
func (p *Parser) parseChord(decos []cst.Element) *cst.Node {
	chord := cst.NewNode(syntax.Chord, decos...)
	open := p.advance()
	chord.Push(open)

loop:
	for !p.atRecovery() && !p.at(syntax.RightBracket) {
		switch k := p.peek().Kind; {
		case k == syntax.Error:
			p.errorToken(chord)
		case k == syntax.LeftParen || k == syntax.TupletMarker || k == syntax.LeftBrace:
			break loop
		case k == syntax.NoteName || k.IsAccidental():
			chord.PushNode(p.parseNote(nil))
		default:
			chord.Push(p.advance())
		}
	}

	if p.atRecovery() || !p.at(syntax.RightBracket) {
		p.reportUnclosed(diag.UnclosedChord, open, "[", "]")
		return chord
	}
	chord.Push(p.advance())
	chord.PushNode(p.parseDuration())
	return chord
}

// parseInlineField: '[' LABEL ':' TEXT? ']'. Содержимое до ']' или точки
// восстановления кладётся как есть.
func (p *Parser) parseInlineField() *cst.Node {
	field := cst.NewNode(syntax.InlineField)
	open := p.advance()
	field.Push(open)

	for !p.atRecovery() && !p.at(syntax.RightBracket) {
		if p.at(syntax.Error) {
			p.errorToken(field)
			continue
		}
		field.Push(p.advance())
	}

	if p.atRecovery() || !p.at(syntax.RightBracket) {
		p.reportUnclosed(diag.UnclosedInlineField, open, "[", "]")
		return field
	}
	field.Push(p.advance())
	return field
}

// parseTuplet: '(' DIGITS Note{ratio}: ровно ratio нот, жадно, но не дальше
// точки восстановления.
func (p *Parser) parseTuplet() *cst.Node {
	tuplet := cst.NewNode(syntax.Tuplet)
	marker := p.advance()
	tuplet.Push(marker)

	ratio := lower.Ratio(p.text(marker))
	for found := uint32(0); found < ratio; {
		if p.atRecovery() {
			break
		}
		if p.at(syntax.Error) {
			p.errorToken(tuplet)
			continue
		}
		if !p.atNoteStart() {
			break
		}
		tuplet.PushNode(p.parseNote(nil))
		found++
	}
	return tuplet
}

// parseSlur: '(' Element* ')'. Внутри допускаются любые элементы;
// лишние ']' и '}' сообщаются и пропускаются по одному.
func (p *Parser) parseSlur() *cst.Node {
	slur := cst.NewNode(syntax.Slur)
	open := p.advance()
	slur.Push(open)

	for !p.atRecovery() && !p.at(syntax.RightParen) {
		switch p.peek().Kind {
		case syntax.Error:
			p.errorToken(slur)
		case syntax.RightBracket, syntax.RightBrace:
			p.strayCloser(slur)
		default:
			if !p.parseElement(slur) {
				slur.Push(p.advance())
			}
		}
	}

	if p.atRecovery() || !p.at(syntax.RightParen) {
		p.reportUnclosed(diag.UnclosedSlur, open, "(", ")")
		return slur
	}
	slur.Push(p.advance())
	return slur
}

// parseGraceNotes: '{' Note* '}'. Обрывается на точке восстановления и на
// открывающих '[', '(' и '{'.
func (p *Parser) parseGraceNotes() *cst.Node {
	grace := cst.NewNode(syntax.GraceNotes)
	open := p.advance()
	grace.Push(open)

loop:
	for !p.atRecovery() && !p.at(syntax.RightBrace) {
		switch k := p.peek().Kind; {
		case k == syntax.Error:
			p.errorToken(grace)
		case k == syntax.LeftBracket || k == syntax.LeftParen || k == syntax.TupletMarker || k == syntax.LeftBrace:
			break loop
		case k == syntax.NoteName || k.IsAccidental():
			grace.PushNode(p.parseNote(nil))
		default:
			grace.Push(p.advance())
		}
	}

	if p.atRecovery() || !p.at(syntax.RightBrace) {
		p.reportUnclosed(diag.UnclosedGraceNotes, open, "{", "}")
		return grace
	}
	grace.Push(p.advance())
	return grace
}
