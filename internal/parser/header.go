package parser

import (
	"chamber/internal/cst"
	"chamber/internal/lower"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// parseHeader: Header := HeaderField*. Останавливается на первом токене,
// который не является меткой поля; поле K: закрывает заголовок сразу.
func (p *Parser) parseHeader() *cst.Node {
	header := cst.NewNode(syntax.Header)
	for !p.atEOF() {
		if p.at(syntax.Error) {
			p.errorToken(header)
			continue
		}
		if !p.at(syntax.FieldLabel) {
			break
		}
		field := p.parseHeaderField()
		header.PushNode(field)

		label, value := lower.FieldValue(field, p.src)
		rng, _ := field.VisibleRange()
		p.header = append(p.header, fieldInfo{label: label, value: value, rng: rng})
		if label == 'K' {
			break
		}
	}
	return header
}

// parseHeaderField: LABEL ':'? и все токены до конца строки.
func (p *Parser) parseHeaderField() *cst.Node {
	field := cst.NewNode(syntax.HeaderField)
	field.Push(p.advance())
	p.fieldRest(field)
	return field
}

// fieldRest дочитывает строку поля в node.
func (p *Parser) fieldRest(node *cst.Node) {
	for !p.atEOF() && !p.atLineStart() {
		if p.at(syntax.Error) {
			p.errorToken(node)
			continue
		}
		node.Push(p.advance())
	}
}

// headerRange: видимый диапазон заголовка; для пустого заголовка
// пустой диапазон в начале первого токена тела.
func (p *Parser) headerRange(header *cst.Node) source.Range {
	if rng, ok := header.VisibleRange(); ok {
		return rng
	}
	return source.At(p.peek().Range.Start)
}

// headerEnd: позиция сразу за заголовком вместе с его переводом строки.
func (p *Parser) headerEnd(header *cst.Node) (source.Pos, bool) {
	last := header.LastToken()
	if last == nil {
		return p.peek().FullRange().Start, true
	}
	end := last.Range.End
	for _, tr := range last.Trailing {
		end = tr.Range.End
		if tr.Kind == syntax.Newline {
			return end, true
		}
	}
	return end, false
}
