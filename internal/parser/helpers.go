package parser

import (
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// peek: текущий токен; за концом потока возвращает синтетический EOF.
func (p *Parser) peek() *cst.Token {
	if p.pos < len(p.toks) {
		return &p.toks[p.pos]
	}
	return &p.eof
}

// peekAt смотрит на n токенов вперёд.
func (p *Parser) peekAt(n int) *cst.Token {
	if i := p.pos + n; i < len(p.toks) {
		return &p.toks[i]
	}
	return &p.eof
}

func (p *Parser) at(k syntax.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atEOF() bool {
	return p.at(syntax.EOF)
}

// atNoteStart: accidental или буква ноты.
func (p *Parser) atNoteStart() bool {
	k := p.peek().Kind
	return k == syntax.NoteName || k.IsAccidental()
}

// advance: съедает текущий токен и обновляет last.
// На EOF ничего не съедает и возвращает синтетический токен.
func (p *Parser) advance() *cst.Token {
	if p.pos >= len(p.toks) {
		return &p.eof
	}
	tok := &p.toks[p.pos]
	p.pos++
	p.last = tok.Range.End
	return tok
}

// atLineStart reports whether the previous token closed its line.
func (p *Parser) atLineStart() bool {
	return p.pos > 0 && p.toks[p.pos-1].HasTrailingNewline()
}

// atRecovery: точка восстановления: любая тактовая черта, конец строки
// (перевод строки в хвосте предыдущего токена) или конец ввода.
// Продолжение строки '\' лежит в leading trivia и точкой не является.
func (p *Parser) atRecovery() bool {
	k := p.peek().Kind
	if k == syntax.EOF || k.IsBar() {
		return true
	}
	return p.atLineStart()
}

// rangeFrom: от start до конца последнего съеденного токена.
func (p *Parser) rangeFrom(start source.Pos) source.Range {
	end := p.last
	if end < start {
		end = start
	}
	return source.NewRange(start, end)
}

func (p *Parser) text(t *cst.Token) string {
	return t.Text(p.src)
}

func (p *Parser) report(code diag.Code, rng source.Range, msg string) {
	diag.Report(p.sink, code, rng, msg).Emit()
}

// errorToken: сообщает о токене ERROR и кладёт его в parent как есть.
func (p *Parser) errorToken(parent *cst.Node) {
	tok := p.advance()
	text := p.text(tok)
	switch {
	case len(text) > 0 && (text[0] == '!' || text[0] == '+'):
		diag.Report(p.sink, diag.UnterminatedDecoration, tok.Range,
			"unterminated decoration, missing closing '"+text[:1]+"'").Emit()
	case len(text) > 0 && text[0] == '"':
		diag.Report(p.sink, diag.UnterminatedAnnotation, tok.Range,
			"unterminated annotation, missing closing '\"'").Emit()
	default:
		p.report(diag.UnexpectedCharacter, tok.Range, "unexpected character '"+firstRune(text)+"'")
	}
	parent.Push(tok)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return "?"
}

// reportUnclosed: "unclosed X" от открывающего токена до последнего
// съеденного, с меткой на открывающем и безопасной вставкой закрывающего.
func (p *Parser) reportUnclosed(code diag.Code, open *cst.Token, opener, closer string) {
	rng := p.rangeFrom(open.Range.Start)
	diag.Report(p.sink, code, rng, code.Title()).
		WithLabel(open.Range, "opening '"+opener+"' here").
		WithFix("insert '"+closer+"'", diag.InsertText(rng.End, closer)).
		Emit()
}
