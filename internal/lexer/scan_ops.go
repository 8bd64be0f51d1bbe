package lexer

import "chamber/internal/syntax"

// scanColon вызывается после ':'. ": |" и ":|" это конец повтора,
// иначе двоеточие поля, после которого начинается значение.
func (lx *Lexer) scanColon() syntax.Kind {
	if lx.hasAhead('|') {
		lx.cursor.EatWhile(isBlank)
		lx.cursor.Bump()
		return syntax.RepeatEnd
	}
	lx.inHeader = true
	return syntax.Colon
}

// scanBar вызывается после '|'.
func (lx *Lexer) scanBar() syntax.Kind {
	if lx.hasAhead(':') {
		lx.cursor.EatWhile(isBlank)
		lx.cursor.Bump()
		return syntax.RepeatStart
	}
	switch {
	case lx.cursor.Eat('|'):
		return syntax.DoubleBar
	case lx.cursor.Eat(']'):
		return syntax.ThinThickBar
	default:
		return syntax.Bar
	}
}
