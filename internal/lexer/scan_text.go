package lexer

import "chamber/internal/syntax"

// scanText съедает непрозрачный текст до перевода строки, '%' или ']'.
// На ']' режим заголовка заканчивается: так закрываются inline-поля.
// Пробелы в конце текста в токен не входят и становятся trivia.
func (lx *Lexer) scanText() syntax.Kind {
	end := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isLineEnd(b) || b == '%' {
			break
		}
		if b == ']' {
			lx.inHeader = false
			break
		}
		lx.bumpRune()
		if !isBlank(b) {
			end = lx.cursor.Mark()
		}
	}
	lx.cursor.Reset(end)
	return syntax.Text
}

// scanDelimited читает "!trill!", "+fermata+" или "\"Am\"" после открывающего
// разделителя. Закрывающий разделитель должен встретиться до конца строки,
// иначе весь хвост строки становится одним Error токеном.
func (lx *Lexer) scanDelimited(delim byte, kind syntax.Kind) syntax.Kind {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == delim {
			lx.cursor.Bump()
			return kind
		}
		if isLineEnd(b) {
			return syntax.Error
		}
		lx.bumpRune()
	}
	return syntax.Error
}
