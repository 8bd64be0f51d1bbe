package lexer

import (
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// Lexer превращает текст ABC в плоский поток токенов, включая trivia.
// Единственное состояние режима: inHeader (внутри значения поля).
type Lexer struct {
	cursor   Cursor
	inHeader bool // true сразу после двоеточия поля, сбрасывается на переводе строки
}

// New creates a lexer over src. Each call owns its state, so independent
// sources can be tokenized concurrently.
func New(src string) *Lexer {
	return &Lexer{cursor: NewCursor(src)}
}

// Tokenize lexes src completely. The result always ends with an EOF token and
// the token ranges tile [0, len(src)) without gaps.
func Tokenize(src string) []Token {
	lx := New(src)
	tokens := make([]Token, 0, len(src)/2+1)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == syntax.EOF {
			return tokens
		}
	}
}

// InHeader reports whether the lexer is inside a field value.
func (lx *Lexer) InHeader() bool { return lx.inHeader }

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() Token {
	// 1) Конец текста → пустой EOF
	if lx.cursor.EOF() {
		return Token{Kind: syntax.EOF, Range: source.At(source.Pos(lx.cursor.Off))}
	}

	start := lx.cursor.Mark()
	emit := func(k syntax.Kind) Token {
		return Token{Kind: k, Range: lx.cursor.RangeFrom(start)}
	}

	// 2) Внутри значения поля всё непрозрачно, кроме пробелов, конца
	// строки, комментария и ']'
	if lx.inHeader {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r', '%', ']':
		default:
			return emit(lx.scanText())
		}
	}

	// 3) Посмотреть текущий байт и выбрать сканер
	ch := lx.cursor.Bump()
	switch ch {
	case ' ', '\t':
		lx.cursor.EatWhile(isBlank)
		return emit(syntax.Whitespace)
	case '\n':
		lx.inHeader = false
		return emit(syntax.Newline)
	case '\r':
		lx.cursor.Eat('\n')
		lx.inHeader = false
		return emit(syntax.Newline)
	case '%':
		lx.cursor.EatWhile(func(b byte) bool { return !isLineEnd(b) })
		return emit(syntax.Comment)
	case '\\':
		return emit(syntax.LineContinuation)
	case ':':
		return emit(lx.scanColon())
	case '|':
		return emit(lx.scanBar())
	case '[':
		if lx.cursor.Eat('|') {
			return emit(syntax.ThickThinBar)
		}
		return emit(syntax.LeftBracket)
	case ']':
		lx.inHeader = false
		return emit(syntax.RightBracket)
	case '(':
		if lx.hasDigitAhead() {
			lx.cursor.EatWhile(isBlank)
			lx.cursor.EatWhile(isDec)
			return emit(syntax.TupletMarker)
		}
		return emit(syntax.LeftParen)
	case ')':
		return emit(syntax.RightParen)
	case '{':
		return emit(syntax.LeftBrace)
	case '}':
		return emit(syntax.RightBrace)
	case '^':
		return emit(syntax.Sharp)
	case '=':
		return emit(syntax.Natural)
	case '_':
		return emit(syntax.Flat)
	case '\'':
		return emit(syntax.OctaveUp)
	case ',':
		return emit(syntax.OctaveDown)
	case '-':
		return emit(syntax.Tie)
	case '<', '>':
		lx.cursor.EatWhile(func(b byte) bool { return b == ch })
		return emit(syntax.BrokenRhythm)
	case '/':
		return emit(syntax.Slash)
	}

	// 4) Тело мелодии
	switch {
	case isDec(ch):
		lx.cursor.EatWhile(isDec)
		return emit(syntax.Number)
	case ch >= 'A' && ch <= 'G':
		if lx.hasColonAhead() {
			return emit(syntax.FieldLabel)
		}
		return emit(syntax.NoteName)
	case ch >= 'a' && ch <= 'g':
		return emit(syntax.NoteName)
	case ch == 'z':
		return emit(syntax.Rest)
	case ch == 'Z':
		if lx.hasColonAhead() {
			return emit(syntax.FieldLabel)
		}
		return emit(syntax.Rest)
	case ch >= 'H' && ch <= 'Y':
		if lx.hasColonAhead() {
			return emit(syntax.FieldLabel)
		}
		// заглавная буква без двоеточия: текст до конца строки
		lx.cursor.Reset(start)
		return emit(lx.scanText())
	case ch == '!' || ch == '+':
		return emit(lx.scanDelimited(ch, syntax.Decoration))
	case ch == '"':
		return emit(lx.scanDelimited('"', syntax.Annotation))
	}

	// 5) Неизвестный символ: ровно одна руна
	lx.cursor.Reset(start)
	lx.bumpRune()
	return emit(syntax.Error)
}
