package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ===== Работа с рунами поверх Cursor =====

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	if lx.cursor.EOF() {
		return
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		lx.cursor.Bump()
		return
	}
	_, sz := utf8.DecodeRuneInString(lx.cursor.Src[lx.cursor.Off:])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// ===== Классификаторы =====

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isBlank(b byte) bool { return b == ' ' || b == '\t' }
func isLineEnd(b byte) bool { return b == '\n' || b == '\r' }

// ===== Просмотр вперёд через пробелы =====

// aheadPastBlanks возвращает первый байт после пробелов/табов, начиная с текущей позиции,
// и его смещение. ok=false, если текст кончился.
func (lx *Lexer) aheadPastBlanks() (b byte, n uint32, ok bool) {
	for {
		if lx.cursor.Off+n >= lx.cursor.Limit {
			return 0, n, false
		}
		c := lx.cursor.PeekAt(n)
		if !isBlank(c) {
			return c, n, true
		}
		n++
	}
}

// hasColonAhead: "X:", "T :", но не ":|" (это конец повтора).
func (lx *Lexer) hasColonAhead() bool {
	b, n, ok := lx.aheadPastBlanks()
	if !ok || b != ':' {
		return false
	}
	return lx.cursor.PeekAt(n+1) != '|'
}

// hasAhead: после необязательных пробелов стоит want.
func (lx *Lexer) hasAhead(want byte) bool {
	b, _, ok := lx.aheadPastBlanks()
	return ok && b == want
}

func (lx *Lexer) hasDigitAhead() bool {
	b, _, ok := lx.aheadPastBlanks()
	return ok && isDec(b)
}
