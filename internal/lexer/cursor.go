package lexer

import (
	"fmt"

	"chamber/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в тексте
type Cursor struct {
	Src string
	Off uint32
	// Limit is the exclusive upper bound for Off; always len(Src).
	Limit uint32
}

// NewCursor creates a new cursor over src.
func NewCursor(src string) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("len source overflow: %w", err))
	}
	return Cursor{
		Src:   src,
		Off:   0,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// PeekAt читает байт со смещением n от текущей позиции, иначе 0
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.Src[c.Off+n]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	return b
}

// Mark это метка, что бы быстро получать Range читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// RangeFrom получает Range для фрагмента, начиная с метки
func (c *Cursor) RangeFrom(m Mark) source.Range {
	return source.NewRange(source.Pos(m), source.Pos(c.Off))
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// EatWhile consumes bytes while pred holds and returns how many were eaten.
func (c *Cursor) EatWhile(pred func(byte) bool) int {
	n := 0
	for !c.EOF() && pred(c.Src[c.Off]) {
		c.Off++
		n++
	}
	return n
}
