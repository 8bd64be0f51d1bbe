package lexer

import (
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// Token is one raw lexeme. Its text is recovered by slicing the source with Range.
type Token struct {
	Kind  syntax.Kind
	Range source.Range
}

// Text returns the token's source text.
func (t Token) Text(src string) string {
	return t.Range.Slice(src)
}

// IsTrivia reports whether the token is whitespace, a newline, a comment or a line continuation.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }
