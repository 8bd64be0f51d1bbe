package cst

import (
	"chamber/internal/lexer"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// Trivia is a non-significant piece of source attached to a token.
type Trivia struct {
	Kind  syntax.Kind
	Range source.Range
}

// Text returns the trivia text.
func (t Trivia) Text(src string) string { return t.Range.Slice(src) }

// Token is a significant token together with its surrounding trivia.
type Token struct {
	Kind     syntax.Kind
	Range    source.Range
	Leading  []Trivia
	Trailing []Trivia
}

// Text returns the token text without trivia.
func (t *Token) Text(src string) string { return t.Range.Slice(src) }

// FullRange covers the token and all of its trivia.
func (t *Token) FullRange() source.Range {
	r := t.Range
	if len(t.Leading) > 0 {
		r = r.Cover(t.Leading[0].Range)
	}
	if len(t.Trailing) > 0 {
		r = r.Cover(t.Trailing[len(t.Trailing)-1].Range)
	}
	return r
}

// HasTrailingNewline reports whether the trailing trivia ends the line.
func (t *Token) HasTrailingNewline() bool {
	for _, tr := range t.Trailing {
		if tr.Kind == syntax.Newline {
			return true
		}
	}
	return false
}

// HasLeadingNewline reports whether a newline precedes the token in its
// leading trivia (blank lines before it).
func (t *Token) HasLeadingNewline() bool {
	for _, tr := range t.Leading {
		if tr.Kind == syntax.Newline {
			return true
		}
	}
	return false
}

// Attach folds the flat token stream into significant tokens with attached
// trivia. The lexer's EOF token is dropped; when src has no significant token
// at all, the trivia goes to a zero-width EOF token instead so nothing is lost.
func Attach(src string, toks []lexer.Token) []Token {
	out := make([]Token, 0, len(toks)/2+1)
	var pending []Trivia

	i := 0
	for i < len(toks) {
		tk := toks[i]
		if tk.Kind == syntax.EOF {
			break
		}
		if tk.IsTrivia() {
			pending = append(pending, Trivia{Kind: tk.Kind, Range: tk.Range})
			i++
			continue
		}

		tok := Token{Kind: tk.Kind, Range: tk.Range, Leading: pending}
		pending = nil
		i++

		// хвост: пробелы и комментарии до конца строки, плюс один перевод строки
		for i < len(toks) {
			next := toks[i]
			if next.Kind == syntax.Whitespace || next.Kind == syntax.Comment {
				tok.Trailing = append(tok.Trailing, Trivia{Kind: next.Kind, Range: next.Range})
				i++
				continue
			}
			if next.Kind == syntax.Newline {
				tok.Trailing = append(tok.Trailing, Trivia{Kind: next.Kind, Range: next.Range})
				i++
			}
			break
		}
		out = append(out, tok)
	}

	if len(out) == 0 {
		end := source.Pos(len(src))
		if len(toks) > 0 {
			end = toks[len(toks)-1].Range.End
		}
		return []Token{{Kind: syntax.EOF, Range: source.At(end), Leading: pending}}
	}
	if len(pending) > 0 {
		last := &out[len(out)-1]
		last.Trailing = append(last.Trailing, pending...)
	}
	return out
}
