package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"chamber/internal/lexer"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

type TokenOutput struct {
	Kind      string `json:"kind"`
	Text      string `json:"text,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      uint32 `json:"line"`
	Col       uint32 `json:"col"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
//
//	  1: FIELD_LABEL     "X" at 1:1-1:2
func FormatTokensPretty(w io.Writer, tokens []lexer.Token, f *source.File) error {
	for i, tok := range tokens {
		start := f.Lines.LineColDisplay(tok.Range.Start)
		end := f.Lines.LineColDisplay(tok.Range.End)

		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return fmt.Errorf("diagfmt: write: %w", err)
		}
		if text := tok.Text(f.Content); text != "" {
			fmt.Fprintf(w, " %q", text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col)

		if tok.Kind == syntax.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []lexer.Token, f *source.File) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start := f.Lines.LineColDisplay(tok.Range.Start)
		out = append(out, TokenOutput{
			Kind:      tok.Kind.String(),
			Text:      tok.Text(f.Content),
			StartByte: uint32(tok.Range.Start),
			EndByte:   uint32(tok.Range.End),
			Line:      start.Line,
			Col:       start.Col,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("diagfmt: encode tokens: %w", err)
	}
	return nil
}
