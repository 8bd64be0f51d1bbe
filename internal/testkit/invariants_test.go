package testkit

import (
	"strings"
	"testing"

	"chamber/internal/format"
	"chamber/internal/lexer"
	"chamber/internal/parser"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

var tunes = []string{
	"",
	"X:1\nT:Test\nK:C\nCDEF|\n",
	"X:1\nK:C\n!trill!C +fermata+z2 Z4 \"Am\"[CEG]2 (3DEF (AB) {ga} A>>B<C D-D [K:G] |]\n",
	"[C\n(D\n{e\n",
	"X:1\r\nK:C  \r\nCD |  EF\r\n",
	"X:1\nT:a]b  c\nK:C\n\n\nabc   \n   ",
}

func TestInvariantsHoldOnTunes(t *testing.T) {
	for _, src := range tunes {
		if err := CheckTokenTiling(src, lexer.Tokenize(src)); err != nil {
			t.Errorf("tiling %q: %v", src, err)
		}
		if err := CheckRoundTrip(src, parser.ParseLossless(src)); err != nil {
			t.Errorf("round trip %q: %v", src, err)
		}
		if err := CheckTuneRanges(parser.Parse(src), src); err != nil {
			t.Errorf("ranges %q: %v", src, err)
		}
		if err := CheckIdempotent(src, format.Default()); err != nil {
			t.Errorf("idempotence %q: %v", src, err)
		}
	}
}

func TestCheckTokenTilingRejects(t *testing.T) {
	eof := lexer.Token{Kind: syntax.EOF, Range: source.At(3)}
	tests := []struct {
		name string
		toks []lexer.Token
		want string
	}{
		{"empty", nil, "no tokens"},
		{"gap", []lexer.Token{{Kind: syntax.Text, Range: source.NewRange(0, 1)}, {Kind: syntax.Text, Range: source.NewRange(2, 3)}, eof}, "starts at 2, want 1"},
		{"no eof", []lexer.Token{{Kind: syntax.Text, Range: source.NewRange(0, 3)}}, "want EOF"},
		{"short", []lexer.Token{{Kind: syntax.EOF, Range: source.At(0)}}, "tokens end at 0"},
	}
	for _, tt := range tests {
		err := CheckTokenTiling("abc", tt.toks)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestCheckRoundTripRejectsForeignSource(t *testing.T) {
	tree := parser.ParseLossless("X:1\nK:C\nCD\n")
	tests := []struct {
		src  string
		want string
	}{
		{"X:1\nK:C\nCDE\n", "tree covers 0..11, content is 0..12"},
		{"X:1\nK:C\n", "tree covers 0..11, content is 0..8"},
		{"", "tree covers 0..11, content is 0..0"},
	}
	for _, tt := range tests {
		err := CheckRoundTrip(tt.src, tree)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: err = %v, want %q", tt.src, err, tt.want)
		}
	}
	if err := CheckRoundTrip("", nil); err == nil {
		t.Error("nil tree accepted")
	}
	if err := CheckRoundTrip("", parser.ParseLossless("")); err != nil {
		t.Errorf("empty source: %v", err)
	}
}
