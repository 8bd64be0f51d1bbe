// Package testkit holds invariant checks shared by package tests and fuzz
// targets. Each check returns a descriptive error instead of failing a test
// so callers decide how to report it.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"chamber/internal/ast"
	"chamber/internal/cst"
	"chamber/internal/format"
	"chamber/internal/lexer"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// CheckTokenTiling verifies that toks cover src without gaps or overlaps and
// end with exactly one empty EOF token at len(src).
func CheckTokenTiling(src string, toks []lexer.Token) error {
	size, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if len(toks) == 0 {
		return fmt.Errorf("no tokens, want at least EOF")
	}
	var pos source.Pos
	for i, tok := range toks {
		if tok.Range.Start != pos {
			return fmt.Errorf("token %d (%s) starts at %d, want %d", i, tok.Kind, tok.Range.Start, pos)
		}
		if tok.Range.End < tok.Range.Start {
			return fmt.Errorf("token %d (%s) has inverted range %v", i, tok.Kind, tok.Range)
		}
		last := i == len(toks)-1
		if tok.Kind == syntax.EOF {
			if !last {
				return fmt.Errorf("EOF at index %d of %d", i, len(toks))
			}
			if !tok.Range.Empty() {
				return fmt.Errorf("EOF range %v is not empty", tok.Range)
			}
		} else if tok.Range.Empty() {
			return fmt.Errorf("token %d (%s) is empty at %d", i, tok.Kind, tok.Range.Start)
		}
		pos = tok.Range.End
	}
	if toks[len(toks)-1].Kind != syntax.EOF {
		return fmt.Errorf("last token is %s, want EOF", toks[len(toks)-1].Kind)
	}
	if uint32(pos) != size {
		return fmt.Errorf("tokens end at %d, content is %d bytes", pos, size)
	}
	return nil
}

// CheckRoundTrip verifies that tree spans exactly [0, len(src)) and that
// printing it reproduces src byte for byte. The printer slices src by token
// ranges, so the span check is what catches a tree built from other text.
func CheckRoundTrip(src string, tree *cst.Node) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	size, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	want := source.NewRange(0, source.Pos(size))
	if rng, ok := tree.FullRange(); (ok || size > 0) && rng != want {
		return fmt.Errorf("tree covers %v, content is %v", rng, want)
	}
	if got := cst.Print(tree, src); got != src {
		return fmt.Errorf("round trip mismatch at byte %d: got %d bytes, want %d", firstDiff(got, src), len(got), len(src))
	}
	return nil
}

// CheckIdempotent verifies that formatting an already formatted text is a
// no-op.
func CheckIdempotent(src string, cfg format.Config) error {
	once := format.Format(src, cfg)
	twice := format.Format(once, cfg)
	if once != twice {
		return fmt.Errorf("second format pass changed output at byte %d", firstDiff(once, twice))
	}
	return nil
}

// CheckTuneRanges runs span sanity checks on a lowered tune:
// 1) every range is non-inverted and within the content bounds
// 2) header fields and body elements appear in source order
// 3) header and body do not overlap
func CheckTuneRanges(tune *ast.Tune, src string) error {
	if tune == nil {
		return fmt.Errorf("nil tune")
	}
	size, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inBounds := func(what string, r source.Range) error {
		if r.End < r.Start {
			return fmt.Errorf("%s has inverted range %v", what, r)
		}
		if uint32(r.End) > size {
			return fmt.Errorf("%s range %v is beyond content (%d bytes)", what, r, size)
		}
		return nil
	}

	for _, check := range []struct {
		what string
		r    source.Range
	}{{"tune", tune.Range}, {"header", tune.Header.Range}, {"body", tune.Body.Range}} {
		if err := inBounds(check.what, check.r); err != nil {
			return err
		}
	}

	var prev source.Pos
	for i, f := range tune.Header.Fields {
		if err := inBounds(fmt.Sprintf("header field %d", i), f.Range); err != nil {
			return err
		}
		if f.Range.Start < prev {
			return fmt.Errorf("header field %d starts at %d before %d", i, f.Range.Start, prev)
		}
		prev = f.Range.Start
	}

	var headerEnd source.Pos
	if n := len(tune.Header.Fields); n > 0 {
		headerEnd = tune.Header.Fields[n-1].Range.End
	}
	prev = 0
	for i, el := range tune.Body.Elements {
		r := el.Span()
		if err := inBounds(fmt.Sprintf("body element %d", i), r); err != nil {
			return err
		}
		if r.Empty() {
			continue
		}
		if r.Start < prev {
			return fmt.Errorf("body element %d starts at %d before %d", i, r.Start, prev)
		}
		if r.Start < headerEnd {
			return fmt.Errorf("body element %d at %d overlaps header ending at %d", i, r.Start, headerEnd)
		}
		prev = r.Start
	}
	var nested error
	ast.WalkNotes(tune.Body.Elements, func(n *ast.Note) {
		if nested == nil {
			nested = inBounds("note", n.Range)
		}
	})
	return nested
}

func firstDiff(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
