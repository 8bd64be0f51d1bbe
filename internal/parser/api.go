package parser

import (
	"context"
	"strconv"

	"chamber/internal/ast"
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/lower"
	"chamber/internal/trace"
)

// ParseLossless builds the lossless tree. It reports nothing; malformed input
// yields a differently shaped tree that still prints back to src.
func ParseLossless(src string) *cst.Node {
	return newParser(src, diag.Discard).parseTune()
}

// Parse returns the semantic tree and drops every diagnostic.
func Parse(src string) *ast.Tune {
	tree := newParser(src, diag.Discard).parseTune()
	return lower.Tune(tree, src, diag.Discard)
}

// ParseWithDiagnostics returns the semantic tree and all diagnostics: those
// of the core in discovery order, then those of the projector.
func ParseWithDiagnostics(src string) (*ast.Tune, []diag.Diagnostic) {
	res := ParseSource(context.Background(), "", src, Options{})
	return res.Tune, res.Bag.Items()
}

// Options configures ParseSource.
type Options struct {
	// MaxDiagnostics caps the bag; 0 means unlimited.
	MaxDiagnostics int
	// Sink, when set, receives every diagnostic as well as the bag.
	Sink diag.Sink
}

// Result bundles both trees and the collected diagnostics of one source.
type Result struct {
	Tree *cst.Node
	Tune *ast.Tune
	Bag  *diag.Bag
}

// ParseSource is the driver-facing entry point: it parses src with a bounded
// bag and records a trace span for the core and one for the projector.
func ParseSource(ctx context.Context, name, src string, opts Options) Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	var sink diag.Sink = bag
	if opts.Sink != nil {
		sink = teeSink{bag, opts.Sink}
	}
	// восстановление и проекция могут сообщить одно и то же дважды
	sink = diag.NewDedupSink(sink)

	_, span := trace.StartFileSpan(ctx, "parse", name)
	tree := newParser(src, sink).parseTune()
	span.WithExtra("diagnostics", strconv.Itoa(bag.Len())).End("")

	_, span = trace.StartFileSpan(ctx, "lower", name)
	tune := lower.Tune(tree, src, sink)
	span.WithExtra("diagnostics", strconv.Itoa(bag.Len())).End("")

	return Result{Tree: tree, Tune: tune, Bag: bag}
}

type teeSink struct {
	a, b diag.Sink
}

func (t teeSink) Report(d diag.Diagnostic) {
	t.a.Report(d)
	t.b.Report(d)
}
