// Package parser turns ABC source into trees.
//
// One recursive-descent core builds the lossless tree (internal/cst) and
// reports lexical, header and structural diagnostics through a diag.Sink.
// The entry points differ only in the sink they pass and in whether the tree
// is projected afterwards:
//
//   - ParseLossless: core with diag.Discard, lossless tree only.
//   - Parse: core and projector with diag.Discard.
//   - ParseWithDiagnostics: ParseSource with an unbounded bag and no extra sink.
//   - ParseSource: core and projector sharing one deduplicated sink.
//
// The core never aborts. Bracketed constructs stop at a recovery point
// (a bar line, the end of a line, or the end of input) and are reported as
// unclosed there, so content of the next line always belongs to the next
// construct.
package parser
