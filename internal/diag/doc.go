// Package diag defines the diagnostic model shared by the lexer, parser,
// projector and analyzer.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced while reading a tune.
//   - Offer light-weight utilities (Sink, Bag, ReportBuilder) that let producers
//     emit diagnostics without coupling to storage or formatting layers.
//   - Model fix suggestions as structured edits that the CLI can apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt, fix application in internal/fix.
//
// # Data model
//
// Diagnostic is an immutable value. It contains:
//
//   - Code – closed set of stable identifiers (L/H/M/S/W + three digits), each
//     with a default severity and message template (codes.go).
//   - Severity – Info < Warning < Error.
//   - Range – the primary byte range in the tune source.
//   - Labels – secondary labelled ranges ("opening '[' here").
//   - Notes – free text, used sparingly.
//   - Fixes – Fix records made of TextEdits.
//
// Style codes (W...) are always warnings.
//
// # Emitting diagnostics
//
// Producers receive a Sink. The parser builds diagnostics with ReportBuilder
// (Report/ReportError/ReportWarning, then WithLabel/WithFix and Emit).
// Discard turns every report into a no-op; Bag collects in discovery order and
// keeps error and warning counts up to date as items arrive.
package diag
