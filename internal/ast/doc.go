// Package ast is the semantic tree of a single tune.
//
// The tree is produced by internal/lower from the lossless tree and is
// immutable once returned. Every node carries the source range it was
// projected from so later passes (analyzer, renderers) can anchor findings.
// Durations are exact fractions; Value exists only for threshold checks.
package ast
