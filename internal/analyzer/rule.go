package analyzer

import (
	"chamber/internal/ast"
	"chamber/internal/diag"
)

// Category groups rules for documentation and filtering.
type Category uint8

const (
	// CategoryLint rules point at probable mistakes.
	CategoryLint Category = iota
	// CategoryStyle rules point at unusual but valid notation.
	CategoryStyle
)

func (c Category) String() string {
	if c == CategoryStyle {
		return "style"
	}
	return "lint"
}

// CheckFunc reports the findings of one rule into sink.
type CheckFunc func(tune *ast.Tune, cfg Config, sink diag.Sink)

// Rule is one named check.
type Rule struct {
	Name     string
	Code     diag.Code
	Category Category
	Docs     string
	// Default rules run unless disabled; others only when enabled.
	Default bool
	Check   CheckFunc
}
