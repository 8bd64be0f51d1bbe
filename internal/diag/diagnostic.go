package diag

import (
	"chamber/internal/source"
)

// Label is a secondary range with its own message ("opening '[' here").
type Label struct {
	Range   source.Range
	Message string
}

// Applicability says whether a fix may be applied without review.
type Applicability uint8

const (
	// FixSafe edits are applied by "chamber fix" automatically.
	FixSafe Applicability = iota
	// FixManual edits are only shown as suggestions.
	FixManual
)

func (a Applicability) String() string {
	if a == FixSafe {
		return "safe"
	}
	return "manual"
}

// TextEdit replaces Range with NewText. OldText, when set, guards the edit:
// it is skipped if the source no longer matches.
type TextEdit struct {
	Range   source.Range
	NewText string
	OldText string
}

// Fix is a titled group of edits applied together.
type Fix struct {
	Title         string
	Applicability Applicability
	Edits         []TextEdit
}

// Diagnostic is an immutable value; the With* methods return modified copies.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Range    source.Range
	Message  string
	Labels   []Label
	Notes    []string
	Fixes    []Fix
}

// New builds a diagnostic using the code's default severity and message.
func New(code Code, rng source.Range) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: code.DefaultSeverity(),
		Range:    rng,
		Message:  code.Title(),
	}
}

func NewError(code Code, rng source.Range, msg string) Diagnostic {
	return Diagnostic{Code: code, Severity: SevError, Range: rng, Message: msg}
}

func NewWarning(code Code, rng source.Range, msg string) Diagnostic {
	return Diagnostic{Code: code, Severity: SevWarning, Range: rng, Message: msg}
}

func (d Diagnostic) WithMessage(msg string) Diagnostic {
	d.Message = msg
	return d
}

func (d Diagnostic) WithSeverity(sev Severity) Diagnostic {
	d.Severity = sev
	return d
}

func (d Diagnostic) WithLabel(rng source.Range, msg string) Diagnostic {
	d.Labels = append(append([]Label(nil), d.Labels...), Label{Range: rng, Message: msg})
	return d
}

func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(append([]string(nil), d.Notes...), note)
	return d
}

func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fixes = append(append([]Fix(nil), d.Fixes...), fix)
	return d
}

func (d Diagnostic) IsError() bool { return d.Severity == SevError }
