package diag

import "chamber/internal/source"

// ReportBuilder accumulates diagnostic details before emitting to a Sink.
type ReportBuilder struct {
	sink    Sink
	diag    Diagnostic
	emitted bool
}

// NewReportBuilder constructs a builder bound to sink.
func NewReportBuilder(sink Sink, sev Severity, code Code, rng source.Range, msg string) *ReportBuilder {
	return &ReportBuilder{
		sink: sink,
		diag: Diagnostic{
			Code:     code,
			Severity: sev,
			Range:    rng,
			Message:  msg,
		},
	}
}

// Report starts a diagnostic with the code's default severity.
func Report(sink Sink, code Code, rng source.Range, msg string) *ReportBuilder {
	return NewReportBuilder(sink, code.DefaultSeverity(), code, rng, msg)
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(sink Sink, code Code, rng source.Range, msg string) *ReportBuilder {
	return NewReportBuilder(sink, SevError, code, rng, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(sink Sink, code Code, rng source.Range, msg string) *ReportBuilder {
	return NewReportBuilder(sink, SevWarning, code, rng, msg)
}

// WithLabel appends a secondary labelled range.
func (b *ReportBuilder) WithLabel(rng source.Range, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Labels = append(b.diag.Labels, Label{Range: rng, Message: msg})
	return b
}

// WithNote appends a free-text note.
func (b *ReportBuilder) WithNote(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, msg)
	return b
}

// WithFix appends a safe fix made of the given edits.
func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Fixes = append(b.diag.Fixes, Fix{Title: title, Applicability: FixSafe, Edits: edits})
	return b
}

// WithSuggestion appends a fix that must not be applied automatically.
func (b *ReportBuilder) WithSuggestion(title string, edits ...TextEdit) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Fixes = append(b.diag.Fixes, Fix{Title: title, Applicability: FixManual, Edits: edits})
	return b
}

// Emit sends diagnostic to underlying sink exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.sink != nil {
		b.sink.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// InsertText builds an edit inserting text at pos.
func InsertText(pos source.Pos, text string) TextEdit {
	return TextEdit{Range: source.At(pos), NewText: text}
}

// ReplaceRange builds an edit replacing old (the current text of rng) with text.
func ReplaceRange(rng source.Range, old, text string) TextEdit {
	return TextEdit{Range: rng, NewText: text, OldText: old}
}

// DeleteRange builds an edit removing old (the current text of rng).
func DeleteRange(rng source.Range, old string) TextEdit {
	return TextEdit{Range: rng, OldText: old}
}
