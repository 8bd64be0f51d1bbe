package diag

import (
	"fmt"
	"sort"
	"strings"

	"chamber/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics of one source into a stable,
// single-line-per-entry representation suitable for golden files:
//
//	error M001 path:1:1 unclosed chord, missing ']'
//
// Entries are sorted by position, then severity, code and message. Labels are
// included as "label" lines when includeLabels is set.
func FormatGoldenDiagnostics(diags []Diagnostic, src, path string, includeLabels bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := source.NewLineIndex(src)
	rendered := make([]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		pos := lines.LineColDisplay(d.Range.Start)
		rendered = append(rendered, goldenDiagnostic{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Line:     pos.Line,
			Column:   pos.Col,
			Message:  sanitizeMessage(d.Message),
		})
		if includeLabels {
			for _, l := range d.Labels {
				lpos := lines.LineColDisplay(l.Range.Start)
				rendered = append(rendered, goldenDiagnostic{
					Severity: "label",
					Code:     d.Code.ID(),
					Line:     lpos.Line,
					Column:   lpos.Col,
					Message:  sanitizeMessage(l.Message),
				})
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
