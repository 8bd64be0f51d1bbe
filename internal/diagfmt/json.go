package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"chamber/internal/diag"
	"chamber/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// LabelJSON is a secondary range with its message.
type LabelJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	Title         string        `json:"title"`
	Applicability string        `json:"applicability"`
	BuildError    string        `json:"build_error,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Labels   []LabelJSON  `json:"labels,omitempty"`
	Notes    []string     `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

func makeLocation(r Report, rng source.Range, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      r.path(opts.PathMode, opts.BaseDir),
		StartByte: uint32(rng.Start),
		EndByte:   uint32(rng.End),
	}
	if opts.IncludePositions {
		start, end := r.resolve(rng)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Max обрезает общее число диагностик по всем отчётам; счётчики ошибок и
// предупреждений считаются по всем.
func BuildDiagnosticsOutput(reports []Report, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0)}
	for _, r := range reports {
		for _, d := range r.Diagnostics {
			switch d.Severity {
			case diag.SevError:
				out.Errors++
			case diag.SevWarning:
				out.Warnings++
			}
			if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
				continue
			}
			out.Diagnostics = append(out.Diagnostics, diagnosticJSON(r, d, opts))
		}
	}
	out.Count = len(out.Diagnostics)
	return out
}

func diagnosticJSON(r Report, d diag.Diagnostic, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		Name:     d.Code.Name(),
		Message:  d.Message,
		Location: makeLocation(r, d.Range, opts),
	}
	for _, l := range d.Labels {
		dj.Labels = append(dj.Labels, LabelJSON{Message: l.Message, Location: makeLocation(r, l.Range, opts)})
	}
	if opts.IncludeNotes && len(d.Notes) > 0 {
		dj.Notes = append([]string(nil), d.Notes...)
	}
	if !opts.IncludeFixes {
		return dj
	}
	for _, fix := range d.Fixes {
		fj := FixJSON{Title: fix.Title, Applicability: fix.Applicability.String()}
		for _, edit := range fix.Edits {
			ej := FixEditJSON{
				Location: makeLocation(r, edit.Range, opts),
				NewText:  edit.NewText,
				OldText:  edit.OldText,
			}
			if opts.IncludePreviews {
				preview, err := buildFixEditPreview(r.File, edit)
				if err != nil {
					fj.BuildError = err.Error()
				} else {
					ej.BeforeLines = preview.before
					ej.AfterLines = preview.after
				}
			}
			fj.Edits = append(fj.Edits, ej)
		}
		dj.Fixes = append(dj.Fixes, fj)
	}
	return dj
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, reports []Report, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(BuildDiagnosticsOutput(reports, opts)); err != nil {
		return fmt.Errorf("diagfmt: encode json: %w", err)
	}
	return nil
}
