package diagfmt

import (
	"chamber/internal/diag"
	"chamber/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and shortens long absolute ones.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// Report is the diagnostics of one file. File may be nil for failures that
// happened before the file was loaded; Path then names it.
type Report struct {
	File        *source.File
	Path        string
	Diagnostics []diag.Diagnostic
}

func (r Report) path(mode PathMode, baseDir string) string {
	if r.File == nil {
		return r.Path
	}
	return r.File.FormatPath(mode.String(), baseDir)
}

// resolve converts a range into 1-based line and column. Without a file
// everything sits at 1:1.
func (r Report) resolve(rng source.Range) (start, end source.LineCol) {
	if r.File == nil {
		return source.LineCol{Line: 1, Col: 1}, source.LineCol{Line: 1, Col: 1}
	}
	return r.File.Lines.LineColDisplay(rng.Start), r.File.Lines.LineColDisplay(rng.End)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int // строк контекста вокруг основной строки
	PathMode PathMode
	BaseDir  string
	// ShowNotes prints "= note:" lines, ShowFixes the fix titles and edits,
	// ShowPreview the before/after lines of each edit.
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	PathMode       PathMode
	BaseDir        string
}
