package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"chamber/internal/diag"
	"chamber/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	gutter, label   *color.Color
	bold, fix       *color.Color
}

// newPalette creates private colour objects so the global color.NoColor
// setting does not leak into forced or disabled output.
func newPalette(on bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		label:  color.New(color.FgBlue),
		bold:   color.New(color.Bold),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.gutter, p.label, p.bold, p.fix} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	error[M001]: unclosed chord, missing ']'
//	 --> tune.abc:4:1
//	  |
//	4 | [CEG
//	  | ^^^^
//	  | - opening '[' here
//
// Диагностики печатаются в порядке отчётов; внутри отчёта ожидается
// отсортированный список.
func Pretty(w io.Writer, reports []Report, opts PrettyOpts) error {
	bw := bufio.NewWriter(w)
	pal := newPalette(opts.Color)
	first := true
	for _, r := range reports {
		for _, d := range r.Diagnostics {
			if !first {
				_, _ = bw.WriteString("\n")
			}
			first = false
			prettyOne(bw, r, d, opts, pal)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("diagfmt: write: %w", err)
	}
	return nil
}

// marker is an underline on one source line; columns are byte offsets.
type marker struct {
	line       int
	start, end int
	primary    bool
	msg        string
}

func prettyOne(w *bufio.Writer, r Report, d diag.Diagnostic, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	fmt.Fprintf(w, "%s%s\n", sev.Sprintf("%s[%s]", d.Severity.Label(), d.Code.ID()), pal.bold.Sprint(": "+d.Message))

	start, _ := r.resolve(d.Range)
	var markers []marker
	var lines []int
	if r.File != nil {
		markers = append(markers, markerFor(r.File, d.Range, true, ""))
		for _, l := range d.Labels {
			markers = append(markers, markerFor(r.File, l.Range, false, l.Message))
		}
		lines = snippetLines(r.File, markers, opts.Context)
	}

	width := 1
	if len(lines) > 0 {
		width = len(strconv.Itoa(lines[len(lines)-1] + 1))
	}
	pad := strings.Repeat(" ", width)
	fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"), r.path(opts.PathMode, opts.BaseDir), start.Line, start.Col)

	if len(lines) > 0 {
		bar := pal.gutter.Sprint(pad + " |")
		fmt.Fprintln(w, bar)
		prevLine := -1
		for _, ln := range lines {
			if prevLine >= 0 && ln > prevLine+1 {
				fmt.Fprintln(w, pal.gutter.Sprint("..."))
			}
			prevLine = ln
			text := r.File.LineText(ln)
			num := fmt.Sprintf("%*d |", width, ln+1)
			fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprint(num), expandTabs(text))
			for _, m := range markers {
				if m.line != ln {
					continue
				}
				fmt.Fprintf(w, "%s %s\n", bar, underline(text, m, pal, sev))
			}
		}
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "%s %s %s\n", pad, pal.gutter.Sprint("="), pal.bold.Sprint("note: ")+note)
		}
	}
	if opts.ShowFixes {
		sub := pad + "     "
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "%s %s %s (%s)\n", pad, pal.gutter.Sprint("="),
				pal.fix.Sprintf("fix #%d: %s", i+1, fix.Title), fix.Applicability)
			for _, edit := range fix.Edits {
				fmt.Fprintf(w, "%s%s\n", sub, describeEdit(r, edit))
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(r.File, edit)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "%spreview:\n", sub)
				for _, line := range preview.before {
					fmt.Fprintf(w, "%s%s\n", sub, pal.err.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "%s%s\n", sub, pal.fix.Sprint("+ "+line))
				}
			}
		}
	}
}

// markerFor clips rng to its first line.
func markerFor(f *source.File, rng source.Range, primary bool, msg string) marker {
	lc := f.Lines.LineCol(rng.Start)
	line := int(lc.Line)
	lineRange := f.Lines.LineRange(line, f.Content)
	end := int(rng.End - lineRange.Start)
	if rng.End > lineRange.End {
		end = int(lineRange.End - lineRange.Start)
	}
	return marker{line: line, start: int(lc.Col), end: max(end, int(lc.Col)), primary: primary, msg: msg}
}

// snippetLines lists the 0-based lines to show: the primary line with
// context plus every label line, sorted.
func snippetLines(f *source.File, markers []marker, context int) []int {
	last := f.Lines.LineCount() - 1
	seen := map[int]bool{}
	var out []int
	add := func(ln int) {
		if ln < 0 || ln > last || seen[ln] {
			return
		}
		seen[ln] = true
		out = append(out, ln)
	}
	for _, m := range markers {
		if m.primary {
			for ln := m.line - context; ln <= m.line+context; ln++ {
				add(ln)
			}
			continue
		}
		add(m.line)
	}
	slices.Sort(out)
	return out
}

func underline(text string, m marker, pal palette, sev *color.Color) string {
	start := min(m.start, len(text))
	end := min(m.end, len(text))
	lead := displayWidth(text[:start])
	n := max(displayWidth(text[:end])-lead, 1)

	ch, c := "-", pal.label
	if m.primary {
		ch, c = "^", sev
	}
	out := strings.Repeat(" ", lead) + c.Sprint(strings.Repeat(ch, n))
	if m.msg != "" {
		out += " " + c.Sprint(m.msg)
	}
	return out
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
