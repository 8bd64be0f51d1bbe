package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// continuation is what a wrap opportunity becomes when a line is broken.
const continuation = " \\\n"

// span is a half-open byte range of the output buffer.
type span struct{ start, end int }

// Writer accumulates formatted output and remembers the gaps after bar lines
// where a long music line may be broken.
type Writer struct {
	buf   []byte
	wraps []span
}

// NewWriter creates a writer sized for src.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// WriteString appends s.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// AtLineStart reports whether the output is empty or ends with a newline.
func (w *Writer) AtLineStart() bool {
	return len(w.buf) == 0 || w.buf[len(w.buf)-1] == '\n'
}

// MarkWrap records buf[start:Len()) as a place where a line may be broken.
func (w *Writer) MarkWrap(start int) {
	w.wraps = append(w.wraps, span{start: start, end: len(w.buf)})
}

// Finish applies the line-level options and returns the text.
func (w *Writer) Finish(cfg Config) string {
	out := string(w.buf)
	if cfg.MaxLineWidth > 0 && len(w.wraps) > 0 {
		out = wrapLines(out, w.wraps, cfg.MaxLineWidth)
	}
	if cfg.TrimTrailingWhitespace {
		out = trimTrailing(out)
	}
	if cfg.EnsureFinalNewline && out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// wrapLines breaks every line wider than limit at recorded opportunities.
// Breaking is greedy: the last opportunity that keeps the line (with its
// continuation marker) within limit wins; when none does, the first one
// after the line start is used so the overflow stays as short as possible.
func wrapLines(text string, wraps []span, limit int) string {
	var b strings.Builder
	b.Grow(len(text) + len(wraps)*len(continuation))

	next := 0 // first opportunity not yet consumed
	lineStart := 0
	for lineStart < len(text) {
		lineEnd := strings.IndexByte(text[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += lineStart
		}

		var inLine []span
		for next < len(wraps) && wraps[next].start < lineEnd {
			if wraps[next].start >= lineStart && wraps[next].end <= lineEnd {
				inLine = append(inLine, wraps[next])
			}
			next++
		}

		start := lineStart
		for runewidth.StringWidth(text[start:lineEnd]) > limit {
			cut := -1
			for i, sp := range inLine {
				if sp.start <= start {
					continue
				}
				if runewidth.StringWidth(text[start:sp.start])+len(continuation)-1 <= limit || cut < 0 {
					cut = i
					continue
				}
				break
			}
			if cut < 0 {
				break
			}
			sp := inLine[cut]
			b.WriteString(text[start:sp.start])
			b.WriteString(continuation)
			start = sp.end
			inLine = inLine[cut+1:]
		}
		b.WriteString(text[start:lineEnd])
		if lineEnd < len(text) {
			b.WriteByte('\n')
		}
		lineStart = lineEnd + 1
	}
	return b.String()
}

// trimTrailing drops spaces and tabs before every line end, keeping "\r\n".
func trimTrailing(text string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	b.Grow(len(text))
	for _, line := range lines {
		body, nl := line, ""
		if strings.HasSuffix(body, "\n") {
			body, nl = body[:len(body)-1], "\n"
			if strings.HasSuffix(body, "\r") {
				body, nl = body[:len(body)-1], "\r\n"
			}
		}
		b.WriteString(strings.TrimRight(body, " \t"))
		b.WriteString(nl)
	}
	return b.String()
}
