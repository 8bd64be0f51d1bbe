package source

import (
	"fmt"

	"fortio.org/safecast"
)

// LineIndex maps byte offsets to line/column pairs.
// It is built once per text by recording the offset at which every line starts.
type LineIndex struct {
	starts []Pos // starts[0] == 0 всегда
	size   Pos
}

// NewLineIndex scans text for '\n' and records line starts.
func NewLineIndex(text string) *LineIndex {
	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	starts := make([]Pos, 1, 1+len(text)/32)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, Pos(i+1))
		}
	}
	return &LineIndex{starts: starts, size: Pos(size)}
}

// LineCount returns the number of lines. A trailing newline opens an empty last line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// LineStart returns the offset at which the 0-based line begins.
func (li *LineIndex) LineStart(line int) Pos {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return li.size
	}
	return li.starts[line]
}

// LineRange returns the range of a 0-based line without its line break.
func (li *LineIndex) LineRange(line int, text string) Range {
	start := li.LineStart(line)
	end := li.size
	if line+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	if end > start && int(end) <= len(text) && text[end-1] == '\r' {
		end--
	}
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// LineCol returns the 0-based line and byte column of pos.
// Offsets past the end are clamped to the end of the text.
func (li *LineIndex) LineCol(pos Pos) LineCol {
	pos = min(pos, li.size)
	// бинпоиск: находим наибольший starts[i] <= pos
	lo, hi := 0, len(li.starts)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if li.starts[mid] <= pos {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := max(hi, 0)
	return LineCol{Line: uint32(line), Col: uint32(pos - li.starts[line])}
}

// LineColDisplay is LineCol converted to 1-based values.
func (li *LineIndex) LineColDisplay(pos Pos) LineCol {
	return li.LineCol(pos).Display()
}
