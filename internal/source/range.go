package source

import (
	"fmt"
)

// Pos is a byte offset into a source text.
type Pos uint32

// Range is a half-open byte interval [Start, End).
type Range struct {
	Start Pos // в байтах включительно
	End   Pos // в байтах не включительно
}

// NewRange builds a range and panics when start > end.
func NewRange(start, end Pos) Range {
	if start > end {
		panic(fmt.Sprintf("source: invalid range %d..%d", start, end))
	}
	return Range{Start: start, End: end}
}

// At returns an empty range positioned at pos.
func At(pos Pos) Range {
	return Range{Start: pos, End: pos}
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) Len() uint32 {
	return uint32(r.End - r.Start)
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Contains reports whether pos lies inside the range.
// An empty range contains nothing.
func (r Range) Contains(pos Pos) bool {
	return r.Start <= pos && pos < r.End
}

// ContainsRange reports whether other lies entirely inside r.
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Intersect returns the overlap of two ranges. ok is false when they are disjoint.
func (r Range) Intersect(other Range) (Range, bool) {
	start := max(r.Start, other.Start)
	end := min(r.End, other.End)
	if start > end {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Cover returns the smallest range containing both.
func (r Range) Cover(other Range) Range {
	if other.Start < r.Start {
		r.Start = other.Start
	}
	if other.End > r.End {
		r.End = other.End
	}
	return r
}

// Slice returns the bytes of src covered by the range, clamped to len(src).
func (r Range) Slice(src string) string {
	n := Pos(len(src))
	start, end := min(r.Start, n), min(r.End, n)
	return src[start:end]
}
