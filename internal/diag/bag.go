package diag

import (
	"sort"
)

// Bag collects diagnostics in discovery order and keeps running
// error/warning counters. It implements Sink.
type Bag struct {
	items    []Diagnostic
	max      int // 0: без лимита
	errors   int
	warnings int
	dropped  int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Report реализует Sink.
func (b *Bag) Report(d Diagnostic) {
	b.Add(d)
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	switch d.Severity {
	case SevError:
		b.errors++
	case SevWarning:
		b.warnings++
	}
	return true
}

// ErrorCount возвращает число ошибок без пересчёта.
func (b *Bag) ErrorCount() int { return b.errors }

// WarningCount возвращает число предупреждений без пересчёта.
func (b *Bag) WarningCount() int { return b.warnings }

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) HasErrors() bool   { return b.errors > 0 }
func (b *Bag) HasWarnings() bool { return b.warnings > 0 }

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge переносит диагностики из другого Bag с учётом лимита.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort сортирует диагностики по: start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	SortByRange(b.items)
}

// SortByRange sorts diagnostics in place the same way Bag.Sort does.
func SortByRange(items []Diagnostic) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i], items[j]
		if di.Range.Start != dj.Range.Start {
			return di.Range.Start < dj.Range.Start
		}
		if di.Range.End != dj.Range.End {
			return di.Range.End < dj.Range.End
		}
		// по severity по убыванию: Error > Warning > Info
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

