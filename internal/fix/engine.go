package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"chamber/internal/diag"
	"chamber/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeSafe applies every safe fix.
	ApplyModeSafe ApplyMode = iota
	// ApplyModeAll applies safe fixes and manual suggestions.
	ApplyModeAll
	// ApplyModeOnce applies the first safe fix only.
	ApplyModeOnce
)

// Options configures how fixes are selected.
type Options struct {
	Mode ApplyMode
	// Codes, when set, restricts fixes to these diagnostic codes.
	Codes []diag.Code
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.Applicability
	EditCount     int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// Result holds the rewritten source and what happened to each fix.
type Result struct {
	Output  string
	Applied []AppliedFix
	Skipped []SkippedFix
}

// Changed reports whether any edit was applied.
func (r *Result) Changed() bool { return len(r.Applied) > 0 }

type candidate struct {
	id   string
	diag diag.Diagnostic
	fix  diag.Fix
}

// Apply rewrites src with the fixes attached to diagnostics.
//
// Fixes are taken in diagnostic order, so several insertions at one position
// keep the order in which the parser reported them: an inner construct that
// was found unclosed first gets its closer first. A fix whose edits overlap an
// already applied edit, or whose guard text no longer matches, is skipped.
func Apply(src string, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	result := &Result{Output: src}

	candidates := gatherCandidates(diagnostics, opts)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	selected, skipped := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skipped...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	out, applied, skipped := applyCandidates(src, selected)
	result.Output = out
	result.Applied = applied
	result.Skipped = append(result.Skipped, skipped...)

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates собирает fixes в порядке диагностик; ID синтезируется
// из кода, позиции и индекса fix.
func gatherCandidates(diagnostics []diag.Diagnostic, opts Options) []candidate {
	var cands []candidate
	for _, d := range diagnostics {
		if len(d.Fixes) == 0 || !codeAllowed(d.Code, opts.Codes) {
			continue
		}
		for idx, f := range d.Fixes {
			cands = append(cands, candidate{
				id:   fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Range.Start, idx),
				diag: d,
				fix:  f,
			})
		}
	}
	return cands
}

func codeAllowed(code diag.Code, codes []diag.Code) bool {
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func selectCandidates(candidates []candidate, opts Options) ([]candidate, []SkippedFix) {
	var selected []candidate
	var skipped []SkippedFix
	for _, cand := range candidates {
		if len(cand.fix.Edits) == 0 {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: "fix has no edits"})
			continue
		}
		if cand.fix.Applicability != diag.FixSafe && opts.Mode != ApplyModeAll {
			skipped = append(skipped, SkippedFix{
				ID:     cand.id,
				Title:  cand.fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability),
			})
			continue
		}
		selected = append(selected, cand)
		if opts.Mode == ApplyModeOnce {
			break
		}
	}
	return selected, skipped
}

func applyCandidates(src string, selected []candidate) (string, []AppliedFix, []SkippedFix) {
	working := []byte(src)
	var (
		done    []diag.TextEdit // применённые правки в координатах src, по возрастанию
		applied []AppliedFix
		skipped []SkippedFix
	)

	for _, cand := range selected {
		edits := append([]diag.TextEdit(nil), cand.fix.Edits...)
		if conflictsWithExisting(done, edits) {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: "conflicts with previously applied edits"})
			continue
		}

		// правки одного fix: с конца, чтобы смещения внутри fix не мешали
		sort.SliceStable(edits, func(i, j int) bool {
			if edits[i].Range.Start == edits[j].Range.Start {
				return edits[i].Range.End > edits[j].Range.End
			}
			return edits[i].Range.Start > edits[j].Range.Start
		})

		staged := append([]byte(nil), working...)
		stagedDone := append([]diag.TextEdit(nil), done...)
		reason := ""
		for _, edit := range edits {
			start := int(edit.Range.Start) + cumulativeDelta(done, int(edit.Range.Start))
			end := int(edit.Range.End) + cumulativeDelta(done, int(edit.Range.End))
			if start < 0 || end < start || end > len(staged) {
				reason = "edit range out of bounds"
				break
			}
			if edit.OldText != "" && string(staged[start:end]) != edit.OldText {
				reason = "existing text does not match expected content"
				break
			}
			suffix := append([]byte(nil), staged[end:]...)
			staged = append(append(staged[:start], edit.NewText...), suffix...)
			stagedDone = insertEditSorted(stagedDone, edit)
		}
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}

		working, done = staged, stagedDone
		applied = append(applied, AppliedFix{
			ID:            cand.id,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			EditCount:     len(edits),
		})
	}
	return string(working), applied, skipped
}

func conflictsWithExisting(existing []diag.TextEdit, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if rangesConflict(prev.Range, cand.Range) {
				return true
			}
		}
	}
	return false
}

// rangesConflict reports whether two half-open edit ranges overlap. Two
// insertions never conflict; an insertion conflicts with a replacement only
// strictly inside it.
func rangesConflict(a, b source.Range) bool {
	if a.Empty() && b.Empty() {
		return false
	}
	if a.Empty() {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// cumulativeDelta: сдвиг позиции pos исходника после уже применённых правок.
// Вставка в ту же позицию сдвигает pos: новые вставки идут после старых.
func cumulativeDelta(edits []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Range.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Range.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		return edits[i].Range.Start > edit.Range.Start
	})
	edits = append(edits, diag.TextEdit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = edit
	return edits
}

// WriteFile replaces path with content, keeping the file mode.
func WriteFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
