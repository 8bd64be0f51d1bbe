package analyzer

import (
	"fmt"

	"chamber/internal/ast"
	"chamber/internal/diag"
	"chamber/internal/source"
)

var unusualOctaveRule = Rule{
	Name:     "unusualOctave",
	Code:     diag.UnusualOctave,
	Category: CategoryStyle,
	Docs:     "Warns when notes are in extremely high or low octaves (> 3 or < -2).",
	Check:    checkUnusualOctave,
}

var suspiciousDurationRule = Rule{
	Name:     "suspiciousDuration",
	Code:     diag.SuspiciousDuration,
	Category: CategoryStyle,
	Docs:     "Warns when notes have unusually long durations (>= 16 units).",
	Check:    checkSuspiciousDuration,
}

func checkUnusualOctave(tune *ast.Tune, _ Config, sink diag.Sink) {
	ast.WalkNotes(tune.Body.Elements, func(n *ast.Note) {
		if n.Octave <= 3 && n.Octave >= -2 {
			return
		}
		where := "high"
		if n.Octave < -2 {
			where = "low"
		}
		diag.ReportWarning(sink, diag.UnusualOctave, n.Range,
			fmt.Sprintf("unusual octave %d (notes this %s are rare)", n.Octave, where)).Emit()
	})
}

func checkSuspiciousDuration(tune *ast.Tune, _ Config, sink diag.Sink) {
	check := func(d *ast.Duration, rng source.Range) {
		if d == nil || d.Value() < 16 {
			return
		}
		diag.ReportWarning(sink, diag.SuspiciousDuration, rng,
			fmt.Sprintf("suspicious duration %d/%d (very long note)", d.Num, d.Den)).Emit()
	}
	ast.Walk(tune.Body.Elements, func(el ast.Element) {
		switch e := el.(type) {
		case *ast.Note:
			check(e.Duration, e.Range)
		case *ast.Rest:
			check(e.Duration, e.Range)
		case *ast.Chord:
			check(e.Duration, e.Range)
			for i := range e.Notes {
				check(e.Notes[i].Duration, e.Notes[i].Range)
			}
		case *ast.Tuplet:
			for i := range e.Notes {
				check(e.Notes[i].Duration, e.Notes[i].Range)
			}
		case *ast.GraceNotes:
			for i := range e.Notes {
				check(e.Notes[i].Duration, e.Notes[i].Range)
			}
		}
	})
}
