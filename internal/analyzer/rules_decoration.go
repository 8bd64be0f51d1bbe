package analyzer

import (
	"strings"

	"chamber/internal/ast"
	"chamber/internal/diag"
)

var unknownDecorationRule = Rule{
	Name:     "unknownDecoration",
	Code:     diag.UnknownDecoration,
	Category: CategoryLint,
	Docs:     "Checks that decoration names belong to the standard ABC 2.1 vocabulary.",
	Default:  true,
	Check:    checkUnknownDecoration,
}

// standardDecorations: словарь ABC 2.1, сравнение без учёта регистра.
var standardDecorations = []string{
	// динамика
	"p", "pp", "ppp", "pppp", "f", "ff", "fff", "ffff", "mp", "mf", "sfz",
	"crescendo", "decrescendo", "crescendo(", "crescendo)", "decrescendo(", "decrescendo)",
	"diminuendo(", "diminuendo)",
	"<", ">", "<(", "<)", ">(", ">)",
	// артикуляция
	"accent", "emphasis", "staccato", "staccatissimo", "tenuto", "marcato",
	"fermata", "shortfermata", "longfermata", "invertedfermata", "breath",
	// орнаменты
	"trill", "trill(", "trill)", "mordent", "pralltriller", "lowermordent", "uppermordent",
	"turn", "turnx", "invertedturn", "invertedturnx", "roll", "snap", "slide",
	// штрихи
	"upbow", "downbow", "open", "plus", "wedge", "thumb", "arpeggio",
	// навигация
	"coda", "segno", "D.S.", "D.C.", "dacoda", "dacapo", "fine",
	"shortphrase", "mediumphrase", "longphrase",
	// аппликатура
	"0", "1", "2", "3", "4", "5",
	"repeatbar", "repeatbar2",
}

var decorationSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(standardDecorations))
	for _, d := range standardDecorations {
		m[strings.ToLower(d)] = struct{}{}
	}
	return m
}()

// IsStandardDecoration reports whether name is in the ABC 2.1 vocabulary.
func IsStandardDecoration(name string) bool {
	_, ok := decorationSet[strings.ToLower(name)]
	return ok
}

func checkUnknownDecoration(tune *ast.Tune, _ Config, sink diag.Sink) {
	check := func(decos []ast.Decoration) {
		for _, d := range decos {
			if d.Name == "" || IsStandardDecoration(d.Name) {
				continue
			}
			msg := "unknown decoration '" + d.Name + "'"
			if s, ok := SuggestDecoration(d.Name); ok {
				msg += ", did you mean '" + s + "'?"
			}
			diag.ReportError(sink, diag.UnknownDecoration, d.Range, msg).Emit()
		}
	}
	ast.Walk(tune.Body.Elements, func(el ast.Element) {
		switch e := el.(type) {
		case *ast.Rest:
			check(e.Decorations)
		case *ast.Chord:
			check(e.Decorations)
		}
	})
	ast.WalkNotes(tune.Body.Elements, func(n *ast.Note) { check(n.Decorations) })
}

// SuggestDecoration returns the closest standard name within a small edit
// distance: 2 for names up to 4 bytes, half the length above that.
func SuggestDecoration(name string) (string, bool) {
	lower := strings.ToLower(name)
	limit := 2
	if len(name) > 4 {
		limit = len(name) / 2
	}
	best, bestDist := "", limit+1
	for _, std := range standardDecorations {
		if d := levenshtein(lower, strings.ToLower(std)); d < bestDist {
			best, bestDist = std, d
		}
	}
	return best, best != ""
}

// levenshtein считает расстояние по рунам, две строки матрицы.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
