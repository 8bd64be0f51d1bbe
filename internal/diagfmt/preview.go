package diagfmt

import (
	"fmt"
	"strings"

	"chamber/internal/diag"
	"chamber/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the whole lines touched by edit, before and
// after applying it.
func buildFixEditPreview(f *source.File, edit diag.TextEdit) (fixEditPreview, error) {
	if f == nil {
		return fixEditPreview{}, fmt.Errorf("nil file")
	}
	size := source.Pos(len(f.Content))
	if edit.Range.Start > size || edit.Range.End > size {
		return fixEditPreview{}, fmt.Errorf("edit range %s out of bounds", edit.Range)
	}

	startLine := int(f.Lines.LineCol(edit.Range.Start).Line)
	endLine := int(f.Lines.LineCol(edit.Range.End).Line)
	blockStart := f.Lines.LineStart(startLine)
	blockEnd := f.Lines.LineRange(endLine, f.Content).End

	original := f.Content[blockStart:blockEnd]
	relStart := int(edit.Range.Start - blockStart)
	relEnd := int(edit.Range.End - blockStart)
	// правка может задевать перевод строки в конце блока
	relStart = min(relStart, len(original))
	relEnd = max(min(relEnd, len(original)), relStart)

	after := original[:relStart] + edit.NewText + original[relEnd:]
	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// describeEdit renders an edit as "insert \"]\" at 4:5".
func describeEdit(r Report, edit diag.TextEdit) string {
	start, end := r.resolve(edit.Range)
	switch {
	case edit.Range.Empty():
		return fmt.Sprintf("insert %q at %d:%d", edit.NewText, start.Line, start.Col)
	case edit.NewText == "":
		return fmt.Sprintf("delete %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	default:
		return fmt.Sprintf("replace %d:%d-%d:%d with %q", start.Line, start.Col, end.Line, end.Col, edit.NewText)
	}
}
