package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chamber/internal/ast"
	"chamber/internal/source"
)

// ASTNode is a generic rendering of one ast value; both the pretty and
// the JSON tree dumps are built from it.
type ASTNode struct {
	Type     string            `json:"type"`
	Start    uint32            `json:"start"`
	End      uint32            `json:"end"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []ASTNode         `json:"children,omitempty"`
}

func astNode(typ string, rng source.Range, attrs ...string) ASTNode {
	n := ASTNode{Type: typ, Start: uint32(rng.Start), End: uint32(rng.End)}
	if len(attrs) > 0 {
		n.Attrs = make(map[string]string, len(attrs)/2)
		for i := 0; i+1 < len(attrs); i += 2 {
			if attrs[i+1] != "" {
				n.Attrs[attrs[i]] = attrs[i+1]
			}
		}
	}
	return n
}

// BuildASTTree converts a tune into the generic tree.
func BuildASTTree(t *ast.Tune) ASTNode {
	root := astNode("tune", t.Range)
	header := astNode("header", t.Header.Range)
	for _, f := range t.Header.Fields {
		header.Children = append(header.Children, astNode("field", f.Range,
			"label", string(f.Label), "kind", f.Kind.String(), "value", f.Value))
	}
	body := astNode("body", t.Body.Range)
	for _, e := range t.Body.Elements {
		body.Children = append(body.Children, elementNode(e))
	}
	root.Children = []ASTNode{header, body}
	return root
}

func durationAttr(d *ast.Duration) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func decorationsAttr(decos []ast.Decoration) string {
	names := make([]string, 0, len(decos))
	for _, d := range decos {
		names = append(names, d.Name)
	}
	return strings.Join(names, ",")
}

func noteNode(n *ast.Note) ASTNode {
	acc := ""
	if n.Accidental != ast.AccNone {
		acc = n.Accidental.String()
	}
	return astNode("note", n.Range,
		"pitch", n.Pitch.String(),
		"octave", strconv.Itoa(n.Octave),
		"accidental", acc,
		"duration", durationAttr(n.Duration),
		"decorations", decorationsAttr(n.Decorations))
}

func notesNodes(notes []ast.Note) []ASTNode {
	out := make([]ASTNode, 0, len(notes))
	for i := range notes {
		out = append(out, noteNode(&notes[i]))
	}
	return out
}

func elementNode(e ast.Element) ASTNode {
	switch e := e.(type) {
	case *ast.Note:
		return noteNode(e)
	case *ast.Rest:
		return astNode("rest", e.Range,
			"multi_measure", strconv.FormatBool(e.MultiMeasure),
			"duration", durationAttr(e.Duration),
			"decorations", decorationsAttr(e.Decorations))
	case *ast.Chord:
		n := astNode("chord", e.Range,
			"duration", durationAttr(e.Duration),
			"decorations", decorationsAttr(e.Decorations))
		n.Children = notesNodes(e.Notes)
		return n
	case *ast.BarLine:
		return astNode("bar_line", e.Range, "kind", e.Bar.String())
	case *ast.Tuplet:
		n := astNode("tuplet", e.Range, "ratio", strconv.FormatUint(uint64(e.Ratio), 10))
		n.Children = notesNodes(e.Notes)
		return n
	case *ast.Slur:
		n := astNode("slur", e.Range)
		for _, inner := range e.Elements {
			n.Children = append(n.Children, elementNode(inner))
		}
		return n
	case *ast.GraceNotes:
		n := astNode("grace_notes", e.Range)
		n.Children = notesNodes(e.Notes)
		return n
	case *ast.BrokenRhythm:
		return astNode("broken_rhythm", e.Range,
			"dotted_first", strconv.FormatBool(e.DottedFirst),
			"count", strconv.FormatUint(uint64(e.Count), 10))
	case *ast.Tie:
		return astNode("tie", e.Range)
	case *ast.InlineField:
		label := ""
		if e.Label != 0 {
			label = string(e.Label)
		}
		return astNode("inline_field", e.Range, "label", label, "value", e.Value)
	case *ast.Annotation:
		return astNode("annotation", e.Range, "text", e.Text)
	}
	return astNode(e.Kind().String(), e.Span())
}

// FormatASTPretty prints the tree with two-space indentation:
//
//	tune@0..12
//	  header@0..8
//	    field@0..3 label="X" kind="reference_number" value="1"
func FormatASTPretty(w io.Writer, t *ast.Tune) error {
	var b strings.Builder
	writeASTNode(&b, BuildASTTree(t), 0)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("diagfmt: write: %w", err)
	}
	return nil
}

var attrOrder = []string{"label", "kind", "value", "pitch", "octave", "accidental", "ratio",
	"multi_measure", "dotted_first", "count", "text", "duration", "decorations"}

func writeASTNode(b *strings.Builder, n ASTNode, depth int) {
	fmt.Fprintf(b, "%s%s@%d..%d", strings.Repeat("  ", depth), n.Type, n.Start, n.End)
	for _, key := range attrOrder {
		if v, ok := n.Attrs[key]; ok {
			fmt.Fprintf(b, " %s=%q", key, v)
		}
	}
	b.WriteByte('\n')
	for _, ch := range n.Children {
		writeASTNode(b, ch, depth+1)
	}
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, t *ast.Tune) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(BuildASTTree(t)); err != nil {
		return fmt.Errorf("diagfmt: encode ast: %w", err)
	}
	return nil
}
