package cst

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Print reproduces the source text of the tree.
func Print(tree *Node, src string) string {
	var b strings.Builder
	b.Grow(len(src))
	Tokens(tree, func(t *Token) bool {
		writeToken(&b, t, src)
		return true
	})
	return b.String()
}

// Write streams the source text of the tree to w.
func Write(w io.Writer, tree *Node, src string) error {
	bw := bufio.NewWriter(w)
	Tokens(tree, func(t *Token) bool {
		writeToken(bw, t, src)
		return true
	})
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cst: write: %w", err)
	}
	return nil
}

type stringWriter interface {
	WriteString(s string) (int, error)
}

func writeToken(w stringWriter, t *Token, src string) {
	for _, tr := range t.Leading {
		_, _ = w.WriteString(tr.Text(src))
	}
	_, _ = w.WriteString(t.Text(src))
	for _, tr := range t.Trailing {
		_, _ = w.WriteString(tr.Text(src))
	}
}

// Dump renders an indented debug view of the tree:
//
//	TUNE@0..12
//	  HEADER@0..4
//	    HEADER_FIELD@0..4
//	      FIELD_LABEL@0..1 "X"
func Dump(tree *Node, src string) string {
	var b strings.Builder
	dumpNodeOpts(&b, tree, src, 0, false)
	return b.String()
}

// DumpTrivia is Dump with leading and trailing trivia listed under each token.
func DumpTrivia(tree *Node, src string) string {
	var b strings.Builder
	dumpNodeOpts(&b, tree, src, 0, true)
	return b.String()
}

func dumpNodeOpts(b *strings.Builder, n *Node, src string, depth int, trivia bool) {
	indent := strings.Repeat("  ", depth)
	rng, _ := n.VisibleRange()
	fmt.Fprintf(b, "%s%s@%s\n", indent, n.Kind, rng)
	for _, ch := range n.Children {
		if ch.node != nil {
			dumpNodeOpts(b, ch.node, src, depth+1, trivia)
			continue
		}
		t := ch.token
		fmt.Fprintf(b, "%s  %s@%s %s\n", indent, t.Kind, t.Range, strconv.Quote(t.Text(src)))
		if !trivia {
			continue
		}
		for _, tr := range t.Leading {
			fmt.Fprintf(b, "%s    leading %s %s\n", indent, tr.Kind, strconv.Quote(tr.Text(src)))
		}
		for _, tr := range t.Trailing {
			fmt.Fprintf(b, "%s    trailing %s %s\n", indent, tr.Kind, strconv.Quote(tr.Text(src)))
		}
	}
}
