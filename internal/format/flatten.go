package format

import (
	"slices"
	"strings"

	"chamber/internal/cst"
	"chamber/internal/syntax"
)

// headerOrder is the canonical field order. Labels missing here sort after
// all of them and before K:, which always closes the header.
const headerOrder = "XTCOAMLQPZNGH"

func headerRank(label byte) int {
	if label == 'K' {
		return len(headerOrder) + 1
	}
	if i := strings.IndexByte(headerOrder, label); i >= 0 {
		return i
	}
	return len(headerOrder)
}

// fieldGroup is a header field plus any stray tokens that follow it.
type fieldGroup struct {
	label byte
	toks  []*cst.Token
}

// flatten lists the significant tokens of tree in output order.
func flatten(tree *cst.Node, src string, cfg Config) []item {
	var items []item
	for _, ch := range tree.Children {
		switch {
		case ch.Kind() == syntax.Header:
			groups := headerGroups(ch.Node(), src)
			if cfg.NormalizeHeaderOrder {
				slices.SortStableFunc(groups, func(a, b fieldGroup) int {
					return headerRank(a.label) - headerRank(b.label)
				})
			}
			for gi, g := range groups {
				for ti, t := range g.toks {
					items = append(items, item{
						tok:    t,
						region: regionHeader,
						field:  gi,
						first:  ti == 0,
						last:   ti == len(g.toks)-1,
					})
				}
			}
		case ch.Kind() == syntax.Body:
			items = appendBody(items, ch.Node())
		case ch.Token() != nil:
			items = append(items, item{tok: ch.Token(), region: regionEnd, first: true, last: true})
		}
	}
	return items
}

func headerGroups(header *cst.Node, src string) []fieldGroup {
	var groups []fieldGroup
	for _, ch := range header.Children {
		if n := ch.Node(); n != nil && n.Kind == syntax.HeaderField {
			g := fieldGroup{}
			if lbl := n.ChildToken(syntax.FieldLabel); lbl != nil {
				if text := lbl.Text(src); text != "" {
					g.label = text[0]
				}
			}
			cst.Tokens(n, func(t *cst.Token) bool {
				g.toks = append(g.toks, t)
				return true
			})
			groups = append(groups, g)
			continue
		}
		// ошибочные токены между полями едут вместе с предыдущим полем
		var toks []*cst.Token
		if t := ch.Token(); t != nil {
			toks = append(toks, t)
		} else {
			cst.Tokens(ch.Node(), func(t *cst.Token) bool {
				toks = append(toks, t)
				return true
			})
		}
		if len(groups) == 0 {
			groups = append(groups, fieldGroup{})
		}
		last := &groups[len(groups)-1]
		last.toks = append(last.toks, toks...)
	}
	return groups
}

func appendBody(items []item, body *cst.Node) []item {
	for top, ch := range body.Children {
		var toks []*cst.Token
		if t := ch.Token(); t != nil {
			toks = append(toks, t)
		} else {
			cst.Tokens(ch.Node(), func(t *cst.Token) bool {
				toks = append(toks, t)
				return true
			})
		}
		for i, t := range toks {
			items = append(items, item{
				tok:     t,
				region:  regionBody,
				top:     top,
				topKind: ch.Kind(),
				first:   i == 0,
				last:    i == len(toks)-1,
			})
		}
	}
	return items
}
