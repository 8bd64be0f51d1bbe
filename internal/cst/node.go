package cst

import (
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// Element is a child of a Node: exactly one of the two pointers is set.
type Element struct {
	node  *Node
	token *Token
}

// NodeElement wraps a node.
func NodeElement(n *Node) Element { return Element{node: n} }

// TokenElement wraps a token.
func TokenElement(t *Token) Element { return Element{token: t} }

// Node returns the wrapped node or nil.
func (e Element) Node() *Node { return e.node }

// Token returns the wrapped token or nil.
func (e Element) Token() *Token { return e.token }

// IsNode reports whether the element is a composite.
func (e Element) IsNode() bool { return e.node != nil }

// Kind returns the kind of whichever value is wrapped.
func (e Element) Kind() syntax.Kind {
	if e.node != nil {
		return e.node.Kind
	}
	if e.token != nil {
		return e.token.Kind
	}
	return syntax.Error
}

// Node is a composite tree node. Children are kept in source order.
type Node struct {
	Kind     syntax.Kind
	Children []Element
}

// NewNode creates a node of the given kind.
func NewNode(kind syntax.Kind, children ...Element) *Node {
	return &Node{Kind: kind, Children: children}
}

// Push appends a child token.
func (n *Node) Push(t *Token) { n.Children = append(n.Children, TokenElement(t)) }

// PushNode appends a child node; nil is ignored.
func (n *Node) PushNode(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, NodeElement(child))
}

// FirstToken returns the first token in the subtree, or nil.
func (n *Node) FirstToken() *Token {
	for _, ch := range n.Children {
		if ch.token != nil {
			return ch.token
		}
		if t := ch.node.FirstToken(); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last token in the subtree, or nil.
func (n *Node) LastToken() *Token {
	for i := len(n.Children) - 1; i >= 0; i-- {
		ch := n.Children[i]
		if ch.token != nil {
			return ch.token
		}
		if t := ch.node.LastToken(); t != nil {
			return t
		}
	}
	return nil
}

// VisibleRange spans the first to the last token of the subtree, without the
// outer trivia. An empty node yields an empty range at 0 and ok=false.
func (n *Node) VisibleRange() (source.Range, bool) {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil {
		return source.Range{}, false
	}
	return first.Range.Cover(last.Range), true
}

// FullRange is like VisibleRange but includes the outer trivia.
func (n *Node) FullRange() (source.Range, bool) {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil {
		return source.Range{}, false
	}
	return first.FullRange().Cover(last.FullRange()), true
}

// ChildNodes returns direct child nodes of the given kind.
func (n *Node) ChildNodes(kind syntax.Kind) []*Node {
	var out []*Node
	for _, ch := range n.Children {
		if ch.node != nil && ch.node.Kind == kind {
			out = append(out, ch.node)
		}
	}
	return out
}

// ChildNode returns the first direct child node of the given kind.
func (n *Node) ChildNode(kind syntax.Kind) *Node {
	for _, ch := range n.Children {
		if ch.node != nil && ch.node.Kind == kind {
			return ch.node
		}
	}
	return nil
}

// ChildToken returns the first direct child token of the given kind.
func (n *Node) ChildToken(kind syntax.Kind) *Token {
	for _, ch := range n.Children {
		if ch.token != nil && ch.token.Kind == kind {
			return ch.token
		}
	}
	return nil
}

// Walk visits n and its descendant nodes depth first in source order.
// Returning false from fn skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, ch := range n.Children {
		if ch.node != nil {
			Walk(ch.node, fn)
		}
	}
}

// Tokens calls fn for every token of the subtree in source order until fn
// returns false.
func Tokens(n *Node, fn func(*Token) bool) bool {
	if n == nil {
		return true
	}
	for _, ch := range n.Children {
		if ch.token != nil {
			if !fn(ch.token) {
				return false
			}
			continue
		}
		if !Tokens(ch.node, fn) {
			return false
		}
	}
	return true
}
