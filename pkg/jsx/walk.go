package jsx

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node *ts.Node) (w Visitor)
}

// Walk traverses a tree-sitter subtree in depth-first order, in the manner
// of go/ast.Walk.
func Walk(v Visitor, node *ts.Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(v, node.Child(i))
	}

	v.Visit(nil)
}

// inspector adapts a function to the Visitor interface.
type inspector func(*ts.Node) bool

func (f inspector) Visit(node *ts.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses a subtree, calling f for every node. If f returns
// false, the children of that node are skipped. f is called with nil
// after the children of a visited node.
func Inspect(node *ts.Node, f func(*ts.Node) bool) {
	Walk(inspector(f), node)
}

// nodeSpan converts a node's byte range to a Span.
func nodeSpan(node *ts.Node) Span {
	return Span{Start: int(node.StartByte()), End: int(node.EndByte())}
}

// isElementKind reports whether kind is one of the two markup element kinds.
func isElementKind(kind string) bool {
	return kind == "jsx_element" || kind == "jsx_self_closing_element"
}
