package jsx

import (
	"errors"
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// ErrNoElement is returned when no markup element contains the offset.
var ErrNoElement = errors.New("no element found")

// Locate returns the innermost named element whose span contains offset
// (start <= offset <= end). When two siblings touch the offset, the one
// starting later wins. Fragments (<>...</>) and namespaced tags are never
// selected; their nearest named ancestor is.
//
// The returned element references tree nodes and is only valid while the
// tree is open.
func Locate(root *ts.Node, source []byte, offset int) (*Element, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: empty tree", ErrNoElement)
	}
	if offset < 0 || offset > len(source) {
		return nil, fmt.Errorf("%w: offset %d outside document of %d bytes", ErrNoElement, offset, len(source))
	}

	l := &locator{offset: offset, found: &locatorResult{depth: -1}}
	for i := uint(0); i < root.ChildCount(); i++ {
		Walk(l, root.Child(i))
	}

	if l.found.node == nil {
		return nil, fmt.Errorf("%w: offset %d is not inside a markup element", ErrNoElement, offset)
	}

	return newElement(l.found.node, source, l.found.depth), nil
}

type locatorResult struct {
	node  *ts.Node
	depth int
}

// locator prunes every subtree that does not contain the offset, so the
// walk only follows the path from the root down to the cursor.
type locator struct {
	offset int
	depth  int
	found  *locatorResult
}

func (l *locator) Visit(node *ts.Node) Visitor {
	if node == nil || !nodeSpan(node).Contains(l.offset) {
		return nil
	}
	if !isElementKind(node.Kind()) {
		return l
	}

	if isRefactorableTag(tagNameNode(node)) {
		better := l.depth > l.found.depth ||
			(l.depth == l.found.depth && node.StartByte() > l.found.node.StartByte())
		if better {
			l.found.node = node
			l.found.depth = l.depth
		}
	}

	return &locator{offset: l.offset, depth: l.depth + 1, found: l.found}
}

// Elements returns every named element in document order. Useful for
// listing refactoring targets.
func Elements(root *ts.Node, source []byte) []*Element {
	var out []*Element
	var collect func(node *ts.Node, depth int)
	collect = func(node *ts.Node, depth int) {
		next := depth
		if isElementKind(node.Kind()) {
			if isRefactorableTag(tagNameNode(node)) {
				out = append(out, newElement(node, source, depth))
			}
			next = depth + 1
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			collect(node.Child(i), next)
		}
	}
	if root != nil {
		collect(root, 0)
	}
	return out
}

// newElement builds the element model for a jsx_element or
// jsx_self_closing_element node.
func newElement(node *ts.Node, source []byte, depth int) *Element {
	opening := openingTag(node)
	nameNode := tagNameNode(node)

	el := &Element{
		TagName:     nameNode.Utf8Text(source),
		Span:        nodeSpan(node),
		OpenName:    nodeSpan(nameNode),
		SelfClosing: node.Kind() == "jsx_self_closing_element",
		Depth:       depth,
		node:        node,
		opening:     opening,
	}

	if !el.SelfClosing {
		if closing := closingTag(node); closing != nil {
			if closeName := elementName(closing); closeName != nil {
				span := nodeSpan(closeName)
				el.CloseName = &span
			}
		}
	}

	for i := uint(0); i < opening.ChildCount(); i++ {
		child := opening.Child(i)
		switch child.Kind() {
		case "jsx_attribute":
			el.Attributes = append(el.Attributes, Attribute{
				Name: attributeName(child, source),
				Span: nodeSpan(child),
			})
		case "jsx_expression":
			// {...props}
			el.Attributes = append(el.Attributes, Attribute{
				Name: "...",
				Span: nodeSpan(child),
			})
		}
	}

	return el
}

// openingTag returns the node holding the tag name and attributes: the
// jsx_opening_element of a jsx_element, or the self-closing node itself.
func openingTag(node *ts.Node) *ts.Node {
	if node.Kind() == "jsx_self_closing_element" {
		return node
	}
	if open := node.ChildByFieldName("open_tag"); open != nil {
		return open
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == "jsx_opening_element" {
			return child
		}
	}
	return nil
}

func closingTag(node *ts.Node) *ts.Node {
	if closing := node.ChildByFieldName("close_tag"); closing != nil {
		return closing
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == "jsx_closing_element" {
			return child
		}
	}
	return nil
}

// tagNameNode returns the name node of an element, nil for fragments.
func tagNameNode(element *ts.Node) *ts.Node {
	opening := openingTag(element)
	if opening == nil {
		return nil
	}
	return elementName(opening)
}

// elementName returns the name of an opening, closing or self-closing tag.
func elementName(tag *ts.Node) *ts.Node {
	if name := tag.ChildByFieldName("name"); name != nil {
		return name
	}
	for i := uint(0); i < tag.ChildCount(); i++ {
		child := tag.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			return child
		}
	}
	return nil
}

// isRefactorableTag accepts plain and dotted tag names. Namespaced tags
// (svg:rect) cannot be expressed as styled.<tag>.
func isRefactorableTag(name *ts.Node) bool {
	if name == nil {
		return false
	}
	switch name.Kind() {
	case "identifier", "member_expression", "nested_identifier":
		return true
	default:
		return false
	}
}

// attributeName returns the name of a jsx_attribute node.
func attributeName(attr *ts.Node, source []byte) string {
	for i := uint(0); i < attr.ChildCount(); i++ {
		child := attr.Child(i)
		switch child.Kind() {
		case "property_identifier", "identifier", "jsx_namespace_name":
			return child.Utf8Text(source)
		}
	}
	return ""
}
