// Package jsx models JSX markup elements found in a tree-sitter tree and
// implements the element locator and the inline style extractor.
package jsx

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Span is a half-open byte range [Start, End) into the document text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether offset lies within the span, ends included.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// Attribute is one attribute of an opening tag, in source order.
type Attribute struct {
	Name string `json:"name"`
	Span Span   `json:"span"`
}

// Element is a markup element (jsx_element or jsx_self_closing_element).
type Element struct {
	TagName     string      `json:"tag_name"`
	Span        Span        `json:"span"`
	OpenName    Span        `json:"open_name"`
	CloseName   *Span       `json:"close_name,omitempty"` // nil for self-closing elements
	SelfClosing bool        `json:"self_closing"`
	Attributes  []Attribute `json:"attributes"`
	Depth       int         `json:"depth"` // number of enclosing elements

	node    *ts.Node
	opening *ts.Node
}

// Node returns the underlying tree-sitter node. Valid while the tree is open.
func (e *Element) Node() *ts.Node { return e.node }

// IsIntrinsic reports whether the tag names a host element (div, span, ...).
// Intrinsic tags start with a lower-case letter.
func (e *Element) IsIntrinsic() bool {
	return IsIntrinsicTag(e.TagName)
}

// IsIntrinsicTag reports whether tag is a plain identifier starting with a
// lower-case letter. Dotted names (motion.div) are component references.
func IsIntrinsicTag(tag string) bool {
	if tag == "" || strings.Contains(tag, ".") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tag)
	return unicode.IsLower(r)
}

// ValueKind tells which literal form a style value was written in.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueTemplate
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Property is one extracted style entry. Key keeps its source spelling
// (camelCase); Value is the literal content without quotes. Numbers are
// normalized the way JavaScript prints them.
type Property struct {
	Key   string    `json:"key"`
	Value string    `json:"value"`
	Kind  ValueKind `json:"kind"`
}

// IsNumeric reports whether the value came from a numeric literal.
func (p Property) IsNumeric() bool { return p.Kind == ValueNumber }

// StyleAttribute is a literal inline style object on an element.
// Span covers the whole attribute, `style={{...}}` included.
type StyleAttribute struct {
	Span       Span       `json:"span"`
	Properties []Property `json:"properties"`
	// Skipped counts entries left out because their value (or key) is not
	// a plain literal: identifiers, calls, spreads, interpolated templates.
	Skipped int `json:"skipped"`
}

// Imports summarizes the document's top-level import statements.
type Imports struct {
	// InsertAt is the end offset of the last import statement, 0 if none.
	InsertAt int `json:"insert_at"`
	// Count is the number of top-level import statements.
	Count int `json:"count"`
	// Sources lists module paths in source order.
	Sources []string `json:"sources"`
	// StyledBound is true when some import binds the local name "styled".
	StyledBound bool `json:"styled_bound"`
}
