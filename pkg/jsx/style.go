package jsx

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// StyleAttributeName is the attribute the extractor looks for.
const StyleAttributeName = "style"

// ExtractStyle returns the element's literal inline style, or nil when the
// first `style` attribute is missing or is not written as style={{ ... }}.
// A nil result is a normal outcome, not an error.
//
// Only entries whose value is a string literal, a numeric literal, or a
// template literal without substitutions are kept, in source order. Every
// other entry is counted in Skipped and otherwise ignored.
func ExtractStyle(el *Element, source []byte) *StyleAttribute {
	if el == nil || el.opening == nil {
		return nil
	}

	attr := findAttribute(el.opening, source, StyleAttributeName)
	if attr == nil {
		return nil
	}

	obj := objectValue(attr)
	if obj == nil {
		return nil
	}

	style := &StyleAttribute{Span: nodeSpan(attr), Properties: []Property{}}

	for i := uint(0); i < obj.NamedChildCount(); i++ {
		entry := obj.NamedChild(i)
		switch entry.Kind() {
		case "comment":
			continue
		case "pair":
			if prop, ok := extractPair(entry, source); ok {
				style.Properties = append(style.Properties, prop)
				continue
			}
		}
		// shorthand_property_identifier, spread_element, method_definition,
		// and pairs with non-literal keys or values.
		style.Skipped++
	}

	return style
}

// findAttribute returns the first jsx_attribute with the given name.
func findAttribute(opening *ts.Node, source []byte, name string) *ts.Node {
	for i := uint(0); i < opening.ChildCount(); i++ {
		child := opening.Child(i)
		if child.Kind() == "jsx_attribute" && attributeName(child, source) == name {
			return child
		}
	}
	return nil
}

// objectValue returns the object of an attribute written as name={{ ... }}.
func objectValue(attr *ts.Node) *ts.Node {
	for i := uint(0); i < attr.ChildCount(); i++ {
		child := attr.Child(i)
		if child.Kind() != "jsx_expression" {
			continue
		}
		for j := uint(0); j < child.NamedChildCount(); j++ {
			expr := child.NamedChild(j)
			if expr.Kind() == "comment" {
				continue
			}
			if expr.Kind() == "object" {
				return expr
			}
			return nil
		}
	}
	return nil
}

// extractPair converts key: value when both sides are literals.
func extractPair(pair *ts.Node, source []byte) (Property, bool) {
	keyNode := pair.ChildByFieldName("key")
	valueNode := pair.ChildByFieldName("value")
	if keyNode == nil || valueNode == nil {
		return Property{}, false
	}

	var key string
	switch keyNode.Kind() {
	case "property_identifier":
		key = keyNode.Utf8Text(source)
	case "string":
		// 'margin-top': ... or '--accent': ...
		key = stringValue(keyNode, source)
	default:
		return Property{}, false
	}
	if key == "" {
		return Property{}, false
	}

	switch valueNode.Kind() {
	case "string":
		return Property{Key: key, Value: stringValue(valueNode, source), Kind: ValueString}, true
	case "number":
		value, ok := normalizeNumber(valueNode.Utf8Text(source))
		if !ok {
			return Property{}, false
		}
		return Property{Key: key, Value: value, Kind: ValueNumber}, true
	case "template_string":
		value, ok := templateValue(valueNode, source)
		if !ok {
			return Property{}, false
		}
		return Property{Key: key, Value: value, Kind: ValueTemplate}, true
	default:
		return Property{}, false
	}
}
