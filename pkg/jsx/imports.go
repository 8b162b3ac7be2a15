package jsx

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// StyledIdentifier is the local name the generated declarations call.
const StyledIdentifier = "styled"

// ScanImports inspects the top-level import statements of a program.
// Imports nested in other statements (e.g. `declare module` blocks) are
// not considered.
func ScanImports(root *ts.Node, source []byte) Imports {
	var imports Imports
	if root == nil {
		return imports
	}

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() != "import_statement" {
			continue
		}

		imports.Count++
		imports.InsertAt = int(child.EndByte())

		if src := child.ChildByFieldName("source"); src != nil {
			imports.Sources = append(imports.Sources, stringValue(src, source))
		}

		for _, name := range importBindings(child, source) {
			if name == StyledIdentifier {
				imports.StyledBound = true
			}
		}
	}

	return imports
}

// importBindings returns the local names bound by an import statement.
func importBindings(stmt *ts.Node, source []byte) []string {
	var names []string

	for i := uint(0); i < stmt.ChildCount(); i++ {
		clause := stmt.Child(i)
		if clause.Kind() != "import_clause" {
			continue
		}

		for j := uint(0); j < clause.ChildCount(); j++ {
			part := clause.Child(j)
			switch part.Kind() {
			case "identifier":
				// import styled from "..."
				names = append(names, part.Utf8Text(source))
			case "namespace_import":
				// import * as styled from "..."
				for k := uint(0); k < part.ChildCount(); k++ {
					if id := part.Child(k); id.Kind() == "identifier" {
						names = append(names, id.Utf8Text(source))
					}
				}
			case "named_imports":
				names = append(names, namedBindings(part, source)...)
			}
		}
	}

	return names
}

// namedBindings handles { a, b as c }: the alias is the local name when present.
func namedBindings(node *ts.Node, source []byte) []string {
	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		spec := node.Child(i)
		if spec.Kind() != "import_specifier" {
			continue
		}
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			names = append(names, alias.Utf8Text(source))
			continue
		}
		if name := spec.ChildByFieldName("name"); name != nil {
			names = append(names, name.Utf8Text(source))
		}
	}
	return names
}
