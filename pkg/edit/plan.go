package edit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/styco/pkg/jsx"
)

// ErrInvalidPlan is returned when the planner input is inconsistent.
var ErrInvalidPlan = errors.New("invalid edit plan")

// PlanInput carries everything the planner needs. All offsets refer to the
// original document.
type PlanInput struct {
	// InsertAt is where the declaration goes: the end of the last import,
	// or 0 when the document has no imports.
	InsertAt int
	// AfterImports is true when InsertAt is the end of an import statement.
	AfterImports bool
	// Declaration is the synthesized component, ending in a newline.
	Declaration string
	// Import is an optional import statement placed before the declaration.
	Import string
	// Style is the span of the style attribute to delete, if any.
	Style *jsx.Span
	// OpenName and CloseName are the tag name spans to rename.
	OpenName  jsx.Span
	CloseName *jsx.Span
	// NewName is the identifier of the new component.
	NewName string
}

// Plan returns the refactor edits in this order: insert the declaration
// (and import), delete the style attribute, rename the opening tag, rename
// the closing tag. Missing parts are skipped.
func Plan(in PlanInput) ([]Operation, error) {
	if in.NewName == "" {
		return nil, fmt.Errorf("%w: empty component name", ErrInvalidPlan)
	}
	if in.OpenName.Len() <= 0 {
		return nil, fmt.Errorf("%w: empty opening tag name span %s", ErrInvalidPlan, in.OpenName)
	}

	ops := make([]Operation, 0, 4)
	ops = append(ops, NewInsert(in.InsertAt, insertionText(in)))

	if in.Style != nil {
		ops = append(ops, NewDelete(in.Style.Start, in.Style.End))
	}

	ops = append(ops, NewReplace(in.OpenName.Start, in.OpenName.End, in.NewName))

	if in.CloseName != nil {
		ops = append(ops, NewReplace(in.CloseName.Start, in.CloseName.End, in.NewName))
	}

	return ops, nil
}

// insertionText lays out the import and declaration with blank lines
// separating them from the surrounding code.
//
// After an import the text starts on a new line and reuses the line break
// that followed the import to end the declaration:
//
//	import React from "react";
//	import styled from "styled-components";
//
//	const Box = styled.div`...`;
//
// At the document start the declaration is followed by a blank line.
func insertionText(in PlanInput) string {
	var b strings.Builder

	if in.AfterImports {
		b.WriteString("\n")
		if in.Import != "" {
			b.WriteString(in.Import)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSuffix(in.Declaration, "\n"))
		return b.String()
	}

	if in.Import != "" {
		b.WriteString(in.Import)
		b.WriteString("\n\n")
	}
	b.WriteString(in.Declaration)
	if !strings.HasSuffix(in.Declaration, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
