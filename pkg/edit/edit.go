// Package edit plans the text edits of the extraction refactor and applies
// them to a document snapshot as one atomic batch.
package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrOutOfRange is returned when an operation's span lies outside the text.
	ErrOutOfRange = errors.New("edit span out of range")
	// ErrConflict is returned when two operations touch overlapping spans.
	ErrConflict = errors.New("conflicting edits")
)

// Kind identifies the operation variant.
type Kind int

const (
	Insert Kind = iota
	Delete
	Replace
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Operation is one text edit expressed against the original document.
// Insert has Start == End; Delete has empty Text.
type Operation struct {
	Kind  Kind   `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text,omitempty"`
}

// NewInsert returns an operation inserting text at offset.
func NewInsert(at int, text string) Operation {
	return Operation{Kind: Insert, Start: at, End: at, Text: text}
}

// NewDelete returns an operation removing [start, end).
func NewDelete(start, end int) Operation {
	return Operation{Kind: Delete, Start: start, End: end}
}

// NewReplace returns an operation replacing [start, end) with text.
func NewReplace(start, end int, text string) Operation {
	return Operation{Kind: Replace, Start: start, End: end, Text: text}
}

func (op Operation) String() string {
	switch op.Kind {
	case Insert:
		return fmt.Sprintf("insert@%d %q", op.Start, op.Text)
	case Delete:
		return fmt.Sprintf("delete[%d,%d)", op.Start, op.End)
	default:
		return fmt.Sprintf("%s[%d,%d) %q", op.Kind, op.Start, op.End, op.Text)
	}
}

// Validate checks the operations against a text of length n and returns
// them sorted by position. Inserts at the same offset keep their relative
// order and come before a delete or replace starting there.
func Validate(n int, ops []Operation) ([]Operation, error) {
	sorted := make([]Operation, len(ops))
	copy(sorted, ops)

	for _, op := range sorted {
		if op.Start < 0 || op.End < op.Start || op.End > n {
			return nil, fmt.Errorf("%w: %s in text of %d bytes", ErrOutOfRange, op, n)
		}
		if op.Kind == Insert && op.End != op.Start {
			return nil, fmt.Errorf("%w: insert with non-empty span %s", ErrOutOfRange, op)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Kind == Insert && sorted[j].Kind != Insert
	})

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.End > cur.Start {
			return nil, fmt.Errorf("%w: %s overlaps %s", ErrConflict, prev, cur)
		}
	}

	return sorted, nil
}

// Apply returns text with every operation applied. All spans refer to the
// original text; nothing is applied unless every operation is valid.
func Apply(text string, ops []Operation) (string, error) {
	sorted, err := Validate(len(text), ops)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(text) + growth(sorted))

	last := 0
	for _, op := range sorted {
		b.WriteString(text[last:op.Start])
		b.WriteString(op.Text)
		last = op.End
	}
	b.WriteString(text[last:])

	return b.String(), nil
}

func growth(ops []Operation) int {
	n := 0
	for _, op := range ops {
		n += len(op.Text) - (op.End - op.Start)
	}
	if n < 0 {
		return 0
	}
	return n
}
