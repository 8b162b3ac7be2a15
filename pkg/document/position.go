// Package document holds the text being refactored and converts between
// byte offsets and the line/column positions shown to users.
package document

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// ErrInvalidPosition is returned for positions or offsets outside the text.
var ErrInvalidPosition = errors.New("invalid position")

// Position is a 1-based line and 1-based column. Columns count runes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// LineIndex maps between byte offsets and positions of one text snapshot.
type LineIndex struct {
	text   string
	starts []int // byte offset of the first byte of each line
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// LineCount returns the number of lines. An empty text has one line.
func (li *LineIndex) LineCount() int { return len(li.starts) }

// LineText returns line n (1-based) without its line terminator.
func (li *LineIndex) LineText(n int) (string, error) {
	start, end, err := li.lineBounds(n)
	if err != nil {
		return "", err
	}
	return li.text[start:end], nil
}

// OffsetAt converts a position to a byte offset. The column may point one
// past the last rune of the line (end of line).
func (li *LineIndex) OffsetAt(pos Position) (int, error) {
	start, end, err := li.lineBounds(pos.Line)
	if err != nil {
		return 0, err
	}
	if pos.Column < 1 {
		return 0, fmt.Errorf("%w: column %d", ErrInvalidPosition, pos.Column)
	}

	offset := start
	for col := 1; col < pos.Column; col++ {
		if offset >= end {
			return 0, fmt.Errorf("%w: column %d past end of line %d", ErrInvalidPosition, pos.Column, pos.Line)
		}
		_, size := utf8.DecodeRuneInString(li.text[offset:end])
		offset += size
	}
	return offset, nil
}

// PositionAt converts a byte offset to a position. Offsets inside a
// multi-byte rune resolve to that rune's column.
func (li *LineIndex) PositionAt(offset int) (Position, error) {
	if offset < 0 || offset > len(li.text) {
		return Position{}, fmt.Errorf("%w: offset %d outside text of %d bytes", ErrInvalidPosition, offset, len(li.text))
	}

	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	start := li.starts[line]

	column := 1
	for i := start; i < offset; {
		_, size := utf8.DecodeRuneInString(li.text[i:])
		if i+size > offset {
			break
		}
		i += size
		column++
	}
	return Position{Line: line + 1, Column: column}, nil
}

// lineBounds returns the byte range of line n, excluding "\n" and a
// preceding "\r".
func (li *LineIndex) lineBounds(n int) (int, int, error) {
	if n < 1 || n > len(li.starts) {
		return 0, 0, fmt.Errorf("%w: line %d of %d", ErrInvalidPosition, n, len(li.starts))
	}
	start := li.starts[n-1]
	end := len(li.text)
	if n < len(li.starts) {
		end = li.starts[n] - 1
	}
	if end > start && li.text[end-1] == '\r' {
		end--
	}
	return start, end, nil
}
