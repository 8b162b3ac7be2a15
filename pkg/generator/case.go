// Package generator renders styled-component declarations and the import
// statement for the detected styling library.
package generator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// KebabCase converts a camelCase style key to its CSS property name:
// marginTop -> margin-top, WebkitTransition -> -webkit-transition,
// msTransform -> -ms-transform. Keys without upper-case letters are
// returned unchanged.
func KebabCase(key string) string {
	if strings.IndexFunc(key, unicode.IsUpper) < 0 {
		return key
	}

	var b strings.Builder
	b.Grow(len(key) + 4)

	// The ms vendor prefix is written lower-case in camelCase keys.
	if strings.HasPrefix(key, "ms") {
		if r, _ := utf8.DecodeRuneInString(key[2:]); unicode.IsUpper(r) {
			b.WriteByte('-')
		}
	}

	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
