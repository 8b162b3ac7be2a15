package jsx

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// stringValue returns the decoded content of a string literal node.
func stringValue(node *ts.Node, source []byte) string {
	var b strings.Builder
	parts := 0

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string_fragment", "html_character_reference":
			b.WriteString(child.Utf8Text(source))
			parts++
		case "escape_sequence":
			b.WriteString(decodeEscape(child.Utf8Text(source)))
			parts++
		}
	}
	if parts > 0 {
		return b.String()
	}

	// '' has no fragments; anything else unexpected falls back to the raw text.
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// templateValue returns the raw text of a template literal, or false when
// it contains ${...} substitutions.
func templateValue(node *ts.Node, source []byte) (string, bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "template_substitution" {
			return "", false
		}
	}
	text := node.Utf8Text(source)
	if len(text) < 2 {
		return "", false
	}
	return text[1 : len(text)-1], true
}

// normalizeNumber renders a numeric literal the way JavaScript prints the
// resulting number value: 1.50 -> 1.5, 0x10 -> 16, 1_000 -> 1000.
// BigInt literals (10n) are not numbers and are rejected.
func normalizeNumber(text string) (string, bool) {
	t := strings.ReplaceAll(text, "_", "")
	if t == "" || strings.HasSuffix(t, "n") {
		return "", false
	}

	lower := strings.ToLower(t)
	if len(lower) > 2 && lower[0] == '0' && strings.ContainsRune("xob", rune(lower[1])) {
		n, err := strconv.ParseUint(lower, 0, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatUint(n, 10), true
	}

	// Legacy octal (017) as sloppy-mode JavaScript reads it.
	if len(t) > 1 && t[0] == '0' && strings.Trim(t, "01234567") == "" {
		n, err := strconv.ParseUint(t[1:], 8, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatUint(n, 10), true
	}

	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return "", false
	}
	return formatJSNumber(f), true
}

// formatJSNumber mirrors Number.prototype.toString for finite values.
func formatJSNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// decodeEscape decodes one JavaScript escape sequence such as \n or \u{1F600}.
func decodeEscape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}

	body := seq[1:]
	switch body[0] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(body) == 1 {
			return "\x00"
		}
	case '\n', '\r', 0xe2:
		// Line continuation (also U+2028/U+2029).
		return ""
	case 'x':
		if n, err := strconv.ParseUint(body[1:], 16, 8); err == nil {
			return string(rune(n))
		}
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if n, err := strconv.ParseUint(hex, 16, 32); err == nil && utf8.ValidRune(rune(n)) {
			return string(rune(n))
		}
	}

	// \' \" \\ and any other escaped character stand for themselves.
	return body
}
