package generator

import (
	"sort"
	"strings"

	"github.com/gnana997/styco/pkg/jsx"
)

// Options controls how declarations are rendered.
type Options struct {
	// OrderByName sorts style lines by their kebab-case key.
	OrderByName bool
	// ObjectSyntax emits styled.tag({ ... }) instead of a tagged template.
	ObjectSyntax bool
}

// Indent is the indentation of every style line.
const Indent = "  "

// Constructor returns the styled construction for a tag: styled.div for
// intrinsic tags, styled(Card) for component references.
func Constructor(tag string) string {
	if jsx.IsIntrinsicTag(tag) {
		return jsx.StyledIdentifier + "." + tag
	}
	return jsx.StyledIdentifier + "(" + tag + ")"
}

// Synthesize renders the declaration of a new styled component named name
// wrapping tag, with one style entry per property. Nil or empty props give
// an empty style body. The result ends with ";\n".
//
//	const Box = styled.div`
//	  margin-top: 12px;
//	`;
func Synthesize(tag, name string, props []jsx.Property, opts Options) string {
	props = orderProperties(props, opts.OrderByName)

	var b strings.Builder
	b.WriteString("const ")
	b.WriteString(name)
	b.WriteString(" = ")
	b.WriteString(Constructor(tag))

	if opts.ObjectSyntax {
		writeObjectBody(&b, props)
	} else {
		writeTemplateBody(&b, props)
	}

	b.WriteString(";\n")
	return b.String()
}

// orderProperties returns props, sorted by kebab-case key when requested.
// The input slice is never modified.
func orderProperties(props []jsx.Property, byName bool) []jsx.Property {
	if !byName || len(props) < 2 {
		return props
	}
	sorted := make([]jsx.Property, len(props))
	copy(sorted, props)
	sort.SliceStable(sorted, func(i, j int) bool {
		return KebabCase(sorted[i].Key) < KebabCase(sorted[j].Key)
	})
	return sorted
}

// DeclarationLine renders one `key: value;` line of the template form,
// without indentation or newline.
func DeclarationLine(p jsx.Property) string {
	return KebabCase(p.Key) + ": " + templateText(p) + ";"
}

func writeTemplateBody(b *strings.Builder, props []jsx.Property) {
	b.WriteByte('`')
	if len(props) > 0 {
		b.WriteByte('\n')
		for _, p := range props {
			b.WriteString(Indent)
			b.WriteString(DeclarationLine(p))
			b.WriteByte('\n')
		}
	}
	b.WriteByte('`')
}

func writeObjectBody(b *strings.Builder, props []jsx.Property) {
	if len(props) == 0 {
		b.WriteString("({})")
		return
	}

	b.WriteString("({\n")
	for i, p := range props {
		b.WriteString(Indent)
		b.WriteString(objectKey(p.Key))
		b.WriteString(": ")
		b.WriteString(objectValue(p))
		if i < len(props)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("})")
}

// templateText returns a value as it must appear inside a template literal.
// Template values are already raw template text.
func templateText(p jsx.Property) string {
	if p.Kind != jsx.ValueString {
		return p.Value
	}
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")
	return r.Replace(p.Value)
}

func objectKey(key string) string {
	if IsIdentifierName(key) {
		return key
	}
	return quote(key)
}

func objectValue(p jsx.Property) string {
	switch p.Kind {
	case jsx.ValueNumber:
		return p.Value
	case jsx.ValueTemplate:
		return "`" + p.Value + "`"
	default:
		return quote(p.Value)
	}
}

// quote renders s as a double-quoted string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
