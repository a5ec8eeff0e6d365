package engine

import (
	"strconv"
	"strings"
)

// TemplatePart is a run of literal text or a group reference in a
// replacement template.
type TemplatePart struct {
	Literal string
	// Group is the referenced group number, or -1 for literal text.
	Group int
	// Name is set when the reference was written as ${name}.
	Name string
}

// IsLiteral reports whether p is literal text.
func (p TemplatePart) IsLiteral() bool {
	return p.Group < 0
}

// Template is a parsed replacement string in the java.util.regex syntax:
// $n refers to group n, ${name} to a named group and a backslash takes the
// next character literally.
type Template struct {
	Parts []TemplatePart
}

// ParseTemplate parses s for a pattern with groupCount groups.
// groupIndex resolves group names and returns -1 for unknown names.
//
// The digits after $ are read greedily as long as they name an existing
// group, so with ten groups "$10" is group 10 and "$11" is group 1
// followed by "1".
func ParseTemplate(s string, groupCount int, groupIndex func(string) int) (*Template, error) {
	t := &Template{}
	src := []rune(s)
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.Parts = append(t.Parts, TemplatePart{Literal: lit.String(), Group: -1})
			lit.Reset()
		}
	}
	fail := func(pos int, msg string) (*Template, error) {
		return nil, &TemplateError{Template: s, Offset: pos, Msg: msg}
	}
	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '\\':
			i++
			if i == len(src) {
				return fail(i-1, "character to be escaped is missing")
			}
			lit.WriteRune(src[i])
			i++
		case '$':
			start := i
			i++
			if i == len(src) {
				return fail(start, "Illegal group reference: group index is missing")
			}
			if src[i] == '{' {
				i++
				nameStart := i
				for i < len(src) && isTemplateNameRune(src[i]) {
					i++
				}
				name := string(src[nameStart:i])
				if name == "" {
					return fail(start, "named capturing group has 0 length name")
				}
				if i == len(src) || src[i] != '}' {
					return fail(start, "named capturing group is missing trailing '}'")
				}
				i++
				g := groupIndex(name)
				if g < 0 {
					return fail(start, "No group with name {"+name+"}")
				}
				flush()
				t.Parts = append(t.Parts, TemplatePart{Group: g, Name: name})
				continue
			}
			if src[i] < '0' || src[i] > '9' {
				return fail(start, "Illegal group reference")
			}
			g := int(src[i] - '0')
			i++
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				next := g*10 + int(src[i]-'0')
				if next > groupCount {
					break
				}
				g = next
				i++
			}
			if g > groupCount {
				return fail(start, "No group "+strconv.Itoa(g))
			}
			flush()
			t.Parts = append(t.Parts, TemplatePart{Group: g})
		default:
			lit.WriteRune(c)
			i++
		}
	}
	flush()
	return t, nil
}

func isTemplateNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Expand appends the template to buf. group returns the text of a group and
// whether it participated in the match; groups that did not participate
// expand to nothing.
func (t *Template) Expand(buf *strings.Builder, group func(int) (string, bool)) {
	for _, p := range t.Parts {
		if p.IsLiteral() {
			buf.WriteString(p.Literal)
			continue
		}
		if s, ok := group(p.Group); ok {
			buf.WriteString(s)
		}
	}
}

// String renders t so that parsing it again yields the same parts.
func (t *Template) String() string {
	var b strings.Builder
	for i, p := range t.Parts {
		if !p.IsLiteral() {
			if p.Name != "" {
				b.WriteString("${" + p.Name + "}")
			} else {
				b.WriteString("$" + strconv.Itoa(p.Group))
			}
			continue
		}
		for j, r := range p.Literal {
			switch {
			case r == '\\' || r == '$':
				b.WriteByte('\\')
			case j == 0 && r >= '0' && r <= '9' && i > 0 && !t.Parts[i-1].IsLiteral() && t.Parts[i-1].Name == "":
				// keep the digit out of the preceding group number
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
