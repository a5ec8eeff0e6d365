package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/coregx/coregex"
	"github.com/dlclark/regexp2"

	"github.com/auvred/revregex/syntax"
)

// A dialect is the pattern language of a backend.
type dialect struct {
	name string
	// re2 marks the RE2 language, which has no back-references,
	// lookaround, atomic groups or possessive quantifiers.
	re2 bool
}

var (
	dotNet = &dialect{name: "regexp2"}
	re2    = &dialect{name: "coregex", re2: true}
)

func (d *dialect) codePoint(r rune) string {
	if d.re2 {
		return fmt.Sprintf(`\x{%X}`, r)
	}
	if r > 0xFFFF {
		return string(r)
	}
	return fmt.Sprintf(`\u%04X`, r)
}

func (d *dialect) classRune(r rune) string {
	switch {
	case strings.ContainsRune(`\]-^[`, r):
		return `\` + string(r)
	case !unicode.IsPrint(r):
		return d.codePoint(r)
	}
	return string(r)
}

func (d *dialect) literal(r rune) string {
	if !unicode.IsPrint(r) {
		return d.codePoint(r)
	}
	return d.quote(string(r))
}

func (d *dialect) quote(s string) string {
	if d.re2 {
		return coregex.QuoteMeta(s)
	}
	return regexp2.Escape(s)
}

// translator rewrites a parsed Java pattern into a dialect. Java meanings
// that differ between engines (line terminators, ASCII classes, anchors)
// are spelled out explicitly, so the result depends on no engine option
// other than case folding, which is written inline.
type translator struct {
	d   *dialect
	err error
}

// translate renders re in dialect d. The capturing groups of the result are
// numbered as in re.
func translate(d *dialect, re *syntax.Regexp) (string, error) {
	t := &translator{d: d}
	if d.re2 && re.Flags&(syntax.CanonEq|syntax.UnicodeCharacterClass) != 0 {
		return "", &UnsupportedError{Engine: d.name, Construct: "flags " + re.Flags.String()}
	}
	s := t.seq(re.Nodes, re.Flags)
	if t.err != nil {
		return "", t.err
	}
	if re.Flags&syntax.CaseInsensitive != 0 {
		s = "(?i)" + s
	}
	return s, nil
}

func (t *translator) unsupported(n *syntax.Node, construct string) string {
	if t.err == nil {
		t.err = &UnsupportedError{Engine: t.d.name, Construct: construct, Offset: n.Pos}
	}
	return ""
}

func (t *translator) seq(nodes []*syntax.Node, f syntax.Flags) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(t.node(n, f))
	}
	return b.String()
}

// scope opens a group that switches case folding from outer to inner.
func scope(outer, inner syntax.Flags) string {
	o, i := outer&syntax.CaseInsensitive != 0, inner&syntax.CaseInsensitive != 0
	switch {
	case i && !o:
		return "(?i:"
	case o && !i:
		return "(?-i:"
	}
	return "(?:"
}

func (t *translator) node(n *syntax.Node, f syntax.Flags) string {
	switch n.Op {
	case syntax.OpAlternate:
		return "|"
	case syntax.OpFlags:
		inner := syntax.ApplyFlags(f, n.Flags)
		if len(n.Sub) == 0 {
			return ""
		}
		return scope(f, inner) + t.seq(n.Sub, inner) + ")"
	case syntax.OpQuote:
		return t.quote(n)
	}
	atom := t.atom(n, f)
	q := n.Quant
	if q.IsZero() {
		return atom
	}
	if n.Op != syntax.OpGroup {
		atom = "(?:" + atom + ")"
	}
	if t.d.re2 {
		if q.Mode == syntax.Possessive {
			return t.unsupported(n, "possessive quantifier "+q.Text)
		}
		if q.Min > 1000 || q.Max > 1000 {
			return t.unsupported(n, "repetition count above 1000")
		}
	}
	if q.Mode == syntax.Possessive {
		return "(?>" + atom + q.Base() + ")"
	}
	return atom + q.Text
}

// quote writes \Q...\E content. A quantifier applies to its last rune.
func (t *translator) quote(n *syntax.Node) string {
	r := []rune(n.Text)
	if n.Quant.IsZero() || len(r) == 0 {
		return t.d.quote(n.Text)
	}
	last := &syntax.Node{Op: syntax.OpLiteral, Pos: n.Pos, Rune: r[len(r)-1], Quant: n.Quant}
	return t.d.quote(string(r[:len(r)-1])) + t.node(last, 0)
}

func (t *translator) atom(n *syntax.Node, f syntax.Flags) string {
	switch n.Op {
	case syntax.OpLiteral:
		return t.d.literal(n.Rune)
	case syntax.OpDot:
		return t.dot(f)
	case syntax.OpClass:
		return t.class(n, n.Class, f)
	case syntax.OpAnchor:
		return t.anchor(n, f)
	case syntax.OpEscape:
		return t.escape(n, f)
	case syntax.OpBackRef:
		if t.d.re2 {
			return t.unsupported(n, "back-reference "+n.Text)
		}
		return `(?:\` + strconv.Itoa(n.Group) + ")"
	case syntax.OpGroup:
		return t.group(n, f)
	}
	panic(fmt.Sprintf("engine: unexpected node op %d", n.Op))
}

func (t *translator) group(n *syntax.Node, f syntax.Flags) string {
	var open string
	inner := f
	switch n.Kind {
	case syntax.GroupCapture:
		open = "("
		if t.d.re2 && n.Name != "" {
			open = "(?P<" + n.Name + ">"
		}
	case syntax.GroupNonCapture:
		open = "(?:"
	case syntax.GroupFlags:
		inner = syntax.ApplyFlags(f, n.Flags)
		open = scope(f, inner)
	case syntax.GroupAtomic:
		open = "(?>"
	case syntax.GroupLookahead:
		open = "(?="
	case syntax.GroupNegLookahead:
		open = "(?!"
	case syntax.GroupLookbehind:
		open = "(?<="
	case syntax.GroupNegLookbehind:
		open = "(?<!"
	}
	if t.d.re2 && n.Kind >= syntax.GroupAtomic && n.Kind <= syntax.GroupNegLookbehind {
		return t.unsupported(n, "group "+open)
	}
	return open + t.seq(n.Sub, inner) + ")"
}

func (t *translator) dot(f syntax.Flags) string {
	switch {
	case f&syntax.DotAll != 0:
		if t.d.re2 {
			return "(?s:.)"
		}
		return `[\s\S]`
	case f&syntax.UnixLines != 0:
		return `[^\n]`
	}
	return lineTerminators.negate().expr(t.d)
}

func (t *translator) anchor(n *syntax.Node, f syntax.Flags) string {
	unix := f&syntax.UnixLines != 0
	multiline := f&syntax.Multiline != 0
	switch {
	case n.Text == `\z`:
		return `\z`
	case t.d.re2 && n.Text == "$" && multiline && unix:
		return "(?m:$)"
	case t.d.re2:
		return t.unsupported(n, "anchor "+n.Text)
	case n.Text == `\A`, n.Text == "^" && !multiline:
		return `\A`
	case n.Text == "^" && unix:
		return `(?:\A|(?<=\n)(?!\z))`
	case n.Text == "^":
		return `(?:\A|(?<=` + lineTerminators.expr(t.d) + `)(?!(?<=\r)\n)(?!\z))`
	case n.Text == "$" && multiline && unix:
		return `(?=\n|\z)`
	case n.Text == "$" && multiline:
		return `(?=` + lineTerminators.expr(t.d) + `|\z)(?!(?<=\r)\n)`
	case unix:
		// $ and \Z outside multiline mode
		return `(?=\n?\z)`
	}
	return `(?=(?:\r\n|` + lineTerminators.expr(t.d) + `)?\z)(?!(?<=\r)\n)`
}

func (t *translator) escape(n *syntax.Node, f syntax.Flags) string {
	switch n.Text {
	case `\b`, `\B`, `\G`:
		if t.d.re2 {
			return t.unsupported(n, "assertion "+n.Text)
		}
		return n.Text
	case `\R`:
		if t.d.re2 {
			return t.unsupported(n, `linebreak \R`)
		}
		return `(?>\r\n|` + verticalSpace.expr(t.d) + ")"
	case `\X`:
		if t.d.re2 {
			return t.unsupported(n, `grapheme cluster \X`)
		}
		return `(?>\r\n|\P{M}\p{M}*)`
	}
	cs, ok := t.escapeSet(n, f)
	if !ok {
		return ""
	}
	return cs.expr(t.d)
}

// escapeSet resolves a set escape such as \d or \p{Lu}.
func (t *translator) escapeSet(n *syntax.Node, f syntax.Flags) (charSet, bool) {
	uc := f&syntax.UnicodeCharacterClass != 0
	var cs charSet
	switch n.Text[1] {
	case 'd', 'D':
		cs = asciiDigit
		if uc {
			cs = props("Nd")
		}
	case 's', 'S':
		cs = asciiSpace
		if uc {
			cs = whiteSpace
		}
	case 'w', 'W':
		cs = asciiWord
		if uc {
			cs = unicodeWord
		}
	case 'h', 'H':
		cs = horizontalSpace
	case 'v', 'V':
		cs = verticalSpace
	case 'p', 'P':
		name := strings.TrimSuffix(strings.TrimPrefix(n.Text[2:], "{"), "}")
		var ok bool
		if cs, ok = property(name, uc); !ok {
			t.unsupported(n, "property "+n.Text)
			return charSet{}, false
		}
	default:
		t.unsupported(n, "escape "+n.Text)
		return charSet{}, false
	}
	if unicode.IsUpper(rune(n.Text[1])) {
		cs = cs.negate()
	}
	return cs, true
}

// class translates a bracket expression into a single set.
func (t *translator) class(n *syntax.Node, c *syntax.Class, f syntax.Flags) string {
	cs, ok := t.classSet(n, c, f)
	if !ok {
		return ""
	}
	return cs.expr(t.d)
}

// caseFold returns the case closure that set operations apply under f, or
// nil when matching is case sensitive.
func caseFold(f syntax.Flags) func(r rune, add func(rune)) {
	switch {
	case f&syntax.CaseInsensitive == 0:
		return nil
	case f&syntax.UnicodeCase != 0:
		return unicodeFold
	}
	return asciiFold
}

// classSet resolves c to one set. Unions keep properties symbolic where
// they can, and each && operand is intersected with the resolved members
// of the ones before it. An operand that is a negated set is subtracted
// instead.
func (t *translator) classSet(n *syntax.Node, c *syntax.Class, f syntax.Flags) (charSet, bool) {
	fold := caseFold(f)
	var res charSet
	for i, items := range c.Operands() {
		cs, ok := t.unionSet(n, items, f)
		if !ok {
			return charSet{}, false
		}
		if i == 0 {
			res = cs
			continue
		}
		res = res.resolve(fold)
		if cs.neg {
			excluded := cs.negate().resolve(fold)
			res.subtraction(&excluded)
		} else {
			members := cs.resolve(fold)
			res.intersection(&members)
		}
	}
	if c.Negated {
		res = res.negate()
	}
	return res, true
}

// unionSet merges the members of one && operand. An empty operand, as in
// [a&&], matches everything.
func (t *translator) unionSet(n *syntax.Node, items []syntax.ClassItem, f syntax.Flags) (charSet, bool) {
	if len(items) == 0 {
		return charSet{neg: true}, true
	}
	var merged charSet
	for _, it := range items {
		var cs charSet
		switch it.Op {
		case syntax.ClassRune:
			cs.unionChar(it.Lo)
		case syntax.ClassRange:
			cs = runes(it.Lo, it.Hi)
		case syntax.ClassQuote:
			for _, r := range it.Text {
				cs.unionChar(r)
			}
		case syntax.ClassEscape:
			var ok bool
			if cs, ok = t.escapeSet(&syntax.Node{Pos: n.Pos, Text: it.Text}, f); !ok {
				return charSet{}, false
			}
		case syntax.ClassNested:
			var ok bool
			if cs, ok = t.classSet(n, it.Class, f); !ok {
				return charSet{}, false
			}
		}
		if len(items) == 1 {
			return cs, true
		}
		in := cs.inline(caseFold(f))
		merged.union(&in)
	}
	return merged, true
}
