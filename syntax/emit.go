package syntax

import (
	"slices"
	"strconv"
	"strings"
)

// writer accumulates pattern text. Pieces that would absorb a following
// digit are wrapped in a non-capturing group when one follows.
type writer struct {
	pieces []string
	greedy map[int]func(next rune) bool
}

func (w *writer) write(s string) {
	if s != "" {
		w.pieces = append(w.pieces, s)
	}
}

func (w *writer) mark(s string, absorbs func(next rune) bool) {
	if w.greedy == nil {
		w.greedy = map[int]func(rune) bool{}
	}
	w.greedy[len(w.pieces)] = absorbs
	w.pieces = append(w.pieces, s)
}

func (w *writer) backRef(g int) {
	w.mark(`\`+strconv.Itoa(g), isDigit)
}

func (w *writer) literal(text string) {
	// \0 followed by fewer than three octal digits keeps reading
	if strings.HasPrefix(text, `\0`) && len(text) < 5 {
		w.mark(text, func(r rune) bool { return r >= '0' && r <= '7' })
		return
	}
	w.write(text)
}

func (w *writer) String() string {
	pieces := slices.Clone(w.pieces)
	for i, absorbs := range w.greedy {
		if i+1 < len(pieces) && absorbs([]rune(pieces[i+1])[0]) {
			pieces[i] = "(?:" + pieces[i] + ")"
		}
	}
	return strings.Join(pieces, "")
}

// String renders c in Java syntax.
func (c *Class) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Negated {
		b.WriteByte('^')
	}
	for _, it := range c.Items {
		switch it.Op {
		case ClassRune, ClassEscape:
			b.WriteString(it.Text)
		case ClassRange:
			b.WriteString(it.Text)
			b.WriteByte('-')
			b.WriteString(it.HiText)
		case ClassQuote:
			b.WriteString(quote(it.Text))
		case ClassNested:
			b.WriteString(it.Class.String())
		case ClassIntersect:
			b.WriteString("&&")
		}
	}
	b.WriteByte(']')
	return b.String()
}

// quote wraps s in \Q...\E. An \E inside s is spelled outside the quote.
func quote(s string) string {
	return `\Q` + strings.ReplaceAll(s, `\E`, `\E\\\QE`) + `\E`
}

func groupOpen(n *Node) string {
	switch n.Kind {
	case GroupCapture:
		if n.Name != "" {
			return "(?<" + n.Name + ">"
		}
		return "("
	case GroupNonCapture:
		return "(?:"
	case GroupAtomic:
		return "(?>"
	case GroupLookahead:
		return "(?="
	case GroupNegLookahead:
		return "(?!"
	case GroupLookbehind:
		return "(?<="
	case GroupNegLookbehind:
		return "(?<!"
	case GroupFlags:
		return "(?" + n.Flags + ":"
	}
	panic("syntax: unknown group kind " + strconv.Itoa(int(n.Kind)))
}

// String renders re in Java syntax. Comments and insignificant whitespace
// are not reproduced.
func (re *Regexp) String() string {
	var w writer
	writeNodes(&w, re.Nodes)
	return w.String()
}

func writeNodes(w *writer, nodes []*Node) {
	for _, n := range nodes {
		writeNode(w, n)
	}
}

func writeNode(w *writer, n *Node) {
	switch n.Op {
	case OpLiteral:
		w.literal(n.Text)
	case OpEscape, OpDot, OpAnchor:
		w.write(n.Text)
	case OpClass:
		w.write(n.Class.String())
	case OpQuote:
		w.write(quote(n.Text))
	case OpBackRef:
		if n.Name != "" {
			w.write(`\k<` + n.Name + ">")
		} else {
			w.backRef(n.Group)
		}
	case OpGroup:
		w.write(groupOpen(n))
		writeNodes(w, n.Sub)
		w.write(")")
	case OpFlags:
		if !n.Implicit {
			w.write("(?" + n.Flags + ")")
		}
		writeNodes(w, n.Sub)
	case OpAlternate:
		w.write("|")
	}
	w.write(n.Quant.Text)
}
