package syntax

import "strconv"

// An Op is the kind of a Node.
type Op uint8

const (
	// A single code point. Text holds its source spelling, Rune its value.
	OpLiteral Op = iota + 1
	// An escape that is not a single code point: \d, \p{L}, \b, \R and
	// friends. Text holds the escape as written.
	OpEscape
	// A bracket expression. Class holds its parsed items.
	OpClass
	// "."
	OpDot
	// One of ^ $ \A \z \Z. Text holds the anchor.
	OpAnchor
	// \Q...\E. Text holds the quoted content.
	OpQuote
	// \N or \k<name>. Group is the referenced group, Name is set for the
	// named form.
	OpBackRef
	// A parenthesized construct, see GroupKind.
	OpGroup
	// An inline modifier group (?flags). Sub holds the items of the
	// enclosing branch that the modifiers govern.
	OpFlags
	// The "|" separating two branches.
	OpAlternate
)

// A GroupKind distinguishes parenthesized constructs.
type GroupKind uint8

const (
	GroupCapture GroupKind = iota + 1 // (X) and (?<name>X)
	GroupNonCapture                   // (?:X)
	GroupAtomic                       // (?>X)
	GroupLookahead                    // (?=X)
	GroupNegLookahead                 // (?!X)
	GroupLookbehind                   // (?<=X)
	GroupNegLookbehind                // (?<!X)
	GroupFlags                        // (?flags:X)
)

// A QuantMode is the matching mode of a quantifier.
type QuantMode uint8

const (
	Greedy QuantMode = iota
	Reluctant
	Possessive
)

// Quantifier is the repetition suffix of an atom.
// The zero value means the atom is not quantified.
type Quantifier struct {
	// Text is the quantifier as it should be written, e.g. "{1,3}?".
	Text string
	Min  int
	// Max is -1 when unbounded.
	Max  int
	Mode QuantMode
}

// IsZero reports whether q is absent.
func (q Quantifier) IsZero() bool {
	return q.Text == ""
}

// Base returns the quantifier without its mode suffix.
func (q Quantifier) Base() string {
	if q.Mode == Greedy {
		return q.Text
	}
	return q.Text[:len(q.Text)-1]
}

// Bounded returns a quantifier repeating min to max times, max -1 meaning
// unbounded, with the mode of q. Exactly one repetition is the zero value.
func (q Quantifier) Bounded(min, max int) Quantifier {
	var text string
	switch {
	case min == 1 && max == 1:
		return Quantifier{}
	case min == 0 && max == -1:
		text = "*"
	case min == 1 && max == -1:
		text = "+"
	case min == 0 && max == 1:
		text = "?"
	case max == -1:
		text = "{" + strconv.Itoa(min) + ",}"
	case min == max:
		text = "{" + strconv.Itoa(min) + "}"
	default:
		text = "{" + strconv.Itoa(min) + "," + strconv.Itoa(max) + "}"
	}
	switch q.Mode {
	case Reluctant:
		text += "?"
	case Possessive:
		text += "+"
	}
	return Quantifier{Text: text, Min: min, Max: max, Mode: q.Mode}
}

// A Node is an element of a parsed pattern.
type Node struct {
	Op   Op
	Pos  int
	Text string
	Rune rune

	Kind GroupKind
	// Group is the 1-based number of a capturing group, or the group
	// referenced by a back-reference.
	Group int
	// Name is the name of a named group or named back-reference.
	Name string
	// Flags is the modifier text of OpFlags and GroupFlags nodes, e.g. "i-s".
	Flags string
	// Implicit marks an OpFlags node that was not written in the pattern but
	// carries modifiers set in an earlier branch of the same group.
	Implicit bool
	Sub      []*Node
	Class    *Class

	Quant Quantifier
}

// IsCapture reports whether n is a capturing group.
func (n *Node) IsCapture() bool {
	return n.Op == OpGroup && n.Kind == GroupCapture
}

// A ClassOp is the kind of a ClassItem.
type ClassOp uint8

const (
	ClassRune      ClassOp = iota + 1 // a single code point
	ClassRange                        // Lo-Hi
	ClassEscape                       // \d, \p{L} and other set escapes
	ClassQuote                        // \Q...\E inside brackets
	ClassNested                       // [...] inside brackets
	ClassIntersect                    // &&
)

// ClassItem is one element of a bracket expression.
type ClassItem struct {
	Op ClassOp
	// Text is the source spelling of a rune, escape or quote content.
	// For ranges it is the low end and HiText the high end.
	Text   string
	HiText string
	Lo, Hi rune
	Class  *Class
}

// Class is a parsed bracket expression.
type Class struct {
	Negated bool
	Items   []ClassItem
}

// HasSetOps reports whether c uses nesting or intersection.
func (c *Class) HasSetOps() bool {
	for _, it := range c.Items {
		if it.Op == ClassNested || it.Op == ClassIntersect {
			return true
		}
	}
	return false
}

// Operands splits c at its intersection operators.
func (c *Class) Operands() [][]ClassItem {
	var ops [][]ClassItem
	var cur []ClassItem
	for _, it := range c.Items {
		if it.Op == ClassIntersect {
			ops = append(ops, cur)
			cur = nil
			continue
		}
		cur = append(cur, it)
	}
	return append(ops, cur)
}

// Walk calls fn for every node in nodes in depth-first order.
// Children are skipped when fn returns false.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(n.Sub, fn)
		}
	}
}
