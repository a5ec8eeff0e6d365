package syntax

import "slices"

// Reversal is a pattern rewritten to match the reversed input.
type Reversal struct {
	// Pattern is the original pattern.
	Pattern string
	Flags   Flags
	// Text is the rewritten pattern.
	Text string
	// OrigToRev[g] is the rewritten number of original group g and
	// RevToOrig is its inverse. Index 0 stands for the whole match.
	OrigToRev []int
	RevToOrig []int
	// Names maps group names to original group numbers.
	Names map[string]int
}

// GroupCount returns the number of capturing groups.
func (r *Reversal) GroupCount() int {
	return len(r.OrigToRev) - 1
}

// Reverse parses pattern and rewrites it to match the reversed input.
//
// A match of the result against the reversed text at [len-j, len-i)
// corresponds to a match of pattern against the text at [i, j). \Z has no
// exact counterpart and becomes \A.
func Reverse(pattern string, flags Flags) (*Reversal, error) {
	re, err := Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	return re.Reverse(), nil
}

// Reverse rewrites re to match the reversed input.
func (re *Regexp) Reverse() *Reversal {
	n := len(re.Groups)
	r := &reverser{
		groups:     re.Groups,
		origToRev:  make([]int, n+1),
		converting: make([]*Node, n+1),
		emitted:    make([]bool, n+1),
	}
	r.nodes(re.Nodes)

	revToOrig := make([]int, n+1)
	for orig, rev := range r.origToRev {
		revToOrig[rev] = orig
	}
	return &Reversal{
		Pattern:   re.Pattern,
		Flags:     re.Flags,
		Text:      r.w.String(),
		OrigToRev: r.origToRev,
		RevToOrig: revToOrig,
		Names:     re.Names,
	}
}

// reverser emits the nodes of every sequence right to left.
//
// A back-reference reached before the definition of its group takes the
// definition's place: the group is written there with the next number,
// and the original definition site later writes a numbered back-reference
// to it. The state lives for one Reverse call.
type reverser struct {
	w         writer
	groups    []*Node
	next      int
	origToRev []int
	// converting[g] is the back-reference that took over group g.
	converting []*Node
	emitted    []bool
}

func (r *reverser) nodes(nodes []*Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		r.node(nodes[i], i == 0)
	}
}

func (r *reverser) node(n *Node, first bool) {
	switch n.Op {
	case OpLiteral:
		r.w.literal(n.Text)
	case OpEscape, OpDot:
		r.w.write(n.Text)
	case OpClass:
		r.w.write(n.Class.String())
	case OpAnchor:
		r.w.write(reverseAnchor(n.Text))
	case OpQuote:
		r.quote(n)
		return
	case OpAlternate:
		r.w.write("|")
	case OpBackRef:
		r.backRef(n)
		return
	case OpGroup:
		if n.Kind == GroupCapture {
			r.capture(n)
			return
		}
		r.w.write(reverseGroupOpen(n))
		r.nodes(n.Sub)
		r.w.write(")")
	case OpFlags:
		switch {
		case len(n.Sub) > 0:
			r.w.write("(?" + n.Flags + ":")
			r.nodes(n.Sub)
			r.w.write(")")
		case first && !n.Implicit:
			r.w.write("(?" + n.Flags + ")")
		}
	}
	r.w.write(n.Quant.Text)
}

// quote writes a \Q...\E block backwards. A quantifier binds to the last
// rune of the block, which comes first once reversed.
func (r *reverser) quote(n *Node) {
	text := []rune(n.Text)
	if n.Quant.IsZero() || len(text) < 2 {
		r.w.write(quote(reverseString(n.Text)))
		r.w.write(n.Quant.Text)
		return
	}
	r.w.write(quote(string(text[len(text)-1])))
	r.w.write(n.Quant.Text)
	r.w.write(quote(reverseString(string(text[:len(text)-1]))))
}

// capture writes a group definition. If a back-reference already took the
// group over, the definition becomes a reference to it. A match of the
// original needs the group set when that reference is reached, so an
// optional definition repeats at least once.
func (r *reverser) capture(n *Node) {
	if r.converting[n.Group] == nil {
		r.define(n)
		r.w.write(n.Quant.Text)
		return
	}
	r.w.backRef(r.origToRev[n.Group])
	q := n.Quant
	if !q.IsZero() && q.Min == 0 && q.Max != 0 {
		q = q.Bounded(1, q.Max)
	}
	r.w.write(q.Text)
}

// backRef writes a back-reference. One met before its group defines the
// group in its place: the first repetition captures and the rest refer
// back to it.
func (r *reverser) backRef(n *Node) {
	g := n.Group
	if r.emitted[g] {
		r.ref(n)
		r.w.write(n.Quant.Text)
		return
	}
	r.converting[g] = n
	r.define(r.groups[g-1])
	q := n.Quant
	switch {
	case q.IsZero():
	case q.Min == 0:
		// Inexact: with zero repetitions the group stays unset until the
		// definition site, which still reads as a reference.
		r.w.write(q.Text)
	default:
		rest := q.Max
		if rest > 0 {
			rest--
		}
		if rest != 0 {
			r.w.backRef(r.origToRev[g])
			r.w.write(q.Bounded(q.Min-1, rest).Text)
		}
	}
}

// define writes group def with the next number.
func (r *reverser) define(def *Node) {
	r.emitted[def.Group] = true
	r.next++
	r.origToRev[def.Group] = r.next
	r.w.write(groupOpen(def))
	r.nodes(def.Sub)
	r.w.write(")")
}

func (r *reverser) ref(n *Node) {
	if n.Name != "" {
		r.w.write(`\k<` + n.Name + ">")
		return
	}
	r.w.backRef(r.origToRev[n.Group])
}

func reverseAnchor(a string) string {
	switch a {
	case "^":
		return "$"
	case "$":
		return "^"
	case `\A`:
		return `\z`
	case `\z`, `\Z`:
		return `\A`
	}
	return a
}

func reverseGroupOpen(n *Node) string {
	switch n.Kind {
	case GroupLookahead:
		return "(?<="
	case GroupNegLookahead:
		return "(?<!"
	case GroupLookbehind:
		return "(?="
	case GroupNegLookbehind:
		return "(?!"
	}
	return groupOpen(n)
}

func reverseString(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}
