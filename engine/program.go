package engine

import (
	"github.com/auvred/revregex/syntax"
)

type anchor uint8

const (
	unanchored anchor = iota
	// the match must start at the search position
	anchorStart
	// the match must also end at the end of the window
	anchorBoth
)

// backend is a compiled pattern in some engine.
type backend interface {
	bind(input []rune) searcher
}

// searcher runs a backend over one input.
type searcher interface {
	// search returns the group offsets of the leftmost match inside
	// input[lo:hi] that starts at or after from, or nil. Offsets are
	// absolute and -1 marks a group that did not participate.
	search(lo, hi, from int, a anchor) []int
}

type program struct {
	re   *syntax.Regexp
	back backend
	// endSensitive is set when text past the end of a match can change
	// whether it matches.
	endSensitive bool
}

func newProgram(re *syntax.Regexp, back backend) *program {
	p := &program{re: re, back: back}
	syntax.Walk(re.Nodes, func(n *syntax.Node) bool {
		switch {
		case n.Op == syntax.OpAnchor && n.Text != "^" && n.Text != `\A`:
			p.endSensitive = true
		case n.Op == syntax.OpEscape && (n.Text == `\b` || n.Text == `\B`):
			p.endSensitive = true
		case n.Op == syntax.OpGroup && (n.Kind == syntax.GroupLookahead || n.Kind == syntax.GroupNegLookahead):
			p.endSensitive = true
		}
		return true
	})
	return p
}

func (p *program) Pattern() string {
	return p.re.Pattern
}

func (p *program) Flags() syntax.Flags {
	return p.re.Flags
}

func (p *program) GroupCount() int {
	return p.re.GroupCount()
}

func (p *program) GroupIndex(name string) int {
	if g, ok := p.re.Names[name]; ok {
		return g
	}
	return -1
}

func (p *program) Matcher(input []rune) Matcher {
	return newMatcher(p, input)
}

func (p *program) Split(input []rune, limit int) []string {
	return Split(p.Matcher(input), input, limit)
}

// Split splits input around the matches m finds in it, the way
// java.util.regex.Pattern.split does. m must be a fresh matcher over input.
//
// With limit > 0 at most limit fragments are returned and the last one holds
// the rest of the input. With limit == 0 trailing empty fragments are
// dropped, with limit < 0 they are kept. A zero-width match at the start of
// the input never produces a leading empty fragment.
func Split(m Matcher, input []rune, limit int) []string {
	var list []string
	index := 0
	limited := limit > 0
	for m.Find() {
		if !limited || len(list) < limit-1 {
			if index == 0 && m.Start() == 0 && m.Start() == m.End() {
				continue
			}
			list = append(list, string(input[index:m.Start()]))
			index = m.End()
		} else if len(list) == limit-1 {
			list = append(list, string(input[index:]))
			index = m.End()
		}
	}
	if index == 0 {
		return []string{string(input)}
	}
	if !limited || len(list) < limit {
		list = append(list, string(input[index:]))
	}
	size := len(list)
	if limit == 0 {
		for size > 0 && list[size-1] == "" {
			size--
		}
	}
	return list[:size]
}
