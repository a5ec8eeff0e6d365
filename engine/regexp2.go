package engine

import (
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/auvred/revregex/syntax"
)

type regexp2Engine struct{}

// Regexp2 returns the backtracking engine built on github.com/dlclark/regexp2.
// It accepts every construct of the Java grammar, including
// back-references, lookbehind, atomic groups, possessive quantifiers and
// class intersections.
func Regexp2() Engine {
	return regexp2Engine{}
}

func (regexp2Engine) Compile(pattern string, flags syntax.Flags) (Program, error) {
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	p, err := compileRegexp2(re)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func compileRegexp2(re *syntax.Regexp) (*program, error) {
	expr, err := translate(dotNet, re)
	if err != nil {
		return nil, err
	}
	b := &regexp2Backend{expr: expr, groups: re.GroupCount()}
	if b.variants[unanchored], err = regexp2.Compile(expr, regexp2.None); err != nil {
		return nil, err
	}
	return newProgram(re, b), nil
}

type regexp2Backend struct {
	expr   string
	groups int

	once     [3]sync.Once
	variants [3]*regexp2.Regexp
}

// variant returns the program for a. The anchored forms are compiled on
// first use; \G holds at the position a search starts from.
func (b *regexp2Backend) variant(a anchor) *regexp2.Regexp {
	b.once[a].Do(func() {
		switch a {
		case anchorStart:
			b.variants[a] = regexp2.MustCompile(`\G(?:`+b.expr+")", regexp2.None)
		case anchorBoth:
			b.variants[a] = regexp2.MustCompile(`\G(?:`+b.expr+`)\z`, regexp2.None)
		}
	})
	return b.variants[a]
}

func (b *regexp2Backend) bind(input []rune) searcher {
	return &regexp2Searcher{b: b, input: input}
}

type regexp2Searcher struct {
	b     *regexp2Backend
	input []rune
}

func (s *regexp2Searcher) search(lo, hi, from int, a anchor) []int {
	window := s.input[lo:hi]
	m, err := s.b.variant(a).FindRunesMatchStartingAt(window, from-lo)
	if err != nil || m == nil {
		return nil
	}
	loc := make([]int, 2*(s.b.groups+1))
	for g := 0; g <= s.b.groups; g++ {
		grp := m.GroupByNumber(g)
		if grp == nil || len(grp.Captures) == 0 {
			loc[2*g], loc[2*g+1] = -1, -1
			continue
		}
		loc[2*g] = lo + grp.Index
		loc[2*g+1] = lo + grp.Index + grp.Length
	}
	return loc
}
