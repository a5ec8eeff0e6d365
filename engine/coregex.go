package engine

import (
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/coregx/coregex"

	"github.com/auvred/revregex/syntax"
)

type coregexEngine struct{}

// Coregex returns the engine built on github.com/coregx/coregex. It runs in
// time linear in the input but only accepts patterns that need nothing to
// the left of the search position: no back-references, lookaround, atomic
// groups, possessive quantifiers, \b, \G, ^ or \A. Compile returns an
// *UnsupportedError for other patterns.
func Coregex() Engine {
	return coregexEngine{}
}

func (coregexEngine) Compile(pattern string, flags syntax.Flags) (Program, error) {
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	p, err := compileCoregex(re)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func compileCoregex(re *syntax.Regexp) (*program, error) {
	expr, err := translate(re2, re)
	if err != nil {
		return nil, err
	}
	b := &coregexBackend{expr: expr}
	if b.variants[unanchored], err = coregex.Compile(expr); err != nil {
		return nil, err
	}
	return newProgram(re, b), nil
}

type coregexBackend struct {
	expr string

	once     [3]sync.Once
	variants [3]*coregex.Regex
}

func (b *coregexBackend) variant(a anchor) *coregex.Regex {
	b.once[a].Do(func() {
		switch a {
		case anchorStart:
			b.variants[a] = coregex.MustCompile(`\A(?:` + b.expr + ")")
		case anchorBoth:
			b.variants[a] = coregex.MustCompile(`\A(?:` + b.expr + `)\z`)
		}
	})
	return b.variants[a]
}

func (b *coregexBackend) bind(input []rune) searcher {
	// offs[i] is the byte offset of rune i; invalid runes encode as U+FFFD.
	offs := make([]int, len(input)+1)
	for i, r := range input {
		n := utf8.RuneLen(r)
		if n < 0 {
			n = utf8.RuneLen(utf8.RuneError)
		}
		offs[i+1] = offs[i] + n
	}
	return &coregexSearcher{b: b, text: string(input), offs: offs}
}

type coregexSearcher struct {
	b    *coregexBackend
	text string
	offs []int
}

// search slices the text at from. Accepted patterns never look behind the
// search position, so the slice does not change what they match.
func (s *coregexSearcher) search(lo, hi, from int, a anchor) []int {
	base := s.offs[from]
	loc := s.b.variant(a).FindStringSubmatchIndex(s.text[base:s.offs[hi]])
	if loc == nil {
		return nil
	}
	for i, v := range loc {
		if v >= 0 {
			loc[i] = sort.SearchInts(s.offs, base+v)
		}
	}
	return loc
}
