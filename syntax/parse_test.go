package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestParseGroups(t *testing.T) {
	re, err := Parse(`(a)(?<year>\d{4})(?:x)(?=y)((?<day>d))`, 0)
	assert.NilError(t, err)
	assert.Equal(t, re.GroupCount(), 4)
	assert.DeepEqual(t, re.GroupNames(), []string{"", "", "year", "", "day"})
	assert.DeepEqual(t, re.Names, map[string]int{"year": 2, "day": 4})
	for i, g := range re.Groups {
		assert.Equal(t, g.Group, i+1)
		assert.Assert(t, g.IsCapture())
	}
}

func TestParseQuantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		quant   Quantifier
	}{
		{"a?", Quantifier{Text: "?", Min: 0, Max: 1}},
		{"a*", Quantifier{Text: "*", Min: 0, Max: -1}},
		{"a+?", Quantifier{Text: "+?", Min: 1, Max: -1, Mode: Reluctant}},
		{"a{2}", Quantifier{Text: "{2}", Min: 2, Max: 2}},
		{"a{2,}+", Quantifier{Text: "{2,}+", Min: 2, Max: -1, Mode: Possessive}},
		{"a{2,5}?", Quantifier{Text: "{2,5}?", Min: 2, Max: 5, Mode: Reluctant}},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			re, err := Parse(test.pattern, 0)
			assert.NilError(t, err)
			assert.Equal(t, len(re.Nodes), 1)
			assert.DeepEqual(t, re.Nodes[0].Quant, test.quant)
		})
	}
}

func TestQuantifierBounded(t *testing.T) {
	greedy := Quantifier{Text: "+", Min: 1, Max: -1}
	lazy := Quantifier{Text: "{2,5}?", Min: 2, Max: 5, Mode: Reluctant}
	possessive := Quantifier{Text: "*+", Min: 0, Max: -1, Mode: Possessive}

	assert.DeepEqual(t, greedy.Bounded(1, 1), Quantifier{})
	assert.DeepEqual(t, greedy.Bounded(0, -1), Quantifier{Text: "*", Min: 0, Max: -1})
	assert.DeepEqual(t, greedy.Bounded(0, 1), Quantifier{Text: "?", Min: 0, Max: 1})
	assert.DeepEqual(t, greedy.Bounded(3, 3), Quantifier{Text: "{3}", Min: 3, Max: 3})
	assert.DeepEqual(t, lazy.Bounded(1, 4), Quantifier{Text: "{1,4}?", Min: 1, Max: 4, Mode: Reluctant})
	assert.DeepEqual(t, lazy.Bounded(1, -1), Quantifier{Text: "+?", Min: 1, Max: -1, Mode: Reluctant})
	assert.DeepEqual(t, possessive.Bounded(2, -1), Quantifier{Text: "{2,}+", Min: 2, Max: -1, Mode: Possessive})
}

func TestParseEscapes(t *testing.T) {
	tests := []struct {
		pattern string
		r       rune
	}{
		{`\t`, '\t'},
		{`\x41`, 'A'},
		{`\x{1F600}`, 0x1F600},
		{`B`, 'B'},
		{`😀`, 0x1F600},
		{`\0101`, 'A'},
		{`\07`, 7},
		{`\cA`, 1},
		{`\e`, 0x1B},
		{`\.`, '.'},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			re, err := Parse(test.pattern, 0)
			assert.NilError(t, err)
			assert.Equal(t, len(re.Nodes), 1)
			n := re.Nodes[0]
			assert.Equal(t, n.Op, OpLiteral)
			assert.Equal(t, n.Rune, test.r)
			assert.Equal(t, n.Text, test.pattern)
		})
	}
}

func TestParseBackRefDigits(t *testing.T) {
	re, err := Parse(`(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)\10\11`, 0)
	assert.NilError(t, err)
	n := len(re.Nodes)
	assert.Equal(t, re.Nodes[n-3].Group, 10)
	assert.Equal(t, re.Nodes[n-2].Group, 1)
	assert.Equal(t, re.Nodes[n-1].Text, "1")
}

func TestParseClass(t *testing.T) {
	re, err := Parse(`[^a-c\d[x&&[^y]]\Q]\E]`, 0)
	assert.NilError(t, err)
	assert.Equal(t, len(re.Nodes), 1)
	c := re.Nodes[0].Class
	assert.Assert(t, c.Negated)
	assert.Assert(t, c.HasSetOps())
	assert.Equal(t, c.String(), `[^a-c\d[x&&[^y]]\Q]\E]`)

	nested := c.Items[2].Class
	assert.Assert(t, nested.HasSetOps())
	assert.Equal(t, len(nested.Operands()), 2)
}

func TestParseComments(t *testing.T) {
	re, err := Parse("a # one\n b # two", Comments)
	assert.NilError(t, err)
	assert.Equal(t, re.String(), "ab")
}

func TestParseLiteral(t *testing.T) {
	re, err := Parse("(a", Literal)
	assert.NilError(t, err)
	assert.Equal(t, re.GroupCount(), 0)
	assert.Equal(t, len(re.Nodes), 2)
}

func TestParseString(t *testing.T) {
	patterns := []string{
		"abc",
		"(?<n>a)|b+?",
		`(?>a)(?<=b)(?<!c)(?!d)(?=e)`,
		`\p{Lu}\P{IsAlphabetic}\b`,
		`^\A\z\Z$`,
		`(a)(?:\1)0`,
		"(?i)a(?-i:b)",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			assert.Equal(t, MustParse(p, 0).String(), p)
		})
	}
}

func TestWalk(t *testing.T) {
	re := MustParse(`a(b(?:c))d`, 0)
	var got []string
	Walk(re.Nodes, func(n *Node) bool {
		if n.Op == OpLiteral {
			got = append(got, n.Text)
		}
		return n.Op != OpGroup || n.Kind != GroupNonCapture
	})
	assert.DeepEqual(t, got, []string{"a", "b", "d"})
}

func TestFlags(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		f, err := ParseFlags("ims")
		assert.NilError(t, err)
		assert.Equal(t, f, CaseInsensitive|Multiline|DotAll)

		f, err = ParseFlags("U")
		assert.NilError(t, err)
		assert.Equal(t, f, UnicodeCharacterClass|UnicodeCase)

		_, err = ParseFlags("q")
		assert.ErrorContains(t, err, "unknown flag")
	})

	t.Run("apply", func(t *testing.T) {
		assert.Equal(t, ApplyFlags(DotAll, "i-s"), CaseInsensitive)
		assert.Equal(t, ApplyFlags(CaseInsensitive, "-i"), Flags(0))
		assert.Equal(t, ApplyFlags(0, "m"), Multiline)
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, (CaseInsensitive | Multiline | Literal).String(), "im")
		assert.Equal(t, UnicodeCharacterClass.Normalize().String(), "uU")
		assert.Equal(t, Flags(0).String(), "")
	})

	t.Run("java values", func(t *testing.T) {
		expected := map[Flags]int{
			UnixLines:             0x01,
			CaseInsensitive:       0x02,
			Comments:              0x04,
			Multiline:             0x08,
			Literal:               0x10,
			DotAll:                0x20,
			UnicodeCase:           0x40,
			CanonEq:               0x80,
			UnicodeCharacterClass: 0x100,
		}
		got := map[Flags]int{}
		for f := range expected {
			got[f] = int(f)
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Fatalf("flag values (-want +got):\n%s", diff)
		}
	})
}
