package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/auvred/revregex/syntax"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		pattern string
		flags   syntax.Flags
		regexp2 string
		coregex string
	}{
		{"a+b", 0, "(?:a)+b", "(?:a)+b"},
		{`\d{2}`, 0, "(?:[0-9]){2}", "(?:[0-9]){2}"},
		{".", 0, `[^\u000A\u000D\u0085\u2028\u2029]`, `[^\x{A}\x{D}\x{85}\x{2028}\x{2029}]`},
		{".", syntax.DotAll, `[\s\S]`, "(?s:.)"},
		{"(?<n>a)", 0, "(a)", "(?P<n>a)"},
		{"a.c", syntax.Literal, `a\.c`, `a\.c`},
		{"ab", syntax.CaseInsensitive, "(?i)ab", "(?i)ab"},
		{"a(?i)b", 0, "a(?i:b)", "a(?i:b)"},
		{"(?i)a(?-i:b)", 0, "(?i:a(?-i:b))", "(?i:a(?-i:b))"},
		{`[^\d\s]`, 0, `[^\u0009-\u000D 0-9]`, `[^\x{9}-\x{D} 0-9]`},
		{`\p{Lu}`, 0, `[\p{Lu}]`, `[\p{Lu}]`},
		{`\P{Lu}`, 0, `[^\p{Lu}]`, `[^\p{Lu}]`},
		{`[a-z&&[^bc]]`, 0, "[ad-z]", "[ad-z]"},
		{`[a-c&&[b-d]]`, 0, "[bc]", "[bc]"},
		{`[a-c&&[^b]]`, syntax.CaseInsensitive, "(?i)[ACac]", "(?i)[ACac]"},
		{`[a&&b]`, 0, "[^\\u0000-\U0010FFFF]", `[^\x{0}-\x{10FFFF}]`},
		{`[^a\p{Lu}]`, 0, `[^a\p{Lu}]`, `[^a\p{Lu}]`},
		{`(a)\1`, 0, `(a)(?:\1)`, ""},
		{"a*+", 0, "(?>(?:a)*)", ""},
		{`\Qa*\E`, 0, `a\*`, `a\*`},
		{"$", syntax.Multiline | syntax.UnixLines, `(?=\n|\z)`, "(?m:$)"},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			re := syntax.MustParse(test.pattern, test.flags)

			got, err := translate(dotNet, re)
			assert.NilError(t, err)
			assert.Equal(t, got, test.regexp2)

			got, err = translate(re2, re)
			if test.coregex == "" {
				var unsupported *UnsupportedError
				assert.Assert(t, errors.As(err, &unsupported), "got %v", err)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, got, test.coregex)
		})
	}
}

func TestTranslateUnsupported(t *testing.T) {
	tests := []struct {
		pattern   string
		flags     syntax.Flags
		construct string
		offset    int
	}{
		{`(a)\1`, 0, `back-reference \1`, 3},
		{"x(?=a)", 0, "group (?=", 1},
		{"(?>a)", 0, "group (?>", 0},
		{"^a", 0, "anchor ^", 0},
		{`a\Z`, 0, `anchor \Z`, 1},
		{"a$", syntax.Multiline, "anchor $", 1},
		{"a*+", 0, "possessive quantifier *+", 0},
		{"a{1001}", 0, "repetition count above 1000", 0},
		{`a\b`, 0, `assertion \b`, 1},
		{`\R`, 0, `linebreak \R`, 0},
		{"a", syntax.CanonEq, "flags c", 0},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			_, err := translate(re2, syntax.MustParse(test.pattern, test.flags))
			var unsupported *UnsupportedError
			assert.Assert(t, errors.As(err, &unsupported), "got %v", err)
			assert.Equal(t, unsupported.Engine, "coregex")
			assert.Equal(t, unsupported.Construct, test.construct)
			assert.Equal(t, unsupported.Offset, test.offset)
		})
	}
}

func TestUnsupportedProperty(t *testing.T) {
	for _, e := range []Engine{Regexp2(), Coregex(), Auto()} {
		_, err := e.Compile(`\p{NoSuchThing}`, 0)
		var unsupported *UnsupportedError
		assert.Assert(t, errors.As(err, &unsupported), "got %v", err)
		assert.Equal(t, unsupported.Construct, `property \p{NoSuchThing}`)
	}
}

func TestProperty(t *testing.T) {
	tests := []struct {
		name    string
		unicode bool
		ok      bool
		expr    string
	}{
		{"Lu", false, true, `[\p{Lu}]`},
		{"L", false, true, `[\p{L}]`},
		{"IsLatin", false, true, `[\p{Latin}]`},
		{"script=greek", false, true, `[\p{Greek}]`},
		{"IsAlphabetic", false, true, `[\p{L}\p{Nl}]`},
		{"InBasicLatin", false, true, `[\x{0}-\x{7F}]`},
		{"Lower", false, true, "[a-z]"},
		{"Lower", true, true, `[\p{Ll}]`},
		{"javaLowerCase", false, true, `[\p{Ll}]`},
		{"LC", false, true, `[\p{Lu}\p{Ll}\p{Lt}]`},
		{"InNoSuchBlock", false, false, ""},
		{"Bogus", false, false, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cs, ok := property(test.name, test.unicode)
			assert.Equal(t, ok, test.ok)
			if ok {
				assert.Equal(t, cs.expr(re2), test.expr)
			}
		})
	}
}

var cmpRanges = cmp.AllowUnexported(charRange{})

func ranges(pairs ...rune) []charRange {
	return runes(pairs...).chars
}

func TestCharSet(t *testing.T) {
	t.Run("runes", func(t *testing.T) {
		s := runes('x', 'z', 'a', 'c', 'd', 'f', 'b', 'b')
		assert.DeepEqual(t, s.chars, ranges('a', 'f', 'x', 'z'), cmpRanges)
	})

	t.Run("union", func(t *testing.T) {
		s := runes('a', 'c', 'x', 'x')
		other := runes('b', 'e', 'w', 'w', 'z', 'z')
		s.union(&other)
		assert.DeepEqual(t, s.chars, ranges('a', 'e', 'w', 'x', 'z', 'z'), cmpRanges)
	})

	t.Run("unionChar", func(t *testing.T) {
		var s charSet
		for _, r := range "dbfac" {
			s.unionChar(r)
		}
		s.unionChar('b')
		assert.DeepEqual(t, s.chars, ranges('a', 'd', 'f', 'f'), cmpRanges)
		s.unionChar('e')
		assert.DeepEqual(t, s.chars, ranges('a', 'f'), cmpRanges)
	})

	t.Run("intersection", func(t *testing.T) {
		s := runes('a', 'm', 'p', 'z')
		other := runes('c', 'e', 'k', 'q', 'y', 'y')
		s.intersection(&other)
		assert.DeepEqual(t, s.chars, ranges('c', 'e', 'k', 'm', 'p', 'q', 'y', 'y'), cmpRanges)

		none := runes('0', '9')
		s.intersection(&none)
		assert.Equal(t, len(s.chars), 0)
	})

	t.Run("subtraction", func(t *testing.T) {
		s := runes('a', 'e', 'g', 'k', 'p', 'z')
		other := runes('c', 'c', 'e', 'h', 'j', 'q')
		s.subtraction(&other)
		assert.DeepEqual(t, s.chars, ranges('a', 'b', 'd', 'd', 'i', 'i', 'r', 'z'), cmpRanges)
	})

	t.Run("complement", func(t *testing.T) {
		s := runes('b', 'c', 0, 'a')
		s.complement()
		assert.DeepEqual(t, s.chars, ranges('d', 0xD7FF, 0xE000, 0x10FFFF), cmpRanges)
		s.complement()
		assert.DeepEqual(t, s.chars, ranges(0, 'c'), cmpRanges)
	})

	t.Run("fold", func(t *testing.T) {
		s := runes('a', 'b', 'k', 'k', '1', '1')
		assert.DeepEqual(t, s.fold(asciiFold).chars, ranges('1', '1', 'A', 'B', 'K', 'K', 'a', 'b', 'k', 'k'), cmpRanges)
		// KELVIN SIGN folds to k
		assert.DeepEqual(t, s.fold(unicodeFold).chars, ranges('1', '1', 'A', 'B', 'K', 'K', 'a', 'b', 'k', 'k', 0x212A, 0x212A), cmpRanges)
	})

	t.Run("resolve", func(t *testing.T) {
		greek := props("Greek")
		got := greek.resolve(nil)
		assert.DeepEqual(t, got.chars[0], charRange{lo: 0x370, hi: 0x373}, cmpRanges)

		notUpper := props("Lu").negate().resolve(nil)
		assert.Equal(t, len(notUpper.props), 0)
		upper := props("Lu").resolve(nil)
		upper.intersection(&notUpper)
		assert.Equal(t, len(upper.chars), 0)

		folded := runes('b', 'b').negate().resolve(asciiFold)
		assert.DeepEqual(t, folded.chars[:2], ranges(0, 'A', 'C', 'a'), cmpRanges)
	})
}
