package revregex

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/auvred/revregex/engine"
)

func TestForward(t *testing.T) {
	p := MustCompileForward(`\b(id)\b\s*=\s*(.+?)\s*;$`, 0)
	assert.Equal(t, p.Pattern(), `\b(id)\b\s*=\s*(.+?)\s*;$`)
	assert.Equal(t, p.Flags(), Flags(0))
	assert.Equal(t, p.Program().GroupCount(), 2)

	m := p.MatcherFor(RunesOf("test.id  = def;"))
	assert.Assert(t, m.Find())
	assert.Equal(t, m.Group(), "id  = def;")
	assert.Equal(t, m.GroupN(1), "id")
	assert.Equal(t, m.GroupN(2), "def")
	assert.Equal(t, m.Start(), 5)
	assert.Equal(t, m.GroupStart(2), 11)
	assert.Assert(t, !m.Find())

	m.ResetText("x id=1;")
	assert.Assert(t, m.Find())
	assert.Equal(t, m.GroupN(2), "1")
	assert.Equal(t, m.Start(), 2)
}

func TestForwardSplit(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		limit   int
		want    []string
	}{
		{",", "a,b,,c", 0, []string{"a", "b", "", "c"}},
		{",", "a,b,,", 0, []string{"a", "b"}},
		{",", "a,b,,", -1, []string{"a", "b", "", ""}},
		{",", "a,b,c", 2, []string{"a", "b,c"}},
		{"", "abc", 0, []string{"a", "b", "c"}},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			parts, err := MustCompileForward(test.pattern, 0).Split(test.text, test.limit)
			assert.NilError(t, err)
			assert.DeepEqual(t, parts, test.want)
		})
	}
}

func TestCompileForward(t *testing.T) {
	_, err := CompileForward("a{2,1}", 0)
	var synErr *SyntaxError
	assert.Assert(t, errors.As(err, &synErr))

	_, err = CompileForward(`(a)\1`, 0, WithEngine(engine.Coregex()))
	var unsupported *engine.UnsupportedError
	assert.Assert(t, errors.As(err, &unsupported))

	assert.Assert(t, is.Panics(func() { MustCompileForward("(", 0) }))
}

// Both patterns are used through the package interfaces only.
func TestPatternInterface(t *testing.T) {
	patterns := map[string]Pattern{
		"forward": MustCompileForward(`[a-z]+`, 0),
		"reverse": MustCompile(`[a-z]+`, 0),
	}
	want := map[string][]string{
		"forward": {"ab", "cd"},
		"reverse": {"cd", "ab"},
	}
	for name, p := range patterns {
		t.Run(name, func(t *testing.T) {
			m, err := p.Matcher("ab 12 cd")
			assert.NilError(t, err)
			var got []string
			for m.Find() {
				got = append(got, m.Group())
				assert.Equal(t, m.GroupCount(), 0)
			}
			assert.DeepEqual(t, got, want[name])

			s, err := m.ReplaceAll("<$0>")
			assert.NilError(t, err)
			assert.Equal(t, s, "<ab> 12 <cd>")
		})
	}
}
