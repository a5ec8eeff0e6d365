package engine

import (
	"fmt"
	"strings"
)

// matcher is the Matcher shared by all backends. It keeps the region and
// iteration state of java.util.regex.Matcher and asks the backend only for
// single searches.
type matcher struct {
	prog  *program
	s     searcher
	input []rune

	// region
	from, to    int
	transparent bool
	anchoring   bool

	// groups holds start, end pairs of the last match, -1 when unset.
	groups []int
	// first and last bound the last match; first is -1 when there is none.
	first, last int
	appendPos   int

	hitEnd     bool
	requireEnd bool
}

func newMatcher(p *program, input []rune) *matcher {
	m := &matcher{prog: p, input: input, anchoring: true}
	m.s = p.back.bind(input)
	m.Reset()
	return m
}

func (m *matcher) clearGroups() {
	n := 2 * (m.prog.GroupCount() + 1)
	if cap(m.groups) < n {
		m.groups = make([]int, n)
	}
	m.groups = m.groups[:n]
	for i := range m.groups {
		m.groups[i] = -1
	}
}

func (m *matcher) Reset() {
	m.first, m.last = -1, 0
	m.from, m.to = 0, len(m.input)
	m.appendPos = 0
	m.hitEnd, m.requireEnd = false, false
	m.clearGroups()
}

func (m *matcher) ResetInput(input []rune) {
	m.input = input
	m.s = m.prog.back.bind(input)
	m.Reset()
}

func (m *matcher) UsePattern(p Program) {
	prog, ok := p.(*program)
	if !ok {
		panic(fmt.Sprintf("engine: UsePattern: unsupported program type %T", p))
	}
	m.prog = prog
	m.s = prog.back.bind(m.input)
	m.clearGroups()
}

// window returns the part of the input a search may inspect.
func (m *matcher) window(a anchor) (lo, hi int) {
	lo, hi = m.from, m.to
	if m.transparent || !m.anchoring {
		lo, hi = 0, len(m.input)
	}
	if a == anchorBoth {
		hi = m.to
	}
	return lo, hi
}

func (m *matcher) search(from int, a anchor) bool {
	m.hitEnd, m.requireEnd = false, false
	lo, hi := m.window(a)
	loc := m.s.search(lo, hi, from, a)
	if loc != nil && loc[1] > m.to {
		// the widened window let the match run past the region; look
		// again with the window cut at the region end
		loc = m.s.search(lo, m.to, from, a)
	}
	if loc == nil {
		m.first = -1
		m.hitEnd = true
		m.clearGroups()
		return false
	}
	copy(m.groups, loc)
	m.first, m.last = loc[0], loc[1]
	m.hitEnd = m.last == m.to
	m.requireEnd = m.hitEnd && m.prog.endSensitive
	return true
}

func (m *matcher) Find() bool {
	next := m.last
	if next == m.first {
		// step over an empty match
		next++
	}
	if next < m.from {
		next = m.from
	}
	if next > m.to {
		m.first = -1
		m.clearGroups()
		return false
	}
	return m.search(next, unanchored)
}

func (m *matcher) FindFrom(from int) bool {
	if from < 0 || from > len(m.input) {
		panic(fmt.Sprintf("engine: FindFrom: index %d out of range [0, %d]", from, len(m.input)))
	}
	m.Reset()
	return m.search(from, unanchored)
}

func (m *matcher) Matches() bool {
	return m.search(m.from, anchorBoth)
}

func (m *matcher) LookingAt() bool {
	return m.search(m.from, anchorStart)
}

func (m *matcher) checkGroup(g int) {
	if g < 0 || g > m.prog.GroupCount() {
		panic(fmt.Sprintf("engine: no group %d", g))
	}
}

func (m *matcher) Start() int {
	return m.first
}

func (m *matcher) End() int {
	if m.first < 0 {
		return -1
	}
	return m.last
}

func (m *matcher) GroupStart(g int) int {
	m.checkGroup(g)
	if m.first < 0 {
		return -1
	}
	return m.groups[2*g]
}

func (m *matcher) GroupEnd(g int) int {
	m.checkGroup(g)
	if m.first < 0 {
		return -1
	}
	return m.groups[2*g+1]
}

func (m *matcher) group(g int) (string, bool) {
	start := m.GroupStart(g)
	if start < 0 {
		return "", false
	}
	return string(m.input[start:m.groups[2*g+1]]), true
}

func (m *matcher) Group() string {
	return m.GroupN(0)
}

func (m *matcher) GroupN(g int) string {
	s, _ := m.group(g)
	return s
}

func (m *matcher) NamedGroup(name string) string {
	g := m.prog.GroupIndex(name)
	if g < 0 {
		panic(fmt.Sprintf("engine: no group named %q", name))
	}
	return m.GroupN(g)
}

func (m *matcher) GroupCount() int {
	return m.prog.GroupCount()
}

// Region sets the limits of the part of the input that matches may occupy
// and resets the matcher. It panics if the limits are out of range.
func (m *matcher) Region(start, end int) {
	if start < 0 || start > len(m.input) || end < start || end > len(m.input) {
		panic(fmt.Sprintf("engine: Region: [%d, %d] out of range [0, %d]", start, end, len(m.input)))
	}
	m.Reset()
	m.from, m.to = start, end
}

func (m *matcher) RegionStart() int {
	return m.from
}

func (m *matcher) RegionEnd() int {
	return m.to
}

func (m *matcher) HasTransparentBounds() bool {
	return m.transparent
}

func (m *matcher) UseTransparentBounds(b bool) {
	m.transparent = b
}

func (m *matcher) HasAnchoringBounds() bool {
	return m.anchoring
}

func (m *matcher) UseAnchoringBounds(b bool) {
	m.anchoring = b
}

func (m *matcher) HitEnd() bool {
	return m.hitEnd
}

func (m *matcher) RequireEnd() bool {
	return m.requireEnd
}

func (m *matcher) template(replacement string) (*Template, error) {
	return ParseTemplate(replacement, m.prog.GroupCount(), m.prog.GroupIndex)
}

func (m *matcher) appendTemplate(buf *strings.Builder, t *Template) {
	buf.WriteString(string(m.input[m.appendPos:m.first]))
	t.Expand(buf, m.group)
	m.appendPos = m.last
}

func (m *matcher) AppendReplacement(buf *strings.Builder, replacement string) error {
	if m.first < 0 {
		return ErrNoMatch
	}
	t, err := m.template(replacement)
	if err != nil {
		return err
	}
	m.appendTemplate(buf, t)
	return nil
}

func (m *matcher) AppendTail(buf *strings.Builder) {
	buf.WriteString(string(m.input[m.appendPos:]))
}

func (m *matcher) ReplaceAll(replacement string) (string, error) {
	return m.replace(replacement, true)
}

func (m *matcher) ReplaceFirst(replacement string) (string, error) {
	return m.replace(replacement, false)
}

func (m *matcher) replace(replacement string, all bool) (string, error) {
	m.Reset()
	if !m.Find() {
		return string(m.input), nil
	}
	t, err := m.template(replacement)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		m.appendTemplate(&b, t)
		if !all || !m.Find() {
			break
		}
	}
	m.AppendTail(&b)
	return b.String(), nil
}
