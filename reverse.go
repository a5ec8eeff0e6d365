package revregex

import (
	"fmt"
	"strings"
	"sync"

	"github.com/auvred/revregex/engine"
	"github.com/auvred/revregex/syntax"
)

// ReversePattern is a pattern rewritten to match reversed text.
// It is immutable and safe for concurrent use; the engine program is
// compiled once, on first use.
type ReversePattern struct {
	rev    *syntax.Reversal
	engine engine.Engine

	once sync.Once
	prog engine.Program
	err  error
}

// Pattern returns the rewritten pattern.
func (p *ReversePattern) Pattern() string {
	return p.rev.Text
}

// OriginalPattern returns the pattern as it was compiled.
func (p *ReversePattern) OriginalPattern() string {
	return p.rev.Pattern
}

func (p *ReversePattern) Flags() Flags {
	return p.rev.Flags
}

func (p *ReversePattern) String() string {
	return p.rev.Pattern
}

func (p *ReversePattern) GroupCount() int {
	return p.rev.GroupCount()
}

func (p *ReversePattern) checkGroup(g int) {
	if g < 0 || g > p.rev.GroupCount() {
		panic(fmt.Sprintf("revregex: no group %d", g))
	}
}

// ReversedGroup returns the number that original group g has in the
// rewritten pattern.
func (p *ReversePattern) ReversedGroup(g int) int {
	p.checkGroup(g)
	return p.rev.OrigToRev[g]
}

// OriginalGroup is the inverse of ReversedGroup.
func (p *ReversePattern) OriginalGroup(g int) int {
	p.checkGroup(g)
	return p.rev.RevToOrig[g]
}

// GroupIndex returns the original number of the named group, or -1.
func (p *ReversePattern) GroupIndex(name string) int {
	if g, ok := p.rev.Names[name]; ok {
		return g
	}
	return -1
}

// Compiled returns the engine program for the rewritten pattern.
func (p *ReversePattern) Compiled() (engine.Program, error) {
	p.once.Do(func() {
		p.prog, p.err = p.engine.Compile(p.rev.Text, p.rev.Flags)
	})
	return p.prog, p.err
}

func (p *ReversePattern) Matcher(text string) (Matcher, error) {
	m, err := p.MatcherFor(RunesOf(text))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MatcherFor returns a matcher over seq. The engine runs over seq read
// backwards.
func (p *ReversePattern) MatcherFor(seq Sequence) (*ReverseMatcher, error) {
	prog, err := p.Compiled()
	if err != nil {
		return nil, err
	}
	m := &ReverseMatcher{pattern: p}
	m.bind(seq)
	m.engine = prog.Matcher(m.reversed)
	return m, nil
}

// Split splits text around matches. The matches are found from the end of
// the text, so the fragments come in reverse order: the result is the
// forward split of the original pattern, last fragment first. Each
// fragment reads forwards.
func (p *ReversePattern) Split(text string, limit int) ([]string, error) {
	prog, err := p.Compiled()
	if err != nil {
		return nil, err
	}
	parts := prog.Split(runesOf(Reverse(RunesOf(text))), limit)
	for i, s := range parts {
		parts[i] = ReverseString(s)
	}
	return parts, nil
}

// ReverseMatcher matches a ReversePattern against the reversed text and
// reports every offset and group in terms of the original text and
// pattern.
//
// Matches are found from the end of the text towards its start. Operations
// that refer to the start of the region in the engine, such as LookingAt
// and HitEnd, refer to its end in the original text.
type ReverseMatcher struct {
	pattern  *ReversePattern
	engine   engine.Matcher
	reversed []rune
	mapper   IndexMapper
}

func (m *ReverseMatcher) bind(seq Sequence) {
	m.reversed = runesOf(Reverse(seq))
	m.mapper = NewIndexMapper(len(m.reversed))
}

// Pattern returns the pattern m runs.
func (m *ReverseMatcher) Pattern() *ReversePattern {
	return m.pattern
}

// Engine returns the engine matcher, which works in reversed coordinates.
func (m *ReverseMatcher) Engine() engine.Matcher {
	return m.engine
}

// mapEnd maps an engine offset, keeping -1.
func (m *ReverseMatcher) mapEnd(i int) int {
	if i < 0 {
		return -1
	}
	return m.mapper.MapBoundary(i)
}

func (m *ReverseMatcher) Start() int {
	return m.mapEnd(m.engine.End())
}

func (m *ReverseMatcher) End() int {
	return m.mapEnd(m.engine.Start())
}

func (m *ReverseMatcher) GroupStart(g int) int {
	return m.mapEnd(m.engine.GroupEnd(m.pattern.ReversedGroup(g)))
}

func (m *ReverseMatcher) GroupEnd(g int) int {
	return m.mapEnd(m.engine.GroupStart(m.pattern.ReversedGroup(g)))
}

func (m *ReverseMatcher) Group() string {
	return ReverseString(m.engine.Group())
}

func (m *ReverseMatcher) GroupN(g int) string {
	return ReverseString(m.engine.GroupN(m.pattern.ReversedGroup(g)))
}

func (m *ReverseMatcher) NamedGroup(name string) string {
	g := m.pattern.GroupIndex(name)
	if g < 0 {
		panic(fmt.Sprintf("revregex: no group named %q", name))
	}
	return m.GroupN(g)
}

func (m *ReverseMatcher) GroupCount() int {
	return m.pattern.GroupCount()
}

// Find finds the next match towards the start of the text.
func (m *ReverseMatcher) Find() bool {
	return m.engine.Find()
}

// FindFrom narrows the region to matches that start at or after from and
// finds the last such match.
func (m *ReverseMatcher) FindFrom(from int) bool {
	start, end := m.engine.RegionStart(), m.mapper.MapBoundary(from)
	if end < start {
		return false
	}
	m.engine.Region(start, end)
	return m.engine.Find()
}

func (m *ReverseMatcher) Matches() bool {
	return m.engine.Matches()
}

// LookingAt matches the pattern against text ending at the end of the
// region.
func (m *ReverseMatcher) LookingAt() bool {
	return m.engine.LookingAt()
}

func (m *ReverseMatcher) Region(start, end int) {
	if start > end {
		panic(fmt.Sprintf("revregex: Region: start %d after end %d", start, end))
	}
	m.engine.Region(m.mapper.MapBoundary(end), m.mapper.MapBoundary(start))
}

func (m *ReverseMatcher) RegionStart() int {
	return m.mapper.MapBoundary(m.engine.RegionEnd())
}

func (m *ReverseMatcher) RegionEnd() int {
	return m.mapper.MapBoundary(m.engine.RegionStart())
}

func (m *ReverseMatcher) HasTransparentBounds() bool {
	return m.engine.HasTransparentBounds()
}

func (m *ReverseMatcher) UseTransparentBounds(b bool) {
	m.engine.UseTransparentBounds(b)
}

func (m *ReverseMatcher) HasAnchoringBounds() bool {
	return m.engine.HasAnchoringBounds()
}

func (m *ReverseMatcher) UseAnchoringBounds(b bool) {
	m.engine.UseAnchoringBounds(b)
}

// HitEnd reports whether the last search reached the start of the region.
func (m *ReverseMatcher) HitEnd() bool {
	return m.engine.HitEnd()
}

func (m *ReverseMatcher) RequireEnd() bool {
	return m.engine.RequireEnd()
}

// reverseTemplate rewrites a replacement for the reversed pattern: literal
// text is reversed and group numbers are mapped.
func (m *ReverseMatcher) reverseTemplate(replacement string) (string, error) {
	t, err := engine.ParseTemplate(replacement, m.pattern.GroupCount(), m.pattern.GroupIndex)
	if err != nil {
		return "", err
	}
	n := len(t.Parts)
	parts := make([]engine.TemplatePart, n)
	for i, part := range t.Parts {
		if part.IsLiteral() {
			part.Literal = ReverseString(part.Literal)
		} else {
			part.Group = m.pattern.ReversedGroup(part.Group)
		}
		parts[n-1-i] = part
	}
	return (&engine.Template{Parts: parts}).String(), nil
}

func (m *ReverseMatcher) ReplaceAll(replacement string) (string, error) {
	t, err := m.reverseTemplate(replacement)
	if err != nil {
		return "", err
	}
	s, err := m.engine.ReplaceAll(t)
	if err != nil {
		return "", err
	}
	return ReverseString(s), nil
}

func (m *ReverseMatcher) ReplaceFirst(replacement string) (string, error) {
	t, err := m.reverseTemplate(replacement)
	if err != nil {
		return "", err
	}
	s, err := m.engine.ReplaceFirst(t)
	if err != nil {
		return "", err
	}
	return ReverseString(s), nil
}

// AppendReplacement appends the text between the previous match and the
// current one, then the replacement, to buf. Both are appended reversed:
// buf collects the result back to front, and the caller reverses it once
// after the final AppendTail.
func (m *ReverseMatcher) AppendReplacement(buf *strings.Builder, replacement string) error {
	t, err := m.reverseTemplate(replacement)
	if err != nil {
		return err
	}
	return m.engine.AppendReplacement(buf, t)
}

// AppendTail appends the rest of the text, reversed, to buf.
func (m *ReverseMatcher) AppendTail(buf *strings.Builder) {
	m.engine.AppendTail(buf)
}

// UsePattern switches m to p. The region and position are kept; the groups
// of the last match are lost.
func (m *ReverseMatcher) UsePattern(p *ReversePattern) error {
	prog, err := p.Compiled()
	if err != nil {
		return err
	}
	m.engine.UsePattern(prog)
	m.pattern = p
	return nil
}

// Reset discards the match state and the region.
func (m *ReverseMatcher) Reset() {
	m.engine.Reset()
}

// ResetText binds m to a new text and resets it.
func (m *ReverseMatcher) ResetText(text string) {
	m.bind(RunesOf(text))
	m.engine.ResetInput(m.reversed)
}
