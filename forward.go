package revregex

import "github.com/auvred/revregex/engine"

// ForwardPattern is a pattern compiled as written. It offers the same
// operations as ReversePattern for callers that do not need reversal.
type ForwardPattern struct {
	prog engine.Program
}

func (p *ForwardPattern) Pattern() string {
	return p.prog.Pattern()
}

func (p *ForwardPattern) Flags() Flags {
	return p.prog.Flags()
}

// Program returns the compiled engine program.
func (p *ForwardPattern) Program() engine.Program {
	return p.prog
}

func (p *ForwardPattern) Matcher(text string) (Matcher, error) {
	return p.MatcherFor(RunesOf(text)), nil
}

// MatcherFor returns a matcher over seq.
func (p *ForwardPattern) MatcherFor(seq Sequence) *ForwardMatcher {
	return &ForwardMatcher{Matcher: p.prog.Matcher(runesOf(seq))}
}

func (p *ForwardPattern) Split(text string, limit int) ([]string, error) {
	return p.prog.Split([]rune(text), limit), nil
}

// ForwardMatcher is the matcher of a ForwardPattern. Every operation is
// the engine's own.
type ForwardMatcher struct {
	engine.Matcher
}

// ResetText binds m to a new text and resets it.
func (m *ForwardMatcher) ResetText(text string) {
	m.ResetInput([]rune(text))
}
