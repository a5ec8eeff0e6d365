// Package revregex searches text backwards with Java-style regular expressions.
package revregex

import (
	"github.com/auvred/revregex/engine"
	"github.com/auvred/revregex/syntax"
)

// Flags is a bitmask of pattern options.
type Flags = syntax.Flags

const (
	// Only "\n" is recognized as a line terminator ("d" flag).
	UnixLines = syntax.UnixLines
	// Case-insensitive matching ("i" flag).
	CaseInsensitive = syntax.CaseInsensitive
	// Whitespace and "#" comments in the pattern are ignored ("x" flag).
	Comments = syntax.Comments
	// "^" and "$" match at line boundaries ("m" flag).
	Multiline = syntax.Multiline
	// The pattern is a literal string.
	Literal = syntax.Literal
	// "." matches line terminators ("s" flag).
	DotAll = syntax.DotAll
	// Case folding follows Unicode rules ("u" flag).
	UnicodeCase = syntax.UnicodeCase
	// Canonical equivalence ("c" flag).
	CanonEq = syntax.CanonEq
	// Predefined classes use Unicode definitions ("U" flag).
	UnicodeCharacterClass = syntax.UnicodeCharacterClass
)

// SyntaxError is the error returned for malformed patterns.
type SyntaxError = syntax.Error

// Pattern is a compiled regular expression.
type Pattern interface {
	// Pattern returns the pattern text handed to the engine.
	Pattern() string
	Flags() Flags
	Matcher(text string) (Matcher, error)
	// Split splits text around matches, see engine.Split.
	Split(text string, limit int) ([]string, error)
}

// Matcher runs a Pattern over one text. Offsets are code point indexes
// into the text and are -1 when there is no match or the group did not
// participate. A Matcher is not safe for concurrent use.
type Matcher interface {
	Start() int
	End() int
	GroupStart(group int) int
	GroupEnd(group int) int
	Group() string
	GroupN(group int) string
	NamedGroup(name string) string
	GroupCount() int

	Find() bool
	FindFrom(from int) bool
	Matches() bool
	LookingAt() bool
	ReplaceAll(replacement string) (string, error)
	ReplaceFirst(replacement string) (string, error)

	Region(start, end int)
	RegionStart() int
	RegionEnd() int
	HasTransparentBounds() bool
	UseTransparentBounds(b bool)
	HasAnchoringBounds() bool
	UseAnchoringBounds(b bool)
	HitEnd() bool
	RequireEnd() bool
}

var (
	_ Pattern = (*ReversePattern)(nil)
	_ Pattern = (*ForwardPattern)(nil)
	_ Matcher = (*ReverseMatcher)(nil)
	_ Matcher = (*ForwardMatcher)(nil)
)

// Option configures Compile and CompileForward.
type Option func(*options)

type options struct {
	engine engine.Engine
}

// WithEngine selects the engine that runs the compiled pattern.
// The default is engine.Default().
func WithEngine(e engine.Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

func newOptions(opts []Option) options {
	o := options{engine: engine.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Compile parses pattern and rewrites it to match reversed text.
// Handing the result to the engine is deferred to its first use.
func Compile(pattern string, flags Flags, opts ...Option) (*ReversePattern, error) {
	rev, err := syntax.Reverse(pattern, flags)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &ReversePattern{rev: rev, engine: o.engine}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be parsed.
func MustCompile(pattern string, flags Flags, opts ...Option) *ReversePattern {
	p, err := Compile(pattern, flags, opts...)
	if err != nil {
		panic("revregex: MustCompile: " + err.Error())
	}
	return p
}

// CompileForward compiles pattern without reversing it.
func CompileForward(pattern string, flags Flags, opts ...Option) (*ForwardPattern, error) {
	o := newOptions(opts)
	prog, err := o.engine.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	return &ForwardPattern{prog: prog}, nil
}

// MustCompileForward is like CompileForward but panics on error.
func MustCompileForward(pattern string, flags Flags, opts ...Option) *ForwardPattern {
	p, err := CompileForward(pattern, flags, opts...)
	if err != nil {
		panic("revregex: MustCompileForward: " + err.Error())
	}
	return p
}
