// Package engine is the seam between revregex and the regular expression
// engines that do the actual matching.
//
// Every backend is driven through the same matcher, which gives results the
// region, find and replacement semantics of java.util.regex.Matcher.
// Offsets are rune indexes into the matcher input.
package engine

import (
	"strings"

	"github.com/auvred/revregex/syntax"
)

// Engine compiles pattern text written in the Java grammar.
type Engine interface {
	Compile(pattern string, flags syntax.Flags) (Program, error)
}

// Program is a compiled pattern.
// It is safe for concurrent use by multiple goroutines.
type Program interface {
	Pattern() string
	Flags() syntax.Flags
	GroupCount() int
	// GroupIndex returns the number of the named group, or -1.
	GroupIndex(name string) int
	Matcher(input []rune) Matcher
	// Split splits input around matches, see [Split].
	Split(input []rune, limit int) []string
}

// Matcher performs match operations on one input.
// A Matcher is not safe for concurrent use.
//
// Offset accessors return -1 when there is no current match or the group
// did not participate in it. Group accessors panic when the group does not
// exist.
type Matcher interface {
	Find() bool
	FindFrom(from int) bool
	Matches() bool
	LookingAt() bool

	Start() int
	End() int
	GroupStart(group int) int
	GroupEnd(group int) int
	Group() string
	GroupN(group int) string
	NamedGroup(name string) string
	GroupCount() int

	Region(start, end int)
	RegionStart() int
	RegionEnd() int
	HasTransparentBounds() bool
	UseTransparentBounds(b bool)
	HasAnchoringBounds() bool
	UseAnchoringBounds(b bool)
	HitEnd() bool
	RequireEnd() bool

	AppendReplacement(buf *strings.Builder, replacement string) error
	AppendTail(buf *strings.Builder)
	ReplaceAll(replacement string) (string, error)
	ReplaceFirst(replacement string) (string, error)

	// UsePattern switches to p, keeping the position and region.
	// p must come from this package.
	UsePattern(p Program)
	Reset()
	ResetInput(input []rune)
}

// Default returns the engine used when none is configured.
func Default() Engine {
	return Auto()
}
