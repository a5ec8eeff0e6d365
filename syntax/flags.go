package syntax

import (
	"fmt"
	"strings"
)

// Flags is a bitmask of pattern options.
// The zero value compiles the pattern with no options.
// Bit values are those of java.util.regex.Pattern, so flag sets can be
// exchanged with Java code as plain integers.
type Flags uint16

const (
	// Only "\n" is recognized as a line terminator ("d" flag).
	UnixLines Flags = 1 << iota

	// Case-insensitive matching ("i" flag).
	CaseInsensitive

	// Whitespace and "#" comments in the pattern are ignored ("x" flag).
	Comments

	// "^" and "$" match at line boundaries ("m" flag).
	Multiline

	// The pattern is a literal string, metacharacters have no meaning.
	Literal

	// "." matches line terminators ("s" flag).
	DotAll

	// Case folding follows Unicode rules ("u" flag).
	UnicodeCase

	// Canonical equivalence ("c" flag).
	CanonEq

	// Predefined and POSIX classes use Unicode definitions ("U" flag).
	// Setting it implies UnicodeCase.
	UnicodeCharacterClass
)

var flagLetters = []struct {
	flag   Flags
	letter rune
}{
	{CaseInsensitive, 'i'},
	{UnixLines, 'd'},
	{Multiline, 'm'},
	{DotAll, 's'},
	{UnicodeCase, 'u'},
	{CanonEq, 'c'},
	{Comments, 'x'},
	{UnicodeCharacterClass, 'U'},
}

func flagForLetter(r rune) (Flags, bool) {
	for _, fl := range flagLetters {
		if fl.letter == r {
			if fl.flag == UnicodeCharacterClass {
				return fl.flag | UnicodeCase, true
			}
			return fl.flag, true
		}
	}
	return 0, false
}

// ParseFlags converts inline modifier letters ("idmsucxU") into Flags.
func ParseFlags(s string) (Flags, error) {
	var flags Flags
	for _, r := range s {
		f, ok := flagForLetter(r)
		if !ok {
			return 0, fmt.Errorf("syntax: unknown flag %q", r)
		}
		flags |= f
	}
	return flags, nil
}

// ApplyFlags returns f updated by the modifier text of an inline flag
// group, e.g. "i-s". Unknown letters are ignored.
func ApplyFlags(f Flags, text string) Flags {
	negate := false
	for _, r := range text {
		if r == '-' {
			negate = true
			continue
		}
		fl, ok := flagForLetter(r)
		if !ok {
			continue
		}
		if negate {
			f &^= fl
		} else {
			f |= fl
		}
	}
	return f
}

// Normalize returns f with implied flags set.
func (f Flags) Normalize() Flags {
	if f&UnicodeCharacterClass != 0 {
		f |= UnicodeCase
	}
	return f
}

// String returns the inline modifier letters of f.
// Literal has no letter and is not represented.
func (f Flags) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f&fl.flag != 0 {
			b.WriteRune(fl.letter)
		}
	}
	return b.String()
}
