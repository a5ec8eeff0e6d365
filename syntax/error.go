package syntax

import "fmt"

// An ErrorCode describes a failure to parse a regular expression.
type ErrorCode string

const (
	ErrMissingParen           ErrorCode = "Unclosed group"
	ErrUnexpectedParen        ErrorCode = "Unmatched closing ')'"
	ErrUnclosedClass          ErrorCode = "Unclosed character class"
	ErrIllegalRange           ErrorCode = "Illegal character range"
	ErrUnclosedHex            ErrorCode = "Unclosed hexadecimal escape sequence"
	ErrIllegalHex             ErrorCode = "Illegal hexadecimal escape sequence"
	ErrHexTooBig              ErrorCode = "Hexadecimal codepoint is too big"
	ErrIllegalUnicode         ErrorCode = "Illegal Unicode escape sequence"
	ErrIllegalOctal           ErrorCode = "Illegal octal escape sequence"
	ErrIllegalControl         ErrorCode = "Illegal control escape sequence"
	ErrIllegalRepetition      ErrorCode = "Illegal repetition"
	ErrIllegalRepetitionRange ErrorCode = "Illegal repetition range"
	ErrUnclosedCountedClosure ErrorCode = "Unclosed counted closure"
	ErrDanglingMeta           ErrorCode = "Dangling meta character"
	ErrIllegalEscape          ErrorCode = "Illegal/unsupported escape sequence"
	ErrTrailingBackslash      ErrorCode = "Unexpected trailing backslash"
	ErrUnterminatedQuote      ErrorCode = "Unterminated \\Q"
	ErrEmptyGroupName         ErrorCode = "named capturing group has 0 length name"
	ErrMissingGroupNameEnd    ErrorCode = "named capturing group is missing trailing '>'"
	ErrInvalidGroupName       ErrorCode = "capturing group name does not start with a Latin letter"
	ErrDuplicateGroupName     ErrorCode = "named capturing group is already defined"
	ErrUnknownGroupType       ErrorCode = "Unknown group type"
	ErrUnknownLookBehind      ErrorCode = "Unknown look-behind group"
	ErrUnknownInlineModifier  ErrorCode = "Unknown inline modifier"
	ErrUndefinedGroupName     ErrorCode = "named capturing group does not exist"
	ErrMalformedBackRef       ErrorCode = "\\k is not followed by '<' for named capturing group"
	ErrUndefinedGroup         ErrorCode = "reference to undefined group"
	ErrUnclosedFamily         ErrorCode = "Unclosed character family"
	ErrEmptyFamily            ErrorCode = "Empty character family"
)

func (e ErrorCode) String() string {
	return string(e)
}

// An Error describes a failure to parse a pattern.
// Offset is a rune offset into Pattern, which is always the text the
// caller supplied, never a rewritten form of it.
type Error struct {
	Code    ErrorCode
	Pattern string
	Offset  int
	// Detail names the offending group or property, if any.
	Detail string
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Detail != "" {
		msg += " <" + e.Detail + ">"
	}
	return fmt.Sprintf("error parsing regexp: %s near index %d: `%s`", msg, e.Offset, e.Pattern)
}

var _ error = (*Error)(nil)
