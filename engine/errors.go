package engine

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoMatch is returned by AppendReplacement when the matcher has no
// current match.
var ErrNoMatch = errors.New("engine: no match available")

// UnsupportedError reports a construct that a backend cannot express.
type UnsupportedError struct {
	Engine    string
	Construct string
	// Offset is the rune offset of the construct in the pattern.
	Offset int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("engine: %s does not support %s near index %d", e.Engine, e.Construct, e.Offset)
}

// TemplateError reports an invalid replacement template.
type TemplateError struct {
	Template string
	Offset   int
	Msg      string
}

func (e *TemplateError) Error() string {
	return "engine: invalid replacement " + strconv.Quote(e.Template) + " at index " + strconv.Itoa(e.Offset) + ": " + e.Msg
}
