package main

import (
	"fmt"
	"io"

	"github.com/auvred/revregex"
)

// Logger prints verbose diagnostics, such as the reversed form of each
// compiled pattern, to the error stream of a command.
type Logger struct {
	enabled bool
	out     io.Writer
}

// NewLogger creates a logger writing to w. A disabled logger prints nothing.
func NewLogger(w io.Writer, enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     w,
	}
}

// Enabled returns whether the logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Log prints a formatted message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[revregex] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l.enabled {
		fmt.Fprintf(l.out, "\n[revregex] === %s ===\n", name)
	}
}

// Reversal prints the reversed pattern and where each original group
// went.
func (l *Logger) Reversal(p *revregex.ReversePattern) {
	if !l.enabled {
		return
	}
	l.Log("Reversed: %s", p.Pattern())
	for g := 1; g <= p.GroupCount(); g++ {
		l.Log("Group %d -> %d", g, p.ReversedGroup(g))
	}
}
