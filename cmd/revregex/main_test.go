package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/auvred/revregex"
)

func TestArrayFlags(t *testing.T) {
	var flags arrayFlags
	assert.Equal(t, flags.String(), "")
	assert.NilError(t, flags.Set("a+"))
	assert.NilError(t, flags.Set("[$0]"))
	assert.DeepEqual(t, []string(flags), []string{"a+", "[$0]"})
	assert.Equal(t, flags.String(), "a+, [$0]")
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCmd(stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

func TestRunReverse(t *testing.T) {
	r := runCmd("", "reverse", `\b(id)\b\s*=\s*(.+?)\s*;$`, "(a)(b)")
	assert.Equal(t, r.code, 0, r.stderr)
	assert.Equal(t, r.stdout, "^;\\s*(.+?)\\s*=\\s*\\b(di)\\b\n(b)(a)\n")
	assert.Equal(t, r.stderr, "")

	r = runCmd("", "reverse", "-v", "(a)(b)")
	assert.Equal(t, r.code, 0)
	assert.Assert(t, is.Contains(r.stderr, "[revregex] Reversed: (b)(a)"))
	assert.Assert(t, is.Contains(r.stderr, "[revregex] Group 1 -> 2"))

	r = runCmd("", "reverse", "-literal", "a.b")
	assert.Equal(t, r.stdout, "b.a\n")

	r = runCmd("", "reverse", "(a")
	assert.Equal(t, r.code, 1)
	assert.Assert(t, is.Contains(r.stderr, "Unclosed group near index 2"))

	r = runCmd("", "reverse")
	assert.Equal(t, r.code, 2)
}

func TestRunFind(t *testing.T) {
	r := runCmd("", "find", "-e", `\b(id)\b\s*=\s*(.+?)\s*;$`, "test.id  = def;")
	assert.Equal(t, r.code, 0, r.stderr)
	assert.Equal(t, r.stdout, "5\t15\tid  = def;\tid\tdef\n")

	r = runCmd("a1 b22\n", "find", "-e", `\d+`)
	assert.Equal(t, r.stdout, "4\t6\t22\n1\t2\t1\n")

	r = runCmd("a1 b22", "find", "-forward", "-e", `\d+`)
	assert.Equal(t, r.stdout, "1\t2\t1\n4\t6\t22\n")

	r = runCmd("a1 b22", "find", "-from", "3", "-e", `\d+`)
	assert.Equal(t, r.stdout, "4\t6\t22\n")

	r = runCmd("ab", "find", "-e", "a", "-e", "b")
	assert.Equal(t, r.stdout, "a\t0\t1\ta\nb\t1\t2\tb\n")

	r = runCmd("AB", "find", "-flags", "i", "-engine", "coregex", "-e", "a")
	assert.Equal(t, r.stdout, "0\t1\tA\n")

	r = runCmd("x", "find", "-engine", "pcre", "-e", "a")
	assert.Equal(t, r.code, 1)
	assert.Assert(t, is.Contains(r.stderr, `unknown engine "pcre"`))

	r = runCmd("x", "find", "-flags", "q", "-e", "a")
	assert.Equal(t, r.code, 1)
}

func TestRunSplit(t *testing.T) {
	r := runCmd("", "split", ",", "a,b,,c")
	assert.Equal(t, r.code, 0, r.stderr)
	assert.Equal(t, r.stdout, "c\n\nb\na\n")

	r = runCmd("a,b,,c", "split", "-forward", "-limit", "2", ",")
	assert.Equal(t, r.stdout, "a\nb,,c\n")
}

func TestRunReplace(t *testing.T) {
	r := runCmd("", "replace", `(\w)(\d)`, "$2$1", "a1 b2")
	assert.Equal(t, r.code, 0, r.stderr)
	assert.Equal(t, r.stdout, "1a 2b\n")

	r = runCmd("a1 b2", "replace", "-first", `\d`, "#")
	assert.Equal(t, r.stdout, "a1 b#\n")

	r = runCmd("a1", "replace", `\d`, "$3")
	assert.Equal(t, r.code, 1)
	assert.Assert(t, is.Contains(r.stderr, "No group 3"))
}

func TestRunCommands(t *testing.T) {
	r := runCmd("", "version")
	assert.Equal(t, r.stdout, "revregex version 0.1.0\n")

	r = runCmd("", "bogus")
	assert.Equal(t, r.code, 2)
	assert.Assert(t, is.Contains(r.stderr, "unknown command 'bogus'"))

	r = runCmd("")
	assert.Equal(t, r.code, 2)
	assert.Assert(t, is.Contains(r.stderr, "Usage:"))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	assert.NilError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunGen(t *testing.T) {
	path := writeConfig(t, `package: patterns
patterns:
  - name: Assignment
    pattern: '\b(id)\b\s*=\s*(.+?)\s*;$'
  - name: Word
    pattern: '[a-z]+'
    flags: im
  - name: Dot
    pattern: 'a.b'
    literal: true
    forward: true
`)
	out := filepath.Join(t.TempDir(), "patterns.go")
	r := runCmd("", "gen", "-o", out, path)
	assert.Equal(t, r.code, 0, r.stderr)

	data, err := os.ReadFile(out)
	assert.NilError(t, err)
	src := string(data)
	assert.Assert(t, strings.HasPrefix(src, "// Code generated by revregex gen. DO NOT EDIT."))
	assert.Assert(t, is.Contains(src, "package patterns"))
	assert.Assert(t, is.Contains(src, `var Assignment = revregex.MustCompile("\\b(id)\\b\\s*=\\s*(.+?)\\s*;$", 0)`))
	assert.Assert(t, is.Contains(src, `var Word = revregex.MustCompile("[a-z]+", revregex.CaseInsensitive|revregex.Multiline)`))
	assert.Assert(t, is.Contains(src, `var Dot = revregex.MustCompileForward("a.b", revregex.Literal)`))
	assert.Assert(t, is.Contains(src, `// Word matches "[a-z]+" from the end of the text.`))
}

func TestRunGenErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		msg    string
	}{
		{"bad pattern", "package: p\npatterns:\n  - name: Bad\n    pattern: '(a'\n", "Bad: error parsing regexp"},
		{"bad name", "package: p\npatterns:\n  - name: 1x\n    pattern: a\n", `invalid pattern name "1x"`},
		{"duplicate", "package: p\npatterns:\n  - name: A\n    pattern: a\n  - name: A\n    pattern: b\n", `duplicate pattern name "A"`},
		{"bad package", "package: 'p-q'\n", `invalid package name "p-q"`},
		{"unknown field", "package: p\nextra: 1\n", "field extra not found"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := runCmd("", "gen", writeConfig(t, test.config))
			assert.Equal(t, r.code, 1)
			assert.Assert(t, is.Contains(r.stderr, test.msg))
		})
	}
}

func TestLogger(t *testing.T) {
	p, err := revregex.Compile("(a)(b)", 0)
	assert.NilError(t, err)

	var buf bytes.Buffer
	log := NewLogger(&buf, false)
	assert.Assert(t, !log.Enabled())
	log.Section("quiet")
	log.Reversal(p)
	assert.Equal(t, buf.String(), "")

	log = NewLogger(&buf, true)
	assert.Assert(t, log.Enabled())
	log.Section("Pattern")
	log.Reversal(p)
	assert.Equal(t, buf.String(), "\n[revregex] === Pattern ===\n"+
		"[revregex] Reversed: (b)(a)\n"+
		"[revregex] Group 1 -> 2\n"+
		"[revregex] Group 2 -> 1\n")
}
