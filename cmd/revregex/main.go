// Command revregex reverses Java regular expressions and runs them over text
// from its end towards its start.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/auvred/revregex"
	"github.com/auvred/revregex/engine"
	"github.com/auvred/revregex/syntax"
)

const (
	appName    = "revregex"
	appVersion = "0.1.0"
)

// arrayFlags collects a repeated string flag.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

var engines = map[string]func() engine.Engine{
	"auto":    engine.Auto,
	"regexp2": engine.Regexp2,
	"coregex": engine.Coregex,
}

// errUsage is returned after the usage text has been printed.
var errUsage = errors.New("usage")

// options are the flags shared by the matching commands.
type options struct {
	flags      string
	literal    bool
	engineName string
	forward    bool
	verbose    bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.flags, "flags", "", "pattern flags as inline modifier letters (idmsucxU)")
	fs.BoolVar(&o.literal, "literal", false, "treat the pattern as a literal string")
	fs.StringVar(&o.engineName, "engine", "auto", "engine to run the pattern: auto, regexp2 or coregex")
	fs.BoolVar(&o.forward, "forward", false, "match forwards instead of reversing the pattern")
	fs.BoolVar(&o.verbose, "v", false, "log reversal and engine decisions to stderr")
}

func (o *options) patternFlags() (revregex.Flags, error) {
	flags, err := syntax.ParseFlags(o.flags)
	if err != nil {
		return 0, err
	}
	if o.literal {
		flags |= revregex.Literal
	}
	return flags, nil
}

func (o *options) engine() (engine.Engine, error) {
	newEngine, ok := engines[o.engineName]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", o.engineName)
	}
	return newEngine(), nil
}

// compile builds the pattern the way the options ask for and logs what
// the reversal did.
func (o *options) compile(pattern string, log *Logger) (revregex.Pattern, error) {
	flags, err := o.patternFlags()
	if err != nil {
		return nil, err
	}
	e, err := o.engine()
	if err != nil {
		return nil, err
	}
	log.Section("Pattern")
	log.Log("Pattern: %s", pattern)
	log.Log("Flags: %q", flags.String())
	log.Log("Engine: %s", o.engineName)
	if o.forward {
		return revregex.CompileForward(pattern, flags, revregex.WithEngine(e))
	}
	p, err := revregex.Compile(pattern, flags, revregex.WithEngine(e))
	if err != nil {
		return nil, err
	}
	log.Reversal(p)
	return p, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printHelp(stderr)
		return 2
	}
	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "reverse":
		err = runReverse(rest, stdout, stderr)
	case "find":
		err = runFind(rest, stdin, stdout, stderr)
	case "split":
		err = runSplit(rest, stdin, stdout, stderr)
	case "replace":
		err = runReplace(rest, stdin, stdout, stderr)
	case "gen":
		err = runGen(rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "%s version %s\n", appName, appVersion)
	case "help", "-h", "-help", "--help":
		printHelp(stdout)
	default:
		fmt.Fprintf(stderr, "Error: unknown command '%s'\n\n", cmd)
		printHelp(stderr)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `%s reverses Java regular expressions and matches them backwards.

Usage:
  %[1]s reverse [-flags f] [-literal] [-v] pattern...
  %[1]s find    [options] -e pattern [-e pattern]... [-from k] [text]
  %[1]s split   [options] [-limit n] pattern [text]
  %[1]s replace [options] [-first] pattern replacement [text]
  %[1]s gen     [-v] [-o file] config.yaml
  %[1]s version

Text is read from standard input when it is not given as an argument.
Offsets are code point indexes into the original text.
`, appName)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// readText returns the remaining argument, or standard input without its
// final newline.
func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(bufio.NewReader(stdin))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func runReverse(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("reverse", stderr)
	var o options
	fs.StringVar(&o.flags, "flags", "", "pattern flags as inline modifier letters (idmsucxU)")
	fs.BoolVar(&o.literal, "literal", false, "treat the pattern as a literal string")
	fs.BoolVar(&o.verbose, "v", false, "log group numbering to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	flags, err := o.patternFlags()
	if err != nil {
		return err
	}
	log := NewLogger(stderr, o.verbose)
	for _, pattern := range fs.Args() {
		p, err := revregex.Compile(pattern, flags)
		if err != nil {
			return err
		}
		log.Section(pattern)
		log.Reversal(p)
		fmt.Fprintln(stdout, p.Pattern())
	}
	return nil
}

func runFind(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("find", stderr)
	var o options
	o.register(fs)
	var patterns arrayFlags
	fs.Var(&patterns, "e", "pattern to search for (repeatable)")
	from := fs.Int("from", -1, "only report matches starting at or after this offset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(patterns) == 0 {
		fs.Usage()
		return errUsage
	}
	text, err := readText(fs.Args(), stdin)
	if err != nil {
		return err
	}
	log := NewLogger(stderr, o.verbose)
	for _, pattern := range patterns {
		p, err := o.compile(pattern, log)
		if err != nil {
			return err
		}
		m, err := p.Matcher(text)
		if err != nil {
			return err
		}
		found := m.Find
		if *from >= 0 {
			first := true
			found = func() bool {
				if first {
					first = false
					return m.FindFrom(*from)
				}
				return m.Find()
			}
		}
		n := 0
		for found() {
			n++
			if len(patterns) > 1 {
				fmt.Fprintf(stdout, "%s\t", pattern)
			}
			fmt.Fprintf(stdout, "%d\t%d\t%s", m.Start(), m.End(), m.Group())
			for g := 1; g <= m.GroupCount(); g++ {
				fmt.Fprintf(stdout, "\t%s", m.GroupN(g))
			}
			fmt.Fprintln(stdout)
		}
		log.Log("Matches: %d", n)
	}
	return nil
}

func runSplit(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("split", stderr)
	var o options
	o.register(fs)
	limit := fs.Int("limit", 0, "maximum number of fragments; negative keeps trailing empty ones")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	text, err := readText(fs.Args()[1:], stdin)
	if err != nil {
		return err
	}
	log := NewLogger(stderr, o.verbose)
	p, err := o.compile(fs.Arg(0), log)
	if err != nil {
		return err
	}
	parts, err := p.Split(text, *limit)
	if err != nil {
		return err
	}
	for _, part := range parts {
		fmt.Fprintln(stdout, part)
	}
	return nil
}

func runReplace(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("replace", stderr)
	var o options
	o.register(fs)
	first := fs.Bool("first", false, "replace only the first match found")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return errUsage
	}
	text, err := readText(fs.Args()[2:], stdin)
	if err != nil {
		return err
	}
	log := NewLogger(stderr, o.verbose)
	p, err := o.compile(fs.Arg(0), log)
	if err != nil {
		return err
	}
	m, err := p.Matcher(text)
	if err != nil {
		return err
	}
	var out string
	if *first {
		out, err = m.ReplaceFirst(fs.Arg(1))
	} else {
		out, err = m.ReplaceAll(fs.Arg(1))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}
