package main

import (
	"fmt"
	"go/token"
	"io"
	"os"

	"github.com/dave/jennifer/jen"
	"gopkg.in/yaml.v2"

	"github.com/auvred/revregex"
	"github.com/auvred/revregex/syntax"
)

const revregexPkg = "github.com/auvred/revregex"

// GenConfig is the batch file read by the gen command.
type GenConfig struct {
	Package  string       `yaml:"package"`
	Patterns []GenPattern `yaml:"patterns"`
}

// GenPattern declares one package-level pattern variable.
type GenPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Flags   string `yaml:"flags"`
	Literal bool   `yaml:"literal"`
	// Forward declares a pattern that is not reversed.
	Forward bool `yaml:"forward"`
}

var flagConstants = []struct {
	flag revregex.Flags
	name string
}{
	{revregex.UnixLines, "UnixLines"},
	{revregex.CaseInsensitive, "CaseInsensitive"},
	{revregex.Comments, "Comments"},
	{revregex.Multiline, "Multiline"},
	{revregex.Literal, "Literal"},
	{revregex.DotAll, "DotAll"},
	{revregex.UnicodeCase, "UnicodeCase"},
	{revregex.CanonEq, "CanonEq"},
	{revregex.UnicodeCharacterClass, "UnicodeCharacterClass"},
}

// flagsCode renders flags as an expression over the package constants.
func flagsCode(flags revregex.Flags) *jen.Statement {
	var expr *jen.Statement
	for _, fc := range flagConstants {
		if flags&fc.flag == 0 {
			continue
		}
		if expr == nil {
			expr = jen.Qual(revregexPkg, fc.name)
		} else {
			expr = expr.Op("|").Qual(revregexPkg, fc.name)
		}
	}
	if expr == nil {
		return jen.Lit(0)
	}
	return expr
}

func loadGenConfig(path string) (*GenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg GenConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !token.IsIdentifier(cfg.Package) {
		return nil, fmt.Errorf("%s: invalid package name %q", path, cfg.Package)
	}
	return &cfg, nil
}

// Generate writes a Go file declaring one variable per configured pattern.
// Every pattern is compiled first so that a bad one fails generation
// instead of panicking at init time.
func Generate(cfg *GenConfig, w io.Writer, log *Logger) error {
	f := jen.NewFile(cfg.Package)
	f.HeaderComment("Code generated by revregex gen. DO NOT EDIT.")

	seen := make(map[string]bool)
	for _, gp := range cfg.Patterns {
		if !token.IsIdentifier(gp.Name) {
			return fmt.Errorf("invalid pattern name %q", gp.Name)
		}
		if seen[gp.Name] {
			return fmt.Errorf("duplicate pattern name %q", gp.Name)
		}
		seen[gp.Name] = true

		flags, err := syntax.ParseFlags(gp.Flags)
		if err != nil {
			return fmt.Errorf("%s: %w", gp.Name, err)
		}
		if gp.Literal {
			flags |= revregex.Literal
		}

		log.Section(gp.Name)
		log.Log("Pattern: %s", gp.Pattern)
		ctor := "MustCompile"
		if gp.Forward {
			ctor = "MustCompileForward"
			if _, err := revregex.CompileForward(gp.Pattern, flags); err != nil {
				return fmt.Errorf("%s: %w", gp.Name, err)
			}
			f.Commentf("%s matches %q.", gp.Name, gp.Pattern)
		} else {
			p, err := revregex.Compile(gp.Pattern, flags)
			if err != nil {
				return fmt.Errorf("%s: %w", gp.Name, err)
			}
			log.Reversal(p)
			f.Commentf("%s matches %q from the end of the text.", gp.Name, gp.Pattern)
		}
		f.Var().Id(gp.Name).Op("=").Qual(revregexPkg, ctor).Call(
			jen.Lit(gp.Pattern),
			flagsCode(flags),
		)
	}
	return f.Render(w)
}

func runGen(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("gen", stderr)
	output := fs.String("o", "", "output file (default: standard output)")
	verbose := fs.Bool("v", false, "log every reversal to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	cfg, err := loadGenConfig(fs.Arg(0))
	if err != nil {
		return err
	}
	log := NewLogger(stderr, *verbose)

	if *output == "" {
		return Generate(cfg, stdout, log)
	}
	out, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := Generate(cfg, out, log); err != nil {
		out.Close()
		os.Remove(*output)
		return err
	}
	return out.Close()
}
