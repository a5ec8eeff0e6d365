package engine

import "github.com/auvred/revregex/syntax"

type autoEngine struct{}

// Auto returns an engine that compiles a pattern with coregex when coregex
// accepts it and with regexp2 otherwise.
func Auto() Engine {
	return autoEngine{}
}

func (autoEngine) Compile(pattern string, flags syntax.Flags) (Program, error) {
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	if p, err := compileCoregex(re); err == nil {
		return p, nil
	}
	p, err := compileRegexp2(re)
	if err != nil {
		return nil, err
	}
	return p, nil
}
