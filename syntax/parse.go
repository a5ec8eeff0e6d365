// Package syntax parses regular expressions written in the Java pattern
// grammar into a node tree, and rewrites that tree into a pattern which
// matches the reversed input.
package syntax

import (
	"strconv"
	"unicode"
	"unicode/utf16"
)

// Regexp is a parsed pattern.
type Regexp struct {
	Pattern string
	Flags   Flags
	Nodes   []*Node
	// Groups holds the capturing group nodes; Groups[i] is group i+1.
	Groups []*Node
	// Names maps group names to group numbers.
	Names map[string]int
}

// GroupCount returns the number of capturing groups.
func (re *Regexp) GroupCount() int {
	return len(re.Groups)
}

// GroupNames returns the name of every group, indexed by group number.
// Index 0 stands for the whole match; unnamed groups have an empty name.
func (re *Regexp) GroupNames() []string {
	names := make([]string, len(re.Groups)+1)
	for i, g := range re.Groups {
		names[i+1] = g.Name
	}
	return names
}

type parser struct {
	pattern string
	src     []rune
	pos     int
	flags   Flags
	groups  []*Node
	names   map[string]int
	refs    []*Node
}

// Parse parses pattern under flags.
// The returned error is always an *Error.
func Parse(pattern string, flags Flags) (*Regexp, error) {
	flags = flags.Normalize()
	p := &parser{
		pattern: pattern,
		src:     []rune(pattern),
		flags:   flags,
		names:   map[string]int{},
	}
	re := &Regexp{Pattern: pattern, Flags: flags, Names: p.names}
	if flags&Literal != 0 {
		re.Nodes = make([]*Node, len(p.src))
		for i, r := range p.src {
			re.Nodes[i] = &Node{Op: OpLiteral, Pos: i, Text: string(r), Rune: r}
		}
		return re, nil
	}
	nodes, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.more() {
		return nil, p.error(ErrUnexpectedParen, p.pos)
	}
	for _, ref := range p.refs {
		if ref.Group > len(p.groups) {
			return nil, p.errorDetail(ErrUndefinedGroup, ref.Pos, strconv.Itoa(ref.Group))
		}
	}
	re.Nodes = nodes
	re.Groups = p.groups
	return re, nil
}

// MustParse is like [Parse] but panics if the pattern cannot be parsed.
func MustParse(pattern string, flags Flags) *Regexp {
	re, err := Parse(pattern, flags)
	if err != nil {
		panic("syntax: MustParse: " + err.Error())
	}
	return re
}

func (p *parser) error(code ErrorCode, pos int) *Error {
	return &Error{Code: code, Pattern: p.pattern, Offset: pos}
}

func (p *parser) errorDetail(code ErrorCode, pos int, detail string) *Error {
	return &Error{Code: code, Pattern: p.pattern, Offset: pos, Detail: detail}
}

func (p *parser) more() bool {
	return p.pos < len(p.src)
}

func (p *parser) peek() rune {
	return p.src[p.pos]
}

// Returns -1 past the end of the pattern
func (p *parser) peekAt(n int) rune {
	if p.pos+n >= len(p.src) {
		return -1
	}
	return p.src[p.pos+n]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func isJavaSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\x0B', '\f', '\r':
		return true
	}
	return false
}

func (p *parser) isLineTerminator(r rune) bool {
	if p.flags&UnixLines != 0 {
		return r == '\n'
	}
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// skipIgnorable skips whitespace and comments in comments mode.
func (p *parser) skipIgnorable() {
	if p.flags&Comments == 0 {
		return
	}
	for p.more() {
		switch r := p.peek(); {
		case isJavaSpace(r):
			p.pos++
		case r == '#':
			for p.more() && !p.isLineTerminator(p.peek()) {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) addGroup(n *Node) {
	p.groups = append(p.groups, n)
	n.Group = len(p.groups)
}

func (p *parser) parseExpr() ([]*Node, error) {
	var nodes []*Node
	// modifiers switched on by earlier branches stay in effect
	var inherited []string
	for {
		start := p.pos
		branch, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		own := branchFlags(branch)
		for i := len(inherited) - 1; i >= 0; i-- {
			branch = []*Node{{Op: OpFlags, Pos: start, Flags: inherited[i], Implicit: true, Sub: branch}}
		}
		inherited = append(inherited, own...)
		nodes = append(nodes, branch...)
		if p.more() && p.peek() == '|' {
			nodes = append(nodes, &Node{Op: OpAlternate, Pos: p.pos})
			p.pos++
			continue
		}
		return nodes, nil
	}
}

// branchFlags collects the modifier groups written in a branch.
// An OpFlags node is always the last item of its list.
func branchFlags(nodes []*Node) []string {
	var flags []string
	for len(nodes) > 0 {
		last := nodes[len(nodes)-1]
		if last.Op != OpFlags {
			break
		}
		flags = append(flags, last.Flags)
		nodes = last.Sub
	}
	return flags
}

func (p *parser) parseSequence() ([]*Node, error) {
	var nodes []*Node
	for {
		p.skipIgnorable()
		if !p.more() {
			return nodes, nil
		}
		switch r := p.peek(); r {
		case '|', ')':
			return nodes, nil
		case '?', '*', '+':
			return nil, p.errorDetail(ErrDanglingMeta, p.pos, string(r))
		case '{':
			return nil, p.error(ErrIllegalRepetition, p.pos)
		}
		n, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if n.Op == OpFlags {
			rest, err := p.parseSequence()
			if err != nil {
				return nil, err
			}
			n.Sub = rest
			return append(nodes, n), nil
		}
		if n.Quant, err = p.parseQuantifier(); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

func (p *parser) parseAtom() (*Node, error) {
	start := p.pos
	switch r := p.peek(); r {
	case '(':
		return p.parseGroup()
	case '[':
		c, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		return &Node{Op: OpClass, Pos: start, Class: c}, nil
	case '\\':
		return p.parseEscape(false)
	case '.':
		p.pos++
		return &Node{Op: OpDot, Pos: start, Text: "."}, nil
	case '^', '$':
		p.pos++
		return &Node{Op: OpAnchor, Pos: start, Text: string(r)}, nil
	default:
		p.pos++
		return &Node{Op: OpLiteral, Pos: start, Text: string(r), Rune: r}, nil
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIAlnum(r rune) bool {
	return isASCIILetter(r) || isDigit(r)
}

func hexValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

const maxRepeat = 1 << 30

func (p *parser) parseInt() int {
	n := 0
	for p.more() && isDigit(p.peek()) {
		n = n*10 + int(p.next()-'0')
		if n > maxRepeat {
			n = maxRepeat
		}
	}
	return n
}

func (p *parser) parseQuantifier() (Quantifier, error) {
	p.skipIgnorable()
	var q Quantifier
	if !p.more() {
		return q, nil
	}
	start := p.pos
	switch p.peek() {
	case '?':
		q.Min, q.Max = 0, 1
		p.pos++
	case '*':
		q.Min, q.Max = 0, -1
		p.pos++
	case '+':
		q.Min, q.Max = 1, -1
		p.pos++
	case '{':
		p.pos++
		if !p.more() || !isDigit(p.peek()) {
			return q, p.error(ErrIllegalRepetition, start)
		}
		q.Min = p.parseInt()
		q.Max = q.Min
		if p.more() && p.peek() == ',' {
			p.pos++
			q.Max = -1
			if p.more() && isDigit(p.peek()) {
				q.Max = p.parseInt()
			}
		}
		if !p.more() || p.peek() != '}' {
			return q, p.error(ErrUnclosedCountedClosure, p.pos)
		}
		p.pos++
		if q.Max >= 0 && q.Max < q.Min {
			return q, p.error(ErrIllegalRepetitionRange, start)
		}
	default:
		return q, nil
	}
	if p.more() {
		switch p.peek() {
		case '?':
			q.Mode = Reluctant
			p.pos++
		case '+':
			q.Mode = Possessive
			p.pos++
		}
	}
	q.Text = string(p.src[start:p.pos])
	return q, nil
}

func (p *parser) parseGroup() (*Node, error) {
	start := p.pos
	p.pos++
	saved := p.flags
	n := &Node{Op: OpGroup, Pos: start}
	if p.more() && p.peek() == '?' {
		p.pos++
		if !p.more() {
			return nil, p.error(ErrUnknownInlineModifier, p.pos)
		}
		switch c := p.peek(); c {
		case ':':
			n.Kind = GroupNonCapture
			p.pos++
		case '=':
			n.Kind = GroupLookahead
			p.pos++
		case '!':
			n.Kind = GroupNegLookahead
			p.pos++
		case '>':
			n.Kind = GroupAtomic
			p.pos++
		case '$', '@':
			return nil, p.error(ErrUnknownGroupType, p.pos)
		case '<':
			p.pos++
			switch r := p.peekAt(0); {
			case r == '=':
				n.Kind = GroupLookbehind
				p.pos++
			case r == '!':
				n.Kind = GroupNegLookbehind
				p.pos++
			case r == '>' || isASCIIAlnum(r):
				name, err := p.parseGroupName()
				if err != nil {
					return nil, err
				}
				if _, dup := p.names[name]; dup {
					return nil, p.errorDetail(ErrDuplicateGroupName, start, name)
				}
				n.Kind = GroupCapture
				n.Name = name
				p.addGroup(n)
				p.names[name] = n.Group
			default:
				return nil, p.error(ErrUnknownLookBehind, p.pos)
			}
		default:
			text, flags, err := p.parseInlineFlags()
			if err != nil {
				return nil, err
			}
			p.flags = flags
			if p.next() == ')' {
				return &Node{Op: OpFlags, Pos: start, Flags: text}, nil
			}
			n.Kind = GroupFlags
			n.Flags = text
		}
	} else {
		n.Kind = GroupCapture
		p.addGroup(n)
	}
	sub, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.more() {
		return nil, p.error(ErrMissingParen, len(p.src))
	}
	p.pos++
	p.flags = saved
	n.Sub = sub
	return n, nil
}

// parseInlineFlags reads modifier letters up to, not including, the
// terminating ')' or ':'.
func (p *parser) parseInlineFlags() (string, Flags, error) {
	start := p.pos
	flags := p.flags
	negate := false
	for p.more() {
		switch c := p.peek(); {
		case c == ')' || c == ':':
			return string(p.src[start:p.pos]), flags, nil
		case c == '-' && !negate:
			negate = true
		default:
			f, ok := flagForLetter(c)
			if !ok {
				return "", 0, p.error(ErrUnknownInlineModifier, p.pos)
			}
			if negate {
				flags &^= f
			} else {
				flags |= f
			}
		}
		p.pos++
	}
	return "", 0, p.error(ErrUnknownInlineModifier, p.pos)
}

// parseGroupName reads a group name and its closing '>'.
// The opening '<' must already be consumed.
func (p *parser) parseGroupName() (string, error) {
	start := p.pos
	for p.more() && isASCIIAlnum(p.peek()) {
		p.pos++
	}
	name := string(p.src[start:p.pos])
	if !p.more() || p.peek() != '>' {
		return "", p.error(ErrMissingGroupNameEnd, p.pos)
	}
	p.pos++
	if name == "" {
		return "", p.error(ErrEmptyGroupName, start)
	}
	if !isASCIILetter(rune(name[0])) {
		return "", p.errorDetail(ErrInvalidGroupName, start, name)
	}
	return name, nil
}

// parseEscape parses an escape sequence starting at the backslash.
// Inside a bracket expression only escapes that denote characters or
// sets are accepted.
func (p *parser) parseEscape(inClass bool) (*Node, error) {
	start := p.pos
	p.pos++
	if !p.more() {
		return nil, p.error(ErrTrailingBackslash, start)
	}
	c := p.next()
	lit := func(r rune) (*Node, error) {
		return &Node{Op: OpLiteral, Pos: start, Text: string(p.src[start:p.pos]), Rune: r}, nil
	}
	switch c {
	case '0':
		return p.parseOctal(start)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if inClass {
			break
		}
		return p.parseBackRef(start, c), nil
	case 'k':
		if inClass {
			break
		}
		return p.parseNamedBackRef(start)
	case 'A', 'z', 'Z':
		if inClass {
			break
		}
		return &Node{Op: OpAnchor, Pos: start, Text: string(p.src[start:p.pos])}, nil
	case 'b', 'B', 'G', 'R', 'X':
		if inClass {
			break
		}
		return &Node{Op: OpEscape, Pos: start, Text: string(p.src[start:p.pos])}, nil
	case 'd', 'D', 's', 'S', 'w', 'W', 'h', 'H', 'v', 'V':
		return &Node{Op: OpEscape, Pos: start, Text: string(p.src[start:p.pos])}, nil
	case 'p', 'P':
		return p.parseFamily(start)
	case 'Q':
		return p.parseQuote(start)
	case 't':
		return lit('\t')
	case 'n':
		return lit('\n')
	case 'r':
		return lit('\r')
	case 'f':
		return lit('\f')
	case 'a':
		return lit('\a')
	case 'e':
		return lit('\x1B')
	case 'c':
		if !p.more() {
			return nil, p.error(ErrIllegalControl, start)
		}
		return lit(p.next() ^ 64)
	case 'x':
		return p.parseHex(start)
	case 'u':
		return p.parseUnicode(start)
	default:
		if !isASCIILetter(c) {
			return lit(c)
		}
	}
	return nil, p.errorDetail(ErrIllegalEscape, start, `\`+string(c))
}

func (p *parser) peekOctal() int {
	if p.more() && p.peek() >= '0' && p.peek() <= '7' {
		return int(p.peek() - '0')
	}
	return -1
}

func (p *parser) parseOctal(start int) (*Node, error) {
	lit := func(v int) (*Node, error) {
		return &Node{Op: OpLiteral, Pos: start, Text: string(p.src[start:p.pos]), Rune: rune(v)}, nil
	}
	n := p.peekOctal()
	if n < 0 {
		return nil, p.error(ErrIllegalOctal, start)
	}
	p.pos++
	m := p.peekOctal()
	if m < 0 {
		return lit(n)
	}
	p.pos++
	if o := p.peekOctal(); o >= 0 && n <= 3 {
		p.pos++
		return lit(n*64 + m*8 + o)
	}
	return lit(n*8 + m)
}

// parseBackRef reads as many digits as still name a group defined so far.
func (p *parser) parseBackRef(start int, first rune) *Node {
	ref := int(first - '0')
	for p.more() && isDigit(p.peek()) {
		next := ref*10 + int(p.peek()-'0')
		if next > len(p.groups) {
			break
		}
		ref = next
		p.pos++
	}
	n := &Node{Op: OpBackRef, Pos: start, Text: string(p.src[start:p.pos]), Group: ref}
	p.refs = append(p.refs, n)
	return n
}

func (p *parser) parseNamedBackRef(start int) (*Node, error) {
	if !p.more() || p.peek() != '<' {
		return nil, p.error(ErrMalformedBackRef, start)
	}
	p.pos++
	name, err := p.parseGroupName()
	if err != nil {
		return nil, err
	}
	g, ok := p.names[name]
	if !ok {
		return nil, p.errorDetail(ErrUndefinedGroupName, start, name)
	}
	return &Node{Op: OpBackRef, Pos: start, Text: string(p.src[start:p.pos]), Group: g, Name: name}, nil
}

func (p *parser) parseFamily(start int) (*Node, error) {
	if !p.more() {
		return nil, p.error(ErrEmptyFamily, start)
	}
	if p.peek() == '{' {
		p.pos++
		nameStart := p.pos
		for p.more() && p.peek() != '}' {
			p.pos++
		}
		if !p.more() {
			return nil, p.error(ErrUnclosedFamily, start)
		}
		if p.pos == nameStart {
			return nil, p.error(ErrEmptyFamily, start)
		}
	}
	p.pos++
	return &Node{Op: OpEscape, Pos: start, Text: string(p.src[start:p.pos])}, nil
}

// parseQuote reads up to the first \E; nothing inside is an escape.
func (p *parser) parseQuote(start int) (*Node, error) {
	content := p.pos
	for i := p.pos; i+1 < len(p.src); i++ {
		if p.src[i] == '\\' && p.src[i+1] == 'E' {
			p.pos = i + 2
			return &Node{Op: OpQuote, Pos: start, Text: string(p.src[content:i])}, nil
		}
	}
	return nil, p.error(ErrUnterminatedQuote, start)
}

func (p *parser) parseHex(start int) (*Node, error) {
	lit := func(r rune) (*Node, error) {
		return &Node{Op: OpLiteral, Pos: start, Text: string(p.src[start:p.pos]), Rune: r}, nil
	}
	if p.more() && p.peek() == '{' {
		p.pos++
		digits := p.pos
		v := 0
		for p.more() && hexValue(p.peek()) >= 0 {
			v = v*16 + hexValue(p.next())
			if v > unicode.MaxRune {
				return nil, p.error(ErrHexTooBig, start)
			}
		}
		if p.pos == digits {
			return nil, p.error(ErrIllegalHex, start)
		}
		if !p.more() || p.peek() != '}' {
			return nil, p.error(ErrUnclosedHex, start)
		}
		p.pos++
		return lit(rune(v))
	}
	hi, lo := hexValue(p.peekAt(0)), hexValue(p.peekAt(1))
	if hi < 0 || lo < 0 {
		return nil, p.error(ErrIllegalHex, start)
	}
	p.pos += 2
	return lit(rune(hi*16 + lo))
}

func (p *parser) hex4() (rune, bool) {
	if p.pos+4 > len(p.src) {
		return 0, false
	}
	v := 0
	for _, r := range p.src[p.pos : p.pos+4] {
		d := hexValue(r)
		if d < 0 {
			return 0, false
		}
		v = v*16 + d
	}
	p.pos += 4
	return rune(v), true
}

func (p *parser) parseUnicode(start int) (*Node, error) {
	r, ok := p.hex4()
	if !ok {
		return nil, p.error(ErrIllegalUnicode, start)
	}
	if r >= 0xD800 && r < 0xDC00 && p.peekAt(0) == '\\' && p.peekAt(1) == 'u' {
		save := p.pos
		p.pos += 2
		if lo, ok := p.hex4(); ok && lo >= 0xDC00 && lo < 0xE000 {
			r = utf16.DecodeRune(r, lo)
		} else {
			p.pos = save
		}
	}
	return &Node{Op: OpLiteral, Pos: start, Text: string(p.src[start:p.pos]), Rune: r}, nil
}

// parseClass parses a bracket expression, including nested brackets and
// intersections, up to its true closing bracket.
func (p *parser) parseClass() (*Class, error) {
	p.pos++
	c := &Class{}
	if p.more() && p.peek() == '^' {
		c.Negated = true
		p.pos++
	}
	first := true
	for {
		p.skipIgnorable()
		if !p.more() {
			return nil, p.error(ErrUnclosedClass, len(p.src))
		}
		switch r := p.peek(); {
		case r == ']' && !first:
			p.pos++
			return c, nil
		case r == '[':
			sub, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			c.Items = append(c.Items, ClassItem{Op: ClassNested, Class: sub})
		case r == '&' && p.peekAt(1) == '&':
			p.pos += 2
			c.Items = append(c.Items, ClassItem{Op: ClassIntersect})
		default:
			start := p.pos
			it, err := p.parseClassAtom()
			if err != nil {
				return nil, err
			}
			if it.Op == ClassRune && p.peekAt(0) == '-' {
				if end := p.peekAt(1); end != ']' && end != '[' && end != -1 {
					p.pos++
					hi, err := p.parseClassAtom()
					if err != nil {
						return nil, err
					}
					if hi.Op != ClassRune || hi.Lo < it.Lo {
						return nil, p.error(ErrIllegalRange, start)
					}
					it = ClassItem{Op: ClassRange, Text: it.Text, HiText: hi.Text, Lo: it.Lo, Hi: hi.Lo}
				}
			}
			c.Items = append(c.Items, it)
		}
		first = false
	}
}

func (p *parser) parseClassAtom() (ClassItem, error) {
	r := p.peek()
	if r != '\\' {
		p.pos++
		return ClassItem{Op: ClassRune, Text: string(r), Lo: r, Hi: r}, nil
	}
	n, err := p.parseEscape(true)
	if err != nil {
		return ClassItem{}, err
	}
	switch n.Op {
	case OpLiteral:
		return ClassItem{Op: ClassRune, Text: n.Text, Lo: n.Rune, Hi: n.Rune}, nil
	case OpQuote:
		return ClassItem{Op: ClassQuote, Text: n.Text}, nil
	default:
		return ClassItem{Op: ClassEscape, Text: n.Text}, nil
	}
}
