package engine

import (
	"slices"
	"strings"
	"unicode"
)

type charRange struct {
	lo rune
	hi rune
}

// charSet is a set of code points that can be written both as a bracket
// expression and as the body of a larger one.
type charSet struct {
	// Non-overlapping ranges sorted in ascending order
	chars []charRange
	// props and negProps are Go unicode category or script names, written
	// \p{Name} and \P{Name}. resolve expands them into chars.
	props    []string
	negProps []string
	neg      bool
}

func runes(pairs ...rune) charSet {
	var s charSet
	for i := 0; i+1 < len(pairs); i += 2 {
		s.union(&charSet{chars: []charRange{{lo: pairs[i], hi: pairs[i+1]}}})
	}
	return s
}

func props(names ...string) charSet {
	return charSet{props: names}
}

// union adds the members of other to s. Neither may be negated.
func (s *charSet) union(other *charSet) {
	if s.chars == nil {
		s.chars = slices.Clone(other.chars)
	} else if other.chars != nil {
		chars := []charRange{}

		i := 0
		j := 0

		for {
			var next charRange
			if i < len(s.chars) && (j >= len(other.chars) || s.chars[i].lo < other.chars[j].lo) {
				next = s.chars[i]
				i++
			} else if j < len(other.chars) {
				next = other.chars[j]
				j++
			} else {
				break
			}
			if len(chars) == 0 {
				chars = append(chars, next)
				continue
			}
			r := &chars[len(chars)-1]
			if next.hi <= r.hi {
				continue
			}
			if next.lo <= r.hi+1 {
				r.hi = next.hi
				continue
			}
			chars = append(chars, next)
		}
		s.chars = chars
	}
	s.props = append(s.props, other.props...)
	s.negProps = append(s.negProps, other.negProps...)
}

func (s *charSet) unionChar(r rune) {
	i, found := slices.BinarySearchFunc(s.chars, r, func(c charRange, r rune) int {
		switch {
		case c.hi < r:
			return -1
		case c.lo > r:
			return 1
		}
		return 0
	})
	if found {
		return
	}
	// s.chars[i-1].hi < r < s.chars[i].lo
	joinsLeft := i > 0 && s.chars[i-1].hi+1 == r
	joinsRight := i < len(s.chars) && s.chars[i].lo-1 == r
	switch {
	case joinsLeft && joinsRight:
		s.chars[i-1].hi = s.chars[i].hi
		s.chars = slices.Delete(s.chars, i, i+1)
	case joinsLeft:
		s.chars[i-1].hi = r
	case joinsRight:
		s.chars[i].lo = r
	default:
		s.chars = slices.Insert(s.chars, i, charRange{lo: r, hi: r})
	}
}

// intersection keeps the chars of s that are also in other. Both must be
// resolved.
func (s *charSet) intersection(other *charSet) {
	chars := []charRange{}

	i := 0
	j := 0
	for i < len(s.chars) && j < len(other.chars) {
		a := s.chars[i]
		b := other.chars[j]

		lo := max(a.lo, b.lo)
		hi := min(a.hi, b.hi)

		if lo <= hi {
			chars = append(chars, charRange{lo: lo, hi: hi})
		}

		if a.hi < b.hi {
			i++
		} else {
			j++
		}
	}
	s.chars = chars
}

// subtraction removes the chars of other from s. Both must be resolved.
func (s *charSet) subtraction(other *charSet) {
	chars := []charRange{}

	j := 0
	for _, sRange := range s.chars {
		for j < len(other.chars) && other.chars[j].hi < sRange.lo {
			j++
		}

		for j < len(other.chars) {
			oRange := other.chars[j]
			if oRange.lo > sRange.hi {
				break
			}
			if oRange.lo > sRange.lo {
				chars = append(chars, charRange{lo: sRange.lo, hi: oRange.lo - 1})
			}
			if oRange.hi >= sRange.hi {
				sRange.lo = sRange.hi + 1
				break
			}
			sRange.lo = oRange.hi + 1
			j++
		}

		if sRange.lo <= sRange.hi {
			chars = append(chars, sRange)
		}
	}
	s.chars = chars
}

var surrogates = charSet{chars: []charRange{{lo: 0xD800, hi: 0xDFFF}}}

// complement replaces the chars of s with the code points outside them.
// Surrogates never occur in decoded text and are left out.
func (s *charSet) complement() {
	chars := make([]charRange, 0, len(s.chars)+1)
	next := rune(0)
	for _, r := range s.chars {
		if r.lo > next {
			chars = append(chars, charRange{lo: next, hi: r.lo - 1})
		}
		next = r.hi + 1
	}
	if next <= unicode.MaxRune {
		chars = append(chars, charRange{lo: next, hi: unicode.MaxRune})
	}
	s.chars = chars
	s.subtraction(&surrogates)
}

// Code points outside [minFold, maxFold] fold only to themselves.
const (
	minFold = 0x0041
	maxFold = 0x1E943
)

// fold returns the chars of s together with every code point cb adds for
// them.
func (s *charSet) fold(cb func(r rune, add func(rune))) charSet {
	codepoints := []rune{}
	add := func(r rune) { codepoints = append(codepoints, r) }
	for _, range_ := range s.chars {
		for r := max(range_.lo, minFold); r <= min(range_.hi, maxFold); r++ {
			cb(r, add)
		}
	}
	slices.Sort(codepoints)

	var added charSet
	for i := 0; i < len(codepoints); {
		lo := codepoints[i]
		for i+1 < len(codepoints) && (codepoints[i] == codepoints[i+1] || codepoints[i]+1 == codepoints[i+1]) {
			i++
		}
		added.chars = append(added.chars, charRange{lo: lo, hi: codepoints[i]})
		i++
	}
	res := charSet{chars: slices.Clone(s.chars)}
	res.union(&added)
	return res
}

func unicodeFold(r rune, add func(rune)) {
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		add(f)
	}
}

func asciiFold(r rune, add func(rune)) {
	switch {
	case 'a' <= r && r <= 'z':
		add(r - 'a' + 'A')
	case 'A' <= r && r <= 'Z':
		add(r - 'A' + 'a')
	}
}

// tableSet returns the members of the unicode category or script name.
func tableSet(name string) charSet {
	table, ok := unicode.Categories[name]
	if !ok {
		table = unicode.Scripts[name]
	}
	var s charSet
	if table == nil {
		return s
	}
	appendRange := func(lo, hi, stride rune) {
		if stride == 1 {
			s.union(&charSet{chars: []charRange{{lo: lo, hi: hi}}})
			return
		}
		for r := lo; r <= hi; r += stride {
			s.unionChar(r)
		}
	}
	for _, r := range table.R16 {
		appendRange(rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range table.R32 {
		appendRange(rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return s
}

// resolve returns the members of cs as plain chars, complemented when cs is
// negated. A non-nil fold closes the members under case folding first, so
// that a complement also drops the other cases of its excluded code points.
func (cs charSet) resolve(fold func(r rune, add func(rune))) charSet {
	res := charSet{chars: slices.Clone(cs.chars)}
	for _, p := range cs.props {
		members := tableSet(p)
		res.union(&members)
	}
	for _, p := range cs.negProps {
		members := tableSet(p)
		members.complement()
		res.union(&members)
	}
	if fold != nil {
		res = res.fold(fold)
	}
	if cs.neg {
		res.complement()
	}
	return res
}

func (cs charSet) negate() charSet {
	cs.neg = !cs.neg
	return cs
}

// body writes the members of cs without regard to neg.
func (cs charSet) body(d *dialect) string {
	var b strings.Builder
	for _, r := range cs.chars {
		b.WriteString(d.classRune(r.lo))
		if r.hi > r.lo {
			if r.hi > r.lo+1 {
				b.WriteByte('-')
			}
			b.WriteString(d.classRune(r.hi))
		}
	}
	for _, p := range cs.props {
		b.WriteString(`\p{` + p + "}")
	}
	for _, p := range cs.negProps {
		b.WriteString(`\P{` + p + "}")
	}
	return b.String()
}

func (cs charSet) empty() bool {
	return len(cs.chars) == 0 && len(cs.props) == 0 && len(cs.negProps) == 0
}

// inline returns a non-negated set equal to cs, keeping a single property
// symbolic.
func (cs charSet) inline(fold func(r rune, add func(rune))) charSet {
	switch {
	case !cs.neg:
		return cs
	case len(cs.chars) == 0 && len(cs.props) == 1 && len(cs.negProps) == 0:
		return charSet{negProps: cs.props}
	case len(cs.chars) == 0 && len(cs.props) == 0 && len(cs.negProps) == 1:
		return charSet{props: cs.negProps}
	}
	return cs.resolve(fold)
}

func (cs charSet) expr(d *dialect) string {
	if cs.empty() {
		// [] and [^] are not valid in either dialect
		all := runes(0, unicode.MaxRune)
		if cs.neg {
			return "[" + all.body(d) + "]"
		}
		return "[^" + all.body(d) + "]"
	}
	if cs.neg {
		return "[^" + cs.body(d) + "]"
	}
	return "[" + cs.body(d) + "]"
}

var lineTerminators = runes('\n', '\n', '\r', '\r', 0x85, 0x85, 0x2028, 0x2029)

var (
	asciiDigit = runes('0', '9')
	asciiWord  = runes('a', 'z', 'A', 'Z', '_', '_', '0', '9')
	asciiSpace = runes('\t', '\r', ' ', ' ')
	hexDigit   = runes('0', '9', 'a', 'f', 'A', 'F')
)

var horizontalSpace = runes(' ', ' ', '\t', '\t', 0xA0, 0xA0, 0x1680, 0x1680, 0x180E, 0x180E,
	0x2000, 0x200A, 0x202F, 0x202F, 0x205F, 0x205F, 0x3000, 0x3000)

var verticalSpace = runes('\n', '\r', 0x85, 0x85, 0x2028, 0x2029)

var whiteSpace = runes('\t', '\r', ' ', ' ', 0x85, 0x85, 0xA0, 0xA0, 0x1680, 0x1680,
	0x2000, 0x200A, 0x2028, 0x2029, 0x202F, 0x202F, 0x205F, 0x205F, 0x3000, 0x3000)

var unicodeWord = charSet{
	chars: []charRange{{lo: 0x200C, hi: 0x200D}},
	props: []string{"L", "Nl", "M", "Nd", "Pc"},
}

var javaWhitespace = runes('\t', '\r', 0x1C, 0x1F, ' ', ' ', 0x1680, 0x1680,
	0x2000, 0x2006, 0x2008, 0x200A, 0x2028, 0x2029, 0x205F, 0x205F, 0x3000, 0x3000)

// posixASCII holds the POSIX classes in their ASCII form.
var posixASCII = map[string]charSet{
	"Lower":  runes('a', 'z'),
	"Upper":  runes('A', 'Z'),
	"ASCII":  runes(0, 0x7F),
	"Alpha":  runes('a', 'z', 'A', 'Z'),
	"Digit":  asciiDigit,
	"Alnum":  runes('a', 'z', 'A', 'Z', '0', '9'),
	"Punct":  runes('!', '/', ':', '@', '[', '`', '{', '~'),
	"Graph":  runes('!', '~'),
	"Print":  runes(' ', '~'),
	"Blank":  runes(' ', ' ', '\t', '\t'),
	"Cntrl":  runes(0, 0x1F, 0x7F, 0x7F),
	"XDigit": hexDigit,
	"Space":  asciiSpace,
}

// posixUnicode holds the POSIX classes under UnicodeCharacterClass.
var posixUnicode = map[string]charSet{
	"Lower":  props("Ll"),
	"Upper":  props("Lu"),
	"ASCII":  runes(0, 0x7F),
	"Alpha":  props("L", "Nl"),
	"Digit":  props("Nd"),
	"Alnum":  props("L", "Nl", "Nd"),
	"Punct":  props("P"),
	"Graph":  props("L", "M", "N", "P", "S"),
	"Print":  props("L", "M", "N", "P", "S", "Zs"),
	"Blank":  charSet{chars: []charRange{{lo: '\t', hi: '\t'}}, props: []string{"Zs"}},
	"Cntrl":  props("Cc"),
	"XDigit": charSet{chars: runes('a', 'f', 'A', 'F').chars, props: []string{"Nd"}},
	"Space":  whiteSpace,
}

var javaProperties = map[string]charSet{
	"javaLowerCase":     props("Ll"),
	"javaUpperCase":     props("Lu"),
	"javaTitleCase":     props("Lt"),
	"javaDigit":         props("Nd"),
	"javaLetter":        props("L"),
	"javaLetterOrDigit": props("L", "Nd"),
	"javaAlphabetic":    props("L", "Nl"),
	"javaIdeographic":   props("Han"),
	"javaSpaceChar":     props("Zs", "Zl", "Zp"),
	"javaISOControl":    runes(0, 0x1F, 0x7F, 0x9F),
	"javaWhitespace":    javaWhitespace,
}

// binaryProperties are the names accepted after "Is" besides categories
// and scripts, normalized by normalizeName.
var binaryProperties = map[string]charSet{
	"alphabetic":  props("L", "Nl"),
	"letter":      props("L"),
	"lowercase":   props("Ll"),
	"uppercase":   props("Lu"),
	"titlecase":   props("Lt"),
	"punctuation": props("P"),
	"control":     props("Cc"),
	"whitespace":  whiteSpace,
	"digit":       props("Nd"),
	"hexdigit":    runes('0', '9', 'a', 'f', 'A', 'F', 0xFF10, 0xFF19, 0xFF21, 0xFF26, 0xFF41, 0xFF46),
	"joincontrol": runes(0x200C, 0x200D),
	"ideographic": props("Han"),
}

// blocks is the subset of Unicode blocks that can be named with \p{InX}.
var blocks = map[string]charSet{
	"basiclatin":            runes(0x0000, 0x007F),
	"latin1supplement":      runes(0x0080, 0x00FF),
	"latinextendeda":        runes(0x0100, 0x017F),
	"latinextendedb":        runes(0x0180, 0x024F),
	"ipaextensions":         runes(0x0250, 0x02AF),
	"greek":                 runes(0x0370, 0x03FF),
	"greekandcoptic":        runes(0x0370, 0x03FF),
	"cyrillic":              runes(0x0400, 0x04FF),
	"armenian":              runes(0x0530, 0x058F),
	"hebrew":                runes(0x0590, 0x05FF),
	"arabic":                runes(0x0600, 0x06FF),
	"devanagari":            runes(0x0900, 0x097F),
	"thai":                  runes(0x0E00, 0x0E7F),
	"generalpunctuation":    runes(0x2000, 0x206F),
	"currencysymbols":       runes(0x20A0, 0x20CF),
	"arrows":                runes(0x2190, 0x21FF),
	"mathematicaloperators": runes(0x2200, 0x22FF),
	"boxdrawing":            runes(0x2500, 0x257F),
	"hiragana":              runes(0x3040, 0x309F),
	"katakana":              runes(0x30A0, 0x30FF),
	"cjkunifiedideographs":  runes(0x4E00, 0x9FFF),
	"hangulsyllables":       runes(0xAC00, 0xD7AF),
	"privateusearea":        runes(0xE000, 0xF8FF),
	"specials":              runes(0xFFF0, 0xFFFF),
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func category(name string) (charSet, bool) {
	if name == "LC" {
		return props("Lu", "Ll", "Lt"), true
	}
	if _, ok := unicode.Categories[name]; ok {
		return props(name), true
	}
	return charSet{}, false
}

func script(name string) (charSet, bool) {
	if _, ok := unicode.Scripts[name]; ok {
		return props(name), true
	}
	want := normalizeName(name)
	for s := range unicode.Scripts {
		if normalizeName(s) == want {
			return props(s), true
		}
	}
	return charSet{}, false
}

func block(name string) (charSet, bool) {
	cs, ok := blocks[normalizeName(name)]
	return cs, ok
}

// property resolves the name inside \p{...}.
func property(name string, unicodeClasses bool) (charSet, bool) {
	if key, value, ok := strings.Cut(name, "="); ok {
		switch normalizeName(key) {
		case "sc", "script":
			return script(value)
		case "blk", "block":
			return block(value)
		case "gc", "generalcategory":
			return category(value)
		}
		return charSet{}, false
	}
	if rest, ok := strings.CutPrefix(name, "In"); ok {
		return block(rest)
	}
	if rest, ok := strings.CutPrefix(name, "Is"); ok {
		if cs, ok := category(rest); ok {
			return cs, true
		}
		if cs, ok := binaryProperties[normalizeName(rest)]; ok {
			return cs, true
		}
		return script(rest)
	}
	if name == "all" {
		return runes(0, unicode.MaxRune), true
	}
	table := posixASCII
	if unicodeClasses {
		table = posixUnicode
	}
	if cs, ok := table[name]; ok {
		return cs, true
	}
	if cs, ok := javaProperties[name]; ok {
		return cs, true
	}
	return category(name)
}
