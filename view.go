package revregex

import (
	"fmt"
	"hash/fnv"
	"unicode/utf8"
)

// Sequence is a read-only sequence of code points.
type Sequence interface {
	Len() int
	At(i int) rune
	// Slice returns the subsequence [start, end).
	Slice(start, end int) Sequence
	String() string
}

// Runes is a Sequence backed by a rune slice.
type Runes []rune

// RunesOf returns s as a Sequence.
func RunesOf(s string) Runes {
	return Runes(s)
}

func (r Runes) Len() int {
	return len(r)
}

func (r Runes) At(i int) rune {
	return r[i]
}

func (r Runes) Slice(start, end int) Sequence {
	return r[start:end]
}

func (r Runes) String() string {
	return string(r)
}

// IndexMapper converts positions between a window of some length and the
// same window read backwards.
type IndexMapper struct {
	length int
}

// NewIndexMapper returns a mapper for a window of the given length.
func NewIndexMapper(length int) IndexMapper {
	if length < 0 {
		panic(fmt.Sprintf("revregex: negative length %d", length))
	}
	return IndexMapper{length: length}
}

func (m IndexMapper) Len() int {
	return m.length
}

// MapIndex maps the index of a code point, in [0, Len), to the index of
// the same code point in the reversed window.
func (m IndexMapper) MapIndex(i int) int {
	if i < 0 || i >= m.length {
		panic(fmt.Sprintf("revregex: index %d out of range [0, %d)", i, m.length))
	}
	return m.length - 1 - i
}

// MapBoundary maps a boundary between code points, in [0, Len], to the
// same boundary in the reversed window.
func (m IndexMapper) MapBoundary(i int) int {
	if i < 0 || i > m.length {
		panic(fmt.Sprintf("revregex: boundary %d out of range [0, %d]", i, m.length))
	}
	return m.length - i
}

// ReversedView presents a window of a backing sequence in reverse order
// without copying it.
type ReversedView struct {
	backing    Sequence
	start, end int
	mapper     IndexMapper
}

// Reverse returns seq read backwards.
func Reverse(seq Sequence) Sequence {
	return ReverseRange(seq, 0, seq.Len())
}

// ReverseRange returns seq[start:end] read backwards. Reversing a
// ReversedView yields a forward slice of the sequence behind it.
func ReverseRange(seq Sequence, start, end int) Sequence {
	if start < 0 || end < start || end > seq.Len() {
		panic(fmt.Sprintf("revregex: window [%d, %d) out of range [0, %d]", start, end, seq.Len()))
	}
	if v, ok := seq.(*ReversedView); ok {
		return v.backing.Slice(v.end-end, v.end-start)
	}
	return &ReversedView{backing: seq, start: start, end: end, mapper: NewIndexMapper(end - start)}
}

func (v *ReversedView) Len() int {
	return v.end - v.start
}

func (v *ReversedView) At(i int) rune {
	return v.backing.At(v.start + v.mapper.MapIndex(i))
}

func (v *ReversedView) Slice(start, end int) Sequence {
	if start > end {
		panic(fmt.Sprintf("revregex: slice bounds [%d, %d) inverted", start, end))
	}
	lo, hi := v.mapper.MapBoundary(end), v.mapper.MapBoundary(start)
	return ReverseRange(v.backing, v.start+lo, v.start+hi)
}

// Runes returns the content of v in reading order.
func (v *ReversedView) Runes() []rune {
	out := make([]rune, 0, v.Len())
	for i := v.end - 1; i >= v.start; i-- {
		out = append(out, v.backing.At(i))
	}
	return out
}

func (v *ReversedView) String() string {
	return string(v.Runes())
}

// Hash returns the same value as HashString(v.String()).
func (v *ReversedView) Hash() uint64 {
	h := fnv.New64a()
	var buf [utf8.UTFMax]byte
	for i := v.end - 1; i >= v.start; i-- {
		n := utf8.EncodeRune(buf[:], v.backing.At(i))
		h.Write(buf[:n])
	}
	return h.Sum64()
}

// Equal reports whether v and seq hold the same code points.
func (v *ReversedView) Equal(seq Sequence) bool {
	if seq.Len() != v.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.At(i) != seq.At(i) {
			return false
		}
	}
	return true
}

// HashString hashes s the way ReversedView.Hash does.
func HashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// ReverseString returns s with its code points in reverse order.
func ReverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// runesOf materializes seq.
func runesOf(seq Sequence) []rune {
	switch s := seq.(type) {
	case Runes:
		return s
	case *ReversedView:
		return s.Runes()
	}
	out := make([]rune, seq.Len())
	for i := range out {
		out[i] = seq.At(i)
	}
	return out
}
