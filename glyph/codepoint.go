package glyph

import "unicode/utf8"

// CodePoint is a single Unicode scalar value together with the length of its
// canonical UTF-8 encoding. The zero value is the empty glyph, which renders
// as a space.
type CodePoint struct {
	r rune
	n uint8
}

// Decode decodes the first scalar value of b. size is the number of bytes
// consumed. When b does not start with a valid, shortest-form encoding of a
// scalar value ok is false and size is 1 (0 for empty input), so callers can
// skip a single byte and resynchronize.
func Decode(b []byte) (cp CodePoint, size int, ok bool) {
	if len(b) == 0 {
		return CodePoint{}, 0, false
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return CodePoint{}, 1, false
	}
	return CodePoint{r: r, n: uint8(size)}, size, true
}

// FromRune returns the CodePoint of r. Invalid scalars (surrogates, values
// above U+10FFFF) become U+FFFD.
func FromRune(r rune) CodePoint {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return CodePoint{r: r, n: uint8(utf8.RuneLen(r))}
}

// Rune returns the scalar value, or a space for the empty glyph
func (c CodePoint) Rune() rune {
	if c.n == 0 {
		return ' '
	}
	return c.r
}

// Len is the length of the UTF-8 encoding of c
func (c CodePoint) Len() int {
	if c.n == 0 {
		return 1
	}
	return int(c.n)
}

// IsEmpty reports whether c is the zero value
func (c CodePoint) IsEmpty() bool {
	return c.n == 0
}

// AppendUTF8 appends the encoding of c to dst
func (c CodePoint) AppendUTF8(dst []byte) []byte {
	return utf8.AppendRune(dst, c.Rune())
}

func (c CodePoint) String() string {
	return string(c.Rune())
}
