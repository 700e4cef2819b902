// Package glyph classifies Unicode code points by the number of terminal
// columns they occupy and measures strings and grapheme clusters.
package glyph

import (
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Class is the display class of a code point
type Class uint8

const (
	// Narrow code points occupy a single column
	Narrow Class = iota
	// Wide code points occupy two columns
	Wide
	// Combining code points attach to the preceding glyph and occupy no
	// column of their own
	Combining
	// Control code points are never drawn
	Control
)

func (c Class) String() string {
	switch c {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	case Combining:
		return "combining"
	case Control:
		return "control"
	}
	return "unknown"
}

type interval struct {
	lo rune
	hi rune
}

type table []interval

func (t table) contains(r rune) bool {
	i := sort.Search(len(t), func(i int) bool {
		return t[i].hi >= r
	})
	return i < len(t) && t[i].lo <= r
}

var (
	tablesOnce sync.Once
	combining  table
	wide       table
)

// Scalars above this are never East Asian Wide or Fullwidth
const wideScanLimit = 0x3FFFF

func buildTables() {
	var ivs []interval
	for _, rt := range []*unicode.RangeTable{unicode.Mn, unicode.Me, unicode.Mc} {
		for _, r16 := range rt.R16 {
			ivs = appendRange(ivs, rune(r16.Lo), rune(r16.Hi), rune(r16.Stride))
		}
		for _, r32 := range rt.R32 {
			ivs = appendRange(ivs, rune(r32.Lo), rune(r32.Hi), rune(r32.Stride))
		}
	}
	ivs = append(ivs,
		interval{0x200C, 0x200D},   // ZWNJ, ZWJ
		interval{0x1F3FB, 0x1F3FF}, // emoji skin tone modifiers
	)
	combining = merge(ivs)

	ivs = nil
	for r := rune(0x1100); r <= wideScanLimit; r += 1 {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		k := width.LookupRune(r).Kind()
		isWide := k == width.EastAsianWide || k == width.EastAsianFullwidth
		switch {
		case !isWide:
		case len(ivs) > 0 && ivs[len(ivs)-1].hi == r-1:
			ivs[len(ivs)-1].hi = r
		default:
			ivs = append(ivs, interval{r, r})
		}
	}
	wide = merge(ivs)
}

func appendRange(ivs []interval, lo rune, hi rune, stride rune) []interval {
	if stride == 1 {
		return append(ivs, interval{lo, hi})
	}
	for r := lo; r <= hi; r += stride {
		ivs = append(ivs, interval{r, r})
	}
	return ivs
}

// merge sorts the intervals and joins overlapping or adjacent ones
func merge(ivs []interval) table {
	sort.Slice(ivs, func(i, j int) bool {
		return ivs[i].lo < ivs[j].lo
	})
	out := make(table, 0, len(ivs))
	for _, iv := range ivs {
		if n := len(out); n > 0 && iv.lo <= out[n-1].hi+1 {
			if iv.hi > out[n-1].hi {
				out[n-1].hi = iv.hi
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Classify returns the display class of r. Every rune has a class: anything
// not listed as control, combining or wide is narrow.
func Classify(r rune) Class {
	switch {
	case r == '\n':
		return Narrow
	case r >= 0 && r < 0x20:
		return Control
	case r >= 0x7F && r < 0xA0:
		return Control
	case r < 0x300:
		// Nothing below the combining diacritical marks block is
		// combining or wide
		return Narrow
	}
	tablesOnce.Do(buildTables)
	switch {
	case combining.contains(r):
		return Combining
	case wide.contains(r):
		return Wide
	}
	return Narrow
}

// Width returns the number of columns r occupies: -1 for control code
// points, 0 for combining ones, 2 for wide ones and 1 otherwise.
func Width(r rune) int {
	switch Classify(r) {
	case Control:
		return -1
	case Combining:
		return 0
	case Wide:
		return 2
	}
	return 1
}

// StringWidth sums Width over the code points of b. Bytes which do not begin
// a valid UTF-8 sequence are skipped one at a time and count for nothing.
// Control code points count as -1.
func StringWidth(b []byte) int {
	total := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r == utf8.RuneError && size == 1 {
			continue
		}
		total += Width(r)
	}
	return total
}
