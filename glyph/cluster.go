package glyph

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Method selects how the width of a grapheme cluster is measured
type Method int

const (
	// Wcwidth sums the wcwidth of each rune in the cluster, ignoring
	// variation selectors
	Wcwidth Method = iota
	// NoZWJ measures like Unicode, but with zero width joiners removed so
	// each joined emoji is counted on its own
	NoZWJ
	// Unicode measures the cluster as a single unit following UAX #11 and
	// the emoji presentation rules
	Unicode
)

func (m Method) String() string {
	switch m {
	case Wcwidth:
		return "wcwidth"
	case NoZWJ:
		return "nozwj"
	case Unicode:
		return "unicode"
	}
	return "unknown"
}

// Cluster is a single extended grapheme cluster and its width
type Cluster struct {
	Text  string
	Width int
}

// Base returns the first code point of the cluster
func (c Cluster) Base() rune {
	for _, r := range c.Text {
		return r
	}
	return 0
}

// Clusters splits s into extended grapheme clusters. Widths are measured
// with the Unicode method.
func Clusters(s string) []Cluster {
	out := make([]Cluster, 0, len(s))
	state := -1
	cluster := ""
	w := 0
	for s != "" {
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, Cluster{Text: cluster, Width: w})
	}
	return out
}

// ClusterWidth measures s using the given method
func ClusterWidth(s string, m Method) int {
	switch m {
	case NoZWJ:
		s = strings.ReplaceAll(s, "\u200D", "")
		return uniseg.StringWidth(s)
	case Unicode:
		return uniseg.StringWidth(s)
	default:
		total := 0
		for _, r := range s {
			if r >= 0xFE00 && r <= 0xFE0F {
				// Variation Selectors 1 - 16
				continue
			}
			if r >= 0xE0100 && r <= 0xE01EF {
				// Variation Selectors 17-256
				continue
			}
			total += runewidth.RuneWidth(r)
		}
		return total
	}
}
