// Package replay interprets the output of the tuikit encoder into a grid of
// cells. It understands only the sequences the encoder writes and is used to
// check that replaying a frame reproduces the grid it was encoded from.
package replay

import (
	"strings"
	"unicode/utf8"

	"git.sr.ht/~tuikit/tuikit"
	"git.sr.ht/~tuikit/tuikit/glyph"
	"git.sr.ht/~tuikit/tuikit/log"
)

// Cell is a replayed screen cell. Default colors are reported as unset.
type Cell struct {
	Rune         rune
	Attribute    tuikit.AttributeMask
	Foreground   tuikit.Color
	Background   tuikit.Color
	Continuation bool
}

type cursor struct {
	row   int
	col   int
	attrs tuikit.AttributeMask
	fg    tuikit.Color
	bg    tuikit.Color
}

// Screen is a minimal terminal with autowrap disabled
type Screen struct {
	rows    int
	cols    int
	cells   []Cell
	cursor  cursor
	pending []byte
}

// New returns a blank screen
func New(rows int, cols int) *Screen {
	s := &Screen{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for i := range s.cells {
		s.cells[i].Rune = ' '
	}
	return s
}

// Cell returns the cell at col, row
func (s *Screen) Cell(col int, row int) Cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return Cell{}
	}
	return s.cells[row*s.cols+col]
}

// Cursor returns the zero-based cursor position
func (s *Screen) Cursor() (col int, row int) {
	return s.cursor.col, s.cursor.row
}

// String returns the text of the screen, one line per row with trailing
// spaces trimmed
func (s *Screen) String() string {
	lines := make([]string, 0, s.rows)
	for row := 0; row < s.rows; row += 1 {
		b := strings.Builder{}
		for col := 0; col < s.cols; col += 1 {
			c := s.cells[row*s.cols+col]
			if c.Continuation {
				continue
			}
			b.WriteRune(c.Rune)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// Write interprets p. Sequences may be split across writes.
func (s *Screen) Write(p []byte) (int, error) {
	n := len(p)
	b := append(s.pending, p...)
	s.pending = nil
	for len(b) > 0 {
		switch {
		case b[0] == 0x1b:
			used, ok := s.escape(b)
			if !ok {
				s.pending = append([]byte{}, b...)
				return n, nil
			}
			b = b[used:]
		case b[0] < 0x20:
			b = b[1:]
		default:
			if !utf8.FullRune(b) {
				s.pending = append([]byte{}, b...)
				return n, nil
			}
			r, size := utf8.DecodeRune(b)
			b = b[size:]
			s.print(r)
		}
	}
	return n, nil
}

// escape handles the sequence at the start of b and returns its length. ok
// is false when the sequence is incomplete.
func (s *Screen) escape(b []byte) (int, bool) {
	if len(b) < 2 {
		return 0, false
	}
	switch b[1] {
	case '[':
	case ']':
		// OSC, terminated by ST or BEL
		for i := 2; i < len(b); i += 1 {
			switch {
			case b[i] == 0x07:
				return i + 1, true
			case b[i] == 0x1b && i+1 < len(b) && b[i+1] == '\\':
				return i + 2, true
			}
		}
		return 0, false
	default:
		log.Trace("[replay] unhandled escape %q", b[1])
		return 2, true
	}
	private := false
	params := []int{}
	cur := -1
	for i := 2; i < len(b); i += 1 {
		c := b[i]
		switch {
		case c == '?':
			private = true
		case c >= '0' && c <= '9':
			if cur < 0 {
				cur = 0
			}
			cur = cur*10 + int(c-'0')
		case c == ';':
			if cur < 0 {
				cur = 0
			}
			params = append(params, cur)
			cur = -1
		case c >= 0x40 && c <= 0x7e:
			if cur >= 0 {
				params = append(params, cur)
			}
			if !private {
				s.csi(c, params)
			}
			return i + 1, true
		}
	}
	return 0, false
}

func (s *Screen) csi(final byte, params []int) {
	switch final {
	case 'H':
		row, col := 1, 1
		if len(params) > 0 && params[0] > 0 {
			row = params[0]
		}
		if len(params) > 1 && params[1] > 0 {
			col = params[1]
		}
		s.cursor.row = clamp(row-1, s.rows)
		s.cursor.col = clamp(col-1, s.cols)
	case 'J':
		if len(params) > 0 && params[0] == 2 {
			for i := range s.cells {
				s.cells[i] = Cell{Rune: ' '}
			}
		}
	case 'm':
		s.sgr(params)
	default:
		log.Trace("[replay] unhandled CSI %q", final)
	}
}

func clamp(v int, limit int) int {
	switch {
	case v < 0:
		return 0
	case v >= limit:
		return limit - 1
	}
	return v
}

func (s *Screen) print(r rune) {
	w := glyph.Width(r)
	if w < 1 || s.cursor.row >= s.rows || s.cols == 0 {
		return
	}
	i := s.cursor.row*s.cols + s.cursor.col
	s.cells[i] = Cell{
		Rune:       r,
		Attribute:  s.cursor.attrs,
		Foreground: s.cursor.fg,
		Background: s.cursor.bg,
	}
	if w == 2 && s.cursor.col+1 < s.cols {
		s.cells[i+1] = Cell{
			Attribute:    s.cursor.attrs,
			Foreground:   s.cursor.fg,
			Background:   s.cursor.bg,
			Continuation: true,
		}
	}
	s.cursor.col += w
	if s.cursor.col >= s.cols {
		s.cursor.col = s.cols - 1
	}
}
