package tuikit

import "git.sr.ht/~tuikit/tuikit/glyph"

// Grid is a double buffered matrix of cells. Drawing modifies the next
// buffer; the Encoder compares it against the front buffer, which holds what
// the terminal currently shows.
//
// A Grid is owned by the event loop goroutine and is not safe for concurrent
// use.
type Grid struct {
	rows    int
	cols    int
	front   []Cell
	next    []Cell
	repaint bool
}

// NewGrid returns a blank grid. The first encode repaints every cell
func NewGrid(rows int, cols int) *Grid {
	g := &Grid{}
	g.Resize(rows, cols)
	return g
}

// Size returns the dimensions of the grid
func (g *Grid) Size() (rows int, cols int) {
	return g.rows, g.cols
}

// Resize discards the contents of both buffers and reallocates them. The next
// encode repaints every cell
func (g *Grid) Resize(rows int, cols int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g.rows = rows
	g.cols = cols
	g.front = make([]Cell, rows*cols)
	g.next = make([]Cell, rows*cols)
	g.repaint = true
}

// Invalidate forces the next encode to repaint every cell
func (g *Grid) Invalidate() {
	g.repaint = true
}

// Clear blanks the next buffer
func (g *Grid) Clear() {
	for i := range g.next {
		g.next[i] = Cell{}
	}
}

func (g *Grid) index(x int, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return 0, false
	}
	return y*g.cols + x, true
}

// Cell returns the cell at x, y of the next buffer
func (g *Grid) Cell(x int, y int) (Cell, bool) {
	i, ok := g.index(x, y)
	if !ok {
		return Cell{}, false
	}
	return g.next[i], true
}

// Rendered returns the cell at x, y as of the last encode
func (g *Grid) Rendered(x int, y int) (Cell, bool) {
	i, ok := g.index(x, y)
	if !ok {
		return Cell{}, false
	}
	return g.front[i], true
}

// WriteCell merges the selected fields of w into the cell at x, y of the next
// buffer. It reports whether the write was applied. Writes outside the grid,
// writes to the right half of a wide glyph and writes of control or zero
// width glyphs are rejected.
//
// Writing a wide glyph claims the cell to its right; a wide glyph which does
// not fit in the last column is stored as a space. Replacing a wide glyph
// with a narrow one releases the claimed cell.
func (g *Grid) WriteCell(x int, y int, w CellWrite) bool {
	i, ok := g.index(x, y)
	if !ok {
		return false
	}
	lead := g.next[i]
	if lead.continuation {
		return false
	}
	wasWide := x+1 < g.cols && g.next[i+1].continuation
	isWide := wasWide
	if w.Fields&FieldGlyph != 0 {
		r := w.Glyph
		switch glyph.Width(r) {
		case 2:
			isWide = true
			if x+1 >= g.cols {
				r = ' '
				isWide = false
			}
		case 1:
			isWide = false
		default:
			return false
		}
		lead.Glyph = glyph.FromRune(r)
	}
	if w.Fields&FieldAttribute != 0 {
		lead.Attribute = w.Attribute
	}
	if w.Fields&FieldForeground != 0 {
		lead.Foreground = w.Foreground
	}
	if w.Fields&FieldBackground != 0 {
		lead.Background = w.Background
	}
	g.next[i] = lead

	switch {
	case isWide:
		if !wasWide && x+2 < g.cols && g.next[i+2].continuation {
			// The cell we claim was the lead of another wide glyph
			g.release(i + 2)
		}
		g.next[i+1] = Cell{
			Attribute:    lead.Attribute,
			Foreground:   lead.Foreground,
			Background:   lead.Background,
			continuation: true,
		}
	case wasWide:
		g.release(i + 1)
	}
	return true
}

// release turns a continuation cell back into a blank cell, keeping its
// colors
func (g *Grid) release(i int) {
	c := g.next[i]
	g.next[i] = Cell{
		Foreground: c.Foreground,
		Background: c.Background,
	}
}

// commit copies next into front. The next buffer keeps its contents so
// drawing can continue incrementally.
func (g *Grid) commit() {
	copy(g.front, g.next)
	g.repaint = false
}
