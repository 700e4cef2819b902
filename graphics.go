package tuikit

import (
	"golang.org/x/text/unicode/norm"

	"git.sr.ht/~tuikit/tuikit/glyph"
)

// Rect is a rectangle of cells. X and Y are the upper left corner
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether r contains no cells
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell at x, y is inside r
func (r Rect) Contains(x int, y int) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the largest rectangle contained by both r and o. The
// result is the zero Rect when they don't overlap
func (r Rect) Intersect(o Rect) Rect {
	x0 := maxInt(r.X, o.X)
	y0 := maxInt(r.Y, o.Y)
	x1 := minInt(r.X+r.Width, o.X+o.Width)
	y1 := minInt(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (r Rect) translate(dx int, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func minInt(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a int, b int) int {
	if a > b {
		return a
	}
	return b
}

// Stroke selects the box drawing characters used for lines and rectangles
type Stroke int

const (
	StrokeLight Stroke = iota
	StrokeHeavy
	StrokeDouble
)

func (s Stroke) String() string {
	switch s {
	case StrokeLight:
		return "light"
	case StrokeHeavy:
		return "heavy"
	case StrokeDouble:
		return "double"
	}
	return "unknown"
}

type boxSet struct {
	horizontal  rune
	vertical    rune
	topLeft     rune
	topRight    rune
	bottomLeft  rune
	bottomRight rune
}

var boxSets = map[Stroke]boxSet{
	StrokeLight:  {'─', '│', '┌', '┐', '└', '┘'},
	StrokeHeavy:  {'━', '┃', '┏', '┓', '┗', '┛'},
	StrokeDouble: {'═', '║', '╔', '╗', '╚', '╝'},
}

// Only the light set has rounded corners
var roundedCorners = boxSet{'─', '│', '╭', '╮', '╰', '╯'}

func (s Stroke) box(rounded bool) boxSet {
	set, ok := boxSets[s]
	if !ok {
		set = boxSets[StrokeLight]
	}
	if rounded && s == StrokeLight {
		return roundedCorners
	}
	return set
}

// Graphics draws into a region of a Grid. Coordinates are relative to the
// origin of the Graphics, and every write is clipped to its clip rectangle.
// Drawing outside the clip or the grid is silently discarded.
//
// The pen (foreground, background, attributes and stroke) applies to every
// drawing call. Each call may layer additional attributes onto the pen.
type Graphics struct {
	grid   *Grid
	ox     int
	oy     int
	bounds Rect
	clip   Rect
	pen    Style
	stroke Stroke
}

// NewGraphics returns a Graphics covering the whole grid
func NewGraphics(grid *Grid) *Graphics {
	rows, cols := grid.Size()
	r := Rect{Width: cols, Height: rows}
	return &Graphics{
		grid:   grid,
		bounds: r,
		clip:   r,
	}
}

// Create returns a Graphics whose origin is x, y of g and whose clip is the
// intersection of g's clip with the w by h area at that origin. The pen is
// copied
func (g *Graphics) Create(x int, y int, w int, h int) *Graphics {
	area := Rect{X: x, Y: y, Width: w, Height: h}.translate(g.ox, g.oy)
	clip := g.clip.Intersect(area)
	return &Graphics{
		grid:   g.grid,
		ox:     g.ox + x,
		oy:     g.oy + y,
		bounds: clip,
		clip:   clip,
		pen:    g.pen,
		stroke: g.stroke,
	}
}

// ClipRect narrows the clip to its intersection with the given area
func (g *Graphics) ClipRect(x int, y int, w int, h int) {
	area := Rect{X: x, Y: y, Width: w, Height: h}.translate(g.ox, g.oy)
	g.clip = g.clip.Intersect(area)
}

// GetClipRect returns the clip relative to the origin
func (g *Graphics) GetClipRect() Rect {
	if g.clip.Empty() {
		return Rect{}
	}
	return g.clip.translate(-g.ox, -g.oy)
}

// SetClipRect replaces the clip. The clip never grows past the area the
// Graphics was created for
func (g *Graphics) SetClipRect(r Rect) {
	g.clip = g.bounds.Intersect(r.translate(g.ox, g.oy))
}

// HitClipRect reports whether any cell of the given area is inside the clip
func (g *Graphics) HitClipRect(x int, y int, w int, h int) bool {
	area := Rect{X: x, Y: y, Width: w, Height: h}.translate(g.ox, g.oy)
	return !g.clip.Intersect(area).Empty()
}

// Translate moves the origin. The clip stays in place
func (g *Graphics) Translate(dx int, dy int) {
	g.ox += dx
	g.oy += dy
}

func (g *Graphics) Foreground() Color {
	return g.pen.Foreground
}

// SetForeground sets the foreground of drawn cells. The zero Color leaves
// the foreground of the grid as it is
func (g *Graphics) SetForeground(c Color) {
	g.pen.Foreground = c
}

func (g *Graphics) Background() Color {
	return g.pen.Background
}

// SetBackground sets the background of drawn cells. The zero Color leaves
// the background of the grid as it is
func (g *Graphics) SetBackground(c Color) {
	g.pen.Background = c
}

func (g *Graphics) Attributes() AttributeMask {
	return g.pen.Attribute
}

func (g *Graphics) SetAttributes(a AttributeMask) {
	g.pen.Attribute = a
}

// Style returns the pen
func (g *Graphics) Style() Style {
	return g.pen
}

// SetStyle replaces the pen
func (g *Graphics) SetStyle(s Style) {
	g.pen = s
}

func (g *Graphics) Stroke() Stroke {
	return g.stroke
}

func (g *Graphics) SetStroke(s Stroke) {
	g.stroke = s
}

// put writes r at the origin relative x, y. It reports the number of columns
// r occupies, whether or not it was drawn
func (g *Graphics) put(x int, y int, r rune, attrs []AttributeMask) int {
	width := glyph.Width(r)
	if width < 1 {
		return 0
	}
	gx, gy := x+g.ox, y+g.oy
	if !g.clip.Contains(gx, gy) {
		return width
	}
	if width == 2 && !g.clip.Contains(gx+1, gy) {
		// The right half would be cut off
		return width
	}
	if c, ok := g.grid.Cell(gx, gy); ok && c.IsContinuation() {
		// Overwriting the right half of a wide glyph. Blank the glyph
		// first if its left half is ours to draw
		if !g.clip.Contains(gx-1, gy) {
			return width
		}
		g.grid.WriteCell(gx-1, gy, CellWrite{Fields: FieldGlyph, Glyph: ' '})
	}
	w := CellWrite{
		Fields:    FieldGlyph | FieldAttribute,
		Glyph:     r,
		Attribute: g.pen.Attribute,
	}
	for _, a := range attrs {
		w.Attribute = w.Attribute.Union(a)
	}
	if g.pen.Foreground.IsSet() {
		w.Fields |= FieldForeground
		w.Foreground = g.pen.Foreground
	}
	if g.pen.Background.IsSet() {
		w.Fields |= FieldBackground
		w.Background = g.pen.Background
	}
	g.grid.WriteCell(gx, gy, w)
	return width
}

// visible returns the part of the given area inside the clip, relative to
// the origin
func (g *Graphics) visible(x int, y int, w int, h int) Rect {
	area := Rect{X: x, Y: y, Width: w, Height: h}.translate(g.ox, g.oy)
	r := g.clip.Intersect(area)
	if r.Empty() {
		return Rect{}
	}
	return r.translate(-g.ox, -g.oy)
}

func (g *Graphics) hline(x int, y int, w int, r rune, attrs []AttributeMask) {
	v := g.visible(x, y, w, 1)
	for i := v.X; i < v.X+v.Width; i += 1 {
		g.put(i, y, r, attrs)
	}
}

func (g *Graphics) vline(x int, y int, h int, r rune, attrs []AttributeMask) {
	v := g.visible(x, y, 1, h)
	for i := v.Y; i < v.Y+v.Height; i += 1 {
		g.put(x, i, r, attrs)
	}
}

// DrawChar draws r at x, y. Control and zero width characters are not drawn
func (g *Graphics) DrawChar(x int, y int, r rune, attrs ...AttributeMask) {
	g.put(x, y, r, attrs)
}

// DrawString draws s on a single line starting at x, y and returns the
// number of columns it advanced. The text is normalized to NFC and split
// into grapheme clusters; each cluster is drawn as its first code point.
// Clusters without width, including control characters, are skipped.
func (g *Graphics) DrawString(x int, y int, s string, attrs ...AttributeMask) int {
	col := x
	for _, c := range glyph.Clusters(norm.NFC.String(s)) {
		if c.Width == 0 {
			continue
		}
		col += g.put(col, y, c.Base(), attrs)
	}
	return col - x
}

// DrawHLine draws a horizontal line w cells long with the current stroke
func (g *Graphics) DrawHLine(x int, y int, w int, attrs ...AttributeMask) {
	g.hline(x, y, w, g.stroke.box(false).horizontal, attrs)
}

// DrawVLine draws a vertical line h cells long with the current stroke
func (g *Graphics) DrawVLine(x int, y int, h int, attrs ...AttributeMask) {
	g.vline(x, y, h, g.stroke.box(false).vertical, attrs)
}

// DrawRect draws the outline of a w by h rectangle with the current stroke
func (g *Graphics) DrawRect(x int, y int, w int, h int, attrs ...AttributeMask) {
	g.drawBox(x, y, w, h, g.stroke.box(false), attrs)
}

// DrawRoundedRect is like DrawRect with rounded corners. Heavy and double
// strokes have no rounded corners and draw square ones
func (g *Graphics) DrawRoundedRect(x int, y int, w int, h int, attrs ...AttributeMask) {
	g.drawBox(x, y, w, h, g.stroke.box(true), attrs)
}

func (g *Graphics) drawBox(x int, y int, w int, h int, box boxSet, attrs []AttributeMask) {
	switch {
	case w <= 0 || h <= 0:
		return
	case w == 1:
		g.vline(x, y, h, box.vertical, attrs)
		return
	case h == 1:
		g.hline(x, y, w, box.horizontal, attrs)
		return
	}
	right := x + w - 1
	bottom := y + h - 1
	g.put(x, y, box.topLeft, attrs)
	g.put(right, y, box.topRight, attrs)
	g.put(x, bottom, box.bottomLeft, attrs)
	g.put(right, bottom, box.bottomRight, attrs)
	g.hline(x+1, y, w-2, box.horizontal, attrs)
	g.hline(x+1, bottom, w-2, box.horizontal, attrs)
	g.vline(x, y+1, h-2, box.vertical, attrs)
	g.vline(right, y+1, h-2, box.vertical, attrs)
}

// FillRect fills a w by h rectangle with spaces drawn with the pen
func (g *Graphics) FillRect(x int, y int, w int, h int, attrs ...AttributeMask) {
	v := g.visible(x, y, w, h)
	for row := v.Y; row < v.Y+v.Height; row += 1 {
		for col := v.X; col < v.X+v.Width; col += 1 {
			g.put(col, row, ' ', attrs)
		}
	}
}
