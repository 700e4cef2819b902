package tuikit

import (
	"io"

	"git.sr.ht/~tuikit/tuikit/ansi"
)

// pen is the graphic rendition the terminal draws with
type pen struct {
	attr AttributeMask
	fg   Color
	bg   Color
}

// Encoder turns the differences between a Grid's next and front buffers into
// the escape sequences which update the terminal.
type Encoder struct {
	mode   ColorMode
	buf    []byte
	params []int
}

// NewEncoder returns an Encoder emitting colors no richer than mode.
// ColorModeAuto emits every color as is.
func NewEncoder(mode ColorMode) *Encoder {
	return &Encoder{
		mode:   mode,
		buf:    make([]byte, 0, 8192),
		params: make([]int, 0, 32),
	}
}

// SetColorMode changes the color capability colors are downgraded to
func (e *Encoder) SetColorMode(mode ColorMode) {
	e.mode = mode
}

// ColorMode returns the color capability colors are downgraded to
func (e *Encoder) ColorMode() ColorMode {
	return e.mode
}

// Encode returns the bytes which bring the terminal from g's front buffer to
// its next buffer, and commits next into front. The returned slice is only
// valid until the next call. Nothing is returned when the buffers are equal.
func (e *Encoder) Encode(g *Grid) []byte {
	var (
		out    = e.buf[:0]
		p      pen
		placed bool
		row    int
		col    int
	)
	for y := 0; y < g.rows; y += 1 {
		for x := 0; x < g.cols; x += 1 {
			i := y*g.cols + x
			next := g.next[i]
			if next.continuation {
				continue
			}
			if next == g.front[i] && !g.repaint {
				continue
			}
			if !placed || row != y || col != x {
				out = ansi.AppendCursorPosition(out, y, x)
			}

			params := appendAttributeParams(e.params[:0], p.attr, next.Attribute)
			p.attr = next.Attribute
			if fg := next.Foreground.Downgrade(e.mode); fg != p.fg {
				params = appendColorParams(params, fg, false)
				p.fg = fg
			}
			if bg := next.Background.Downgrade(e.mode); bg != p.bg {
				params = appendColorParams(params, bg, true)
				p.bg = bg
			}
			out = ansi.AppendSGR(out, params...)
			e.params = params

			out = next.Glyph.AppendUTF8(out)
			width := 1
			if x+1 < g.cols && g.next[i+1].continuation {
				width = 2
			}
			// With autowrap off the cursor sticks to the last column,
			// so its position is unknown once it reaches the edge
			row, col = y, x+width
			placed = col < g.cols
		}
	}
	g.commit()
	if len(out) > 0 {
		out = append(out, ansi.SGRReset...)
	}
	e.buf = out
	return out
}

// Flush encodes g and writes the result to w in a single write
func (e *Encoder) Flush(w io.Writer, g *Grid) (int, error) {
	out := e.Encode(g)
	if len(out) == 0 {
		return 0, nil
	}
	return w.Write(out)
}

func appendColorParams(dst []int, c Color, background bool) []int {
	base := 30
	if background {
		base = 40
	}
	switch c.Kind() {
	case KindPalette16:
		idx := int(c.Index())
		if idx < 8 {
			return append(dst, base+idx)
		}
		return append(dst, base+60+idx-8)
	case KindPalette256:
		return append(dst, base+8, 5, int(c.Index()))
	case KindTrueColor:
		r, g, b, _ := c.RGBA()
		return append(dst, base+8, 2, int(r), int(g), int(b))
	}
	return append(dst, base+9)
}
