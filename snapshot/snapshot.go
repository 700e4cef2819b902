// Package snapshot renders the rendered contents of a tuikit.Grid to an
// image. Snapshots are used to inspect frames while debugging and as test
// fixtures.
package snapshot

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/mattn/go-sixel"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"git.sr.ht/~tuikit/tuikit"
)

var (
	DefaultForeground = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	DefaultBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// Options control how a grid is rendered. The zero value renders with
// basicfont.Face7x13 and the default colors
type Options struct {
	// Face draws the glyphs. Cells are sized after the advance of 'M' and
	// the line height of the face
	Face font.Face
	// Foreground and Background replace unset and default colors
	Foreground *color.RGBA
	Background *color.RGBA
	// ColorMode reduces colors the way the encoder would before drawing.
	// ColorModeAuto draws every color as is
	ColorMode tuikit.ColorMode
}

// CellSize returns the size of one cell in pixels for face. A nil face
// measures basicfont.Face7x13
func CellSize(face font.Face) (width int, height int) {
	if face == nil {
		face = basicfont.Face7x13
	}
	adv, ok := face.GlyphAdvance('M')
	width = adv.Ceil()
	if !ok || width == 0 {
		width = 7
	}
	return width, face.Metrics().Height.Ceil()
}

// Render draws what the terminal shows after the last encode of g: the
// front buffer of the grid
func Render(g *tuikit.Grid, opts Options) *image.RGBA {
	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	defFG := DefaultForeground
	if opts.Foreground != nil {
		defFG = *opts.Foreground
	}
	defBG := DefaultBackground
	if opts.Background != nil {
		defBG = *opts.Background
	}

	cw, ch := CellSize(face)
	rows, cols := g.Size()
	img := image.NewRGBA(image.Rect(0, 0, cols*cw, rows*ch))
	draw.Draw(img, img.Bounds(), image.NewUniform(defBG), image.Point{}, draw.Src)
	ascent := face.Metrics().Ascent.Ceil()

	for row := 0; row < rows; row += 1 {
		for col := 0; col < cols; col += 1 {
			cell, _ := g.Rendered(col, row)
			if cell.IsContinuation() {
				continue
			}
			width := 1
			if next, ok := g.Rendered(col+1, row); ok && next.IsContinuation() {
				width = 2
			}
			fg := resolve(cell.Foreground.Downgrade(opts.ColorMode), defFG)
			bg := resolve(cell.Background.Downgrade(opts.ColorMode), defBG)
			if cell.Attribute.Has(tuikit.AttrInverse) || cell.Attribute.Has(tuikit.AttrStandout) {
				fg, bg = bg, fg
			}
			if cell.Attribute.Has(tuikit.AttrDim) {
				fg = dim(fg)
			}
			if cell.Attribute.Has(tuikit.AttrInvisible) {
				fg = bg
			}

			x, y := col*cw, row*ch
			rect := image.Rect(x, y, x+width*cw, y+ch)
			draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

			if r := cell.Glyph.Rune(); r != ' ' {
				d := &font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(fg),
					Face: face,
					Dot:  fixed.P(x, y+ascent),
				}
				d.DrawString(string(r))
			}
			switch {
			case cell.Attribute.Has(tuikit.AttrDoubleUnderline):
				hline(img, rect, y+ascent+1, fg)
				hline(img, rect, y+ascent+3, fg)
			case cell.Attribute.Has(tuikit.AttrUnderline):
				hline(img, rect, y+ascent+2, fg)
			}
			if cell.Attribute.Has(tuikit.AttrCrossedOut) {
				hline(img, rect, y+ch/2, fg)
			}
		}
	}
	return img
}

func resolve(c tuikit.Color, def color.RGBA) color.RGBA {
	switch c.Kind() {
	case tuikit.KindNone, tuikit.KindDefault:
		return def
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * 2 / 3),
		G: uint8(uint16(c.G) * 2 / 3),
		B: uint8(uint16(c.B) * 2 / 3),
		A: c.A,
	}
}

func hline(img *image.RGBA, cell image.Rectangle, y int, c color.RGBA) {
	if y < cell.Min.Y || y >= cell.Max.Y {
		return
	}
	for x := cell.Min.X; x < cell.Max.X; x += 1 {
		img.SetRGBA(x, y, c)
	}
}

// Scale resizes img to w by h pixels
func Scale(img image.Image, w int, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// EncodePNG writes img as a PNG
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeSixel writes img as a sixel sequence, which sixel capable terminals
// display inline
func EncodeSixel(w io.Writer, img image.Image) error {
	return sixel.NewEncoder(w).Encode(img)
}
