package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~tuikit/tuikit"
)

func renderedGrid() *tuikit.Grid {
	g := tuikit.NewGrid(2, 3)
	gfx := tuikit.NewGraphics(g)
	gfx.SetForeground(tuikit.Palette16Color(15))
	gfx.SetBackground(tuikit.RGBColor(0xff, 0, 0))
	gfx.DrawString(0, 0, "a")
	gfx.SetBackground(tuikit.IndexColor(21))
	gfx.DrawString(0, 1, "日")
	tuikit.NewEncoder(tuikit.ColorModeTrueColor).Encode(g)
	return g
}

func TestRender(t *testing.T) {
	img := Render(renderedGrid(), Options{})
	assert.Equal(t, image.Rect(0, 0, 21, 26), img.Bounds())

	red := color.RGBA{R: 0xff, A: 0xff}
	// The bottom row of a cell is below the glyph
	assert.Equal(t, red, img.RGBAAt(6, 12))
	assert.Equal(t, DefaultBackground, img.RGBAAt(13, 12))

	// Some pixels of the glyph are drawn in the foreground
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	found := false
	for y := 0; y < 13; y += 1 {
		for x := 0; x < 7; x += 1 {
			if img.RGBAAt(x, y) == white {
				found = true
			}
		}
	}
	assert.True(t, found)

	// Wide glyphs fill both cells
	blue := color.RGBA{B: 0xff, A: 0xff}
	assert.Equal(t, blue, img.RGBAAt(13, 25))
	assert.Equal(t, DefaultBackground, img.RGBAAt(14, 25))
}

func TestRenderOptions(t *testing.T) {
	bg := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}
	img := Render(renderedGrid(), Options{
		Background: &bg,
		ColorMode:  tuikit.ColorMode16,
	})
	assert.Equal(t, bg, img.RGBAAt(20, 0))
	// Red is reduced to bright red of the xterm palette
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(6, 12))
}

func TestRenderUnflushed(t *testing.T) {
	g := tuikit.NewGrid(1, 1)
	tuikit.NewGraphics(g).FillRect(0, 0, 1, 1)
	img := Render(g, Options{})
	// Only the front buffer is rendered
	assert.Equal(t, DefaultBackground, img.RGBAAt(3, 3))
}

func TestEncode(t *testing.T) {
	img := Render(renderedGrid(), Options{})

	buf := &bytes.Buffer{}
	require.NoError(t, EncodePNG(buf, img))
	decoded, err := png.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, EncodeSixel(buf, Scale(img, 42, 52)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x1bP")))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\x1b\\")))
}

func TestScale(t *testing.T) {
	img := Render(renderedGrid(), Options{})
	scaled := Scale(img, 42, 52)
	assert.Equal(t, image.Rect(0, 0, 42, 52), scaled.Bounds())
	assert.Equal(t, img.RGBAAt(6, 12), scaled.RGBAAt(13, 25))
}

func TestCellSize(t *testing.T) {
	w, h := CellSize(nil)
	assert.Equal(t, 7, w)
	assert.Equal(t, 13, h)
}
