package tuikit_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hinshun/vt10x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~tuikit/tuikit"
	"git.sr.ht/~tuikit/tuikit/internal/replay"
)

// visible maps a color to what a terminal reports after drawing it
func visible(c tuikit.Color) tuikit.Color {
	if c.Kind() == tuikit.KindDefault {
		return 0
	}
	return c
}

// requireReplayed checks that every cell of the screen matches the rendered
// grid
func requireReplayed(t *testing.T, g *tuikit.Grid, s *replay.Screen, mode tuikit.ColorMode) {
	t.Helper()
	rows, cols := g.Size()
	for y := 0; y < rows; y += 1 {
		for x := 0; x < cols; x += 1 {
			want, ok := g.Rendered(x, y)
			require.True(t, ok)
			got := s.Cell(x, y)
			require.Equal(t, want.IsContinuation(), got.Continuation, "continuation at %d,%d", x, y)
			if want.IsContinuation() {
				continue
			}
			require.Equal(t, want.Glyph.Rune(), got.Rune, "glyph at %d,%d", x, y)
			require.Equal(t, want.Attribute, got.Attribute, "attributes at %d,%d", x, y)
			require.Equal(t, visible(want.Foreground.Downgrade(mode)), got.Foreground, "foreground at %d,%d", x, y)
			require.Equal(t, visible(want.Background.Downgrade(mode)), got.Background, "background at %d,%d", x, y)
		}
	}
}

func drawString(g *tuikit.Grid, x int, y int, s string, w tuikit.CellWrite) {
	w.Fields |= tuikit.FieldGlyph
	for _, r := range s {
		w.Glyph = r
		g.WriteCell(x, y, w)
		if r >= 0x1100 {
			x += 2
			continue
		}
		x += 1
	}
}

func TestEncoderReplay(t *testing.T) {
	g := tuikit.NewGrid(3, 10)
	drawString(g, 0, 0, "hello", tuikit.CellWrite{
		Fields:     tuikit.FieldForeground | tuikit.FieldAttribute,
		Foreground: tuikit.Palette16Color(1),
		Attribute:  tuikit.AttrBold,
	})
	drawString(g, 3, 1, "日本", tuikit.CellWrite{
		Fields:     tuikit.FieldBackground,
		Background: tuikit.IndexColor(33),
	})
	drawString(g, 0, 2, "rgb", tuikit.CellWrite{
		Fields:     tuikit.FieldForeground | tuikit.FieldBackground | tuikit.FieldAttribute,
		Foreground: tuikit.RGBColor(0x12, 0x34, 0x56),
		Background: tuikit.DefaultColor(),
		Attribute:  tuikit.AttrItalic | tuikit.AttrUnderline,
	})

	enc := tuikit.NewEncoder(tuikit.ColorModeTrueColor)
	s := replay.New(3, 10)
	out := enc.Encode(g)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasSuffix(out, []byte("\x1b[0m")))
	_, err := s.Write(out)
	require.NoError(t, err)
	requireReplayed(t, g, s, tuikit.ColorModeTrueColor)
	assert.Equal(t, "hello\n   日本\nrgb", s.String())

	t.Run("second flush is empty", func(t *testing.T) {
		assert.Empty(t, enc.Encode(g))
		buf := &bytes.Buffer{}
		n, err := enc.Flush(buf, g)
		assert.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, 0, buf.Len())
	})

	t.Run("incremental", func(t *testing.T) {
		drawString(g, 1, 0, "a", tuikit.CellWrite{})
		// Replacing the wide glyph releases its right half
		drawString(g, 5, 1, "x", tuikit.CellWrite{})
		out := enc.Encode(g)
		assert.Equal(t, 2, strings.Count(string(out), "H"))
		_, err := s.Write(out)
		require.NoError(t, err)
		requireReplayed(t, g, s, tuikit.ColorModeTrueColor)
		assert.Equal(t, "hallo\n   日x\nrgb", s.String())
	})

	t.Run("invalidate repaints", func(t *testing.T) {
		g.Invalidate()
		fresh := replay.New(3, 10)
		_, err := fresh.Write(enc.Encode(g))
		require.NoError(t, err)
		requireReplayed(t, g, fresh, tuikit.ColorModeTrueColor)
	})
}

func TestEncoderSequences(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(g *tuikit.Grid)
		mode     tuikit.ColorMode
		expected string
	}{
		{
			name: "attribute added",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "a", tuikit.CellWrite{Fields: tuikit.FieldAttribute, Attribute: tuikit.AttrBold})
				drawString(g, 1, 0, "b", tuikit.CellWrite{Fields: tuikit.FieldAttribute, Attribute: tuikit.AttrBold | tuikit.AttrItalic})
			},
			mode:     tuikit.ColorModeTrueColor,
			expected: "\x1b[1;1H\x1b[1ma\x1b[3mb\x1b[0m",
		},
		{
			name: "attribute removed",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "a", tuikit.CellWrite{Fields: tuikit.FieldAttribute, Attribute: tuikit.AttrBold | tuikit.AttrDim})
				drawString(g, 1, 0, "b", tuikit.CellWrite{Fields: tuikit.FieldAttribute, Attribute: tuikit.AttrDim})
			},
			mode:     tuikit.ColorModeTrueColor,
			expected: "\x1b[1;1H\x1b[1;2ma\x1b[22;2mb\x1b[0m",
		},
		{
			name: "color suppressed when unchanged",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "ab", tuikit.CellWrite{Fields: tuikit.FieldForeground, Foreground: tuikit.IndexColor(196)})
			},
			mode:     tuikit.ColorModeTrueColor,
			expected: "\x1b[1;1H\x1b[38;5;196mab\x1b[0m",
		},
		{
			name: "bright palette",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "ab", tuikit.CellWrite{
					Fields:     tuikit.FieldForeground | tuikit.FieldBackground,
					Foreground: tuikit.Palette16Color(9),
					Background: tuikit.Palette16Color(4),
				})
			},
			mode:     tuikit.ColorModeTrueColor,
			expected: "\x1b[1;1H\x1b[91;44mab\x1b[0m",
		},
		{
			name: "truecolor",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "ab", tuikit.CellWrite{Fields: tuikit.FieldBackground, Background: tuikit.RGBColor(1, 2, 3)})
			},
			mode:     tuikit.ColorModeTrueColor,
			expected: "\x1b[1;1H\x1b[48;2;1;2;3mab\x1b[0m",
		},
		{
			name: "downgraded to 256",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "ab", tuikit.CellWrite{Fields: tuikit.FieldForeground, Foreground: tuikit.RGBColor(255, 0, 0)})
			},
			mode:     tuikit.ColorMode256,
			expected: "\x1b[1;1H\x1b[38;5;196mab\x1b[0m",
		},
		{
			name: "downgraded to 16",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "ab", tuikit.CellWrite{Fields: tuikit.FieldForeground, Foreground: tuikit.IndexColor(9)})
			},
			mode:     tuikit.ColorMode16,
			expected: "\x1b[1;1H\x1b[91mab\x1b[0m",
		},
		{
			name: "default color",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "ab", tuikit.CellWrite{Fields: tuikit.FieldForeground, Foreground: tuikit.DefaultColor()})
			},
			mode:     tuikit.ColorModeTrueColor,
			expected: "\x1b[1;1H\x1b[39mab\x1b[0m",
		},
		{
			name: "wide glyph",
			setup: func(g *tuikit.Grid) {
				drawString(g, 0, 0, "日b", tuikit.CellWrite{})
			},
			mode:     tuikit.ColorModeTrueColor,
			expected: "\x1b[1;1H日b\x1b[0m",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := tuikit.NewGrid(1, 3)
			enc := tuikit.NewEncoder(test.mode)
			// Commit the blank screen first
			enc.Encode(g)
			test.setup(g)
			assert.Equal(t, test.expected, string(enc.Encode(g)))
		})
	}
}

func TestEncoderCursorAtEdge(t *testing.T) {
	g := tuikit.NewGrid(2, 2)
	enc := tuikit.NewEncoder(tuikit.ColorModeTrueColor)
	enc.Encode(g)
	drawString(g, 1, 0, "a", tuikit.CellWrite{})
	drawString(g, 0, 1, "b", tuikit.CellWrite{})
	assert.Equal(t, "\x1b[1;2Ha\x1b[2;1Hb\x1b[0m", string(enc.Encode(g)))
}

func TestEncoderVT10x(t *testing.T) {
	g := tuikit.NewGrid(4, 12)
	drawString(g, 0, 0, "tuikit", tuikit.CellWrite{
		Fields:     tuikit.FieldForeground,
		Foreground: tuikit.IndexColor(160),
	})
	drawString(g, 2, 3, "corner", tuikit.CellWrite{
		Fields:     tuikit.FieldBackground,
		Background: tuikit.Palette16Color(2),
	})

	enc := tuikit.NewEncoder(tuikit.ColorMode256)
	vt := vt10x.New(vt10x.WithSize(12, 4))
	_, err := vt.Write(enc.Encode(g))
	require.NoError(t, err)

	for y := 0; y < 4; y += 1 {
		for x := 0; x < 12; x += 1 {
			c, _ := g.Rendered(x, y)
			got := vt.Cell(x, y).Char
			if got == 0 {
				got = ' '
			}
			assert.Equal(t, c.Glyph.Rune(), got, "glyph at %d,%d", x, y)
		}
	}
	assert.Equal(t, vt10x.Color(160), vt.Cell(0, 0).FG)
	assert.Equal(t, vt10x.Color(2), vt.Cell(2, 3).BG)

	drawString(g, 0, 0, "T", tuikit.CellWrite{})
	_, err = vt.Write(enc.Encode(g))
	require.NoError(t, err)
	assert.Equal(t, 'T', vt.Cell(0, 0).Char)
	assert.Equal(t, 'u', vt.Cell(1, 0).Char)
}
