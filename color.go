package tuikit

import "fmt"

// Color is a terminal color. The zero value is unset: a cell with an unset
// color inherits the terminal's default, and a Graphics drawing with an unset
// color leaves the color already in the grid untouched. DefaultColor
// explicitly selects the terminal default.
//
// Colors are packed into a uint64: the kind lives above bit 32, the payload
// (palette index, or r<<24|g<<16|b<<8|a) below it.
type Color uint64

const (
	kindDefault    Color = 1 << 32
	kindPalette16  Color = 2 << 32
	kindPalette256 Color = 3 << 32
	kindRGB        Color = 4 << 32
	kindMask       Color = 7 << 32
)

// ColorKind is the representation a Color holds
type ColorKind uint8

const (
	KindNone ColorKind = iota
	KindDefault
	KindPalette16
	KindPalette256
	KindTrueColor
)

// DefaultColor is the terminal's default foreground or background color
func DefaultColor() Color {
	return kindDefault
}

// Palette16Color returns one of the 16 basic ANSI colors. Only the low four
// bits of index are used
func Palette16Color(index uint8) Color {
	return kindPalette16 | Color(index&0x0F)
}

// IndexColor returns a color from the 256 color xterm palette
func IndexColor(index uint8) Color {
	return kindPalette256 | Color(index)
}

// RGBColor returns an opaque 24-bit color
func RGBColor(r uint8, g uint8, b uint8) Color {
	return RGBAColor(r, g, b, 0xFF)
}

// RGBAColor returns a 24-bit color with an alpha channel. Alpha is carried
// with the color but never blended.
func RGBAColor(r uint8, g uint8, b uint8, a uint8) Color {
	return kindRGB | Color(r)<<24 | Color(g)<<16 | Color(b)<<8 | Color(a)
}

// HexColor creates an opaque 24-bit color from a 0xRRGGBB value
func HexColor(c uint32) Color {
	return RGBColor(uint8(c>>16), uint8(c>>8), uint8(c))
}

// Kind returns the representation c holds
func (c Color) Kind() ColorKind {
	switch c & kindMask {
	case kindDefault:
		return KindDefault
	case kindPalette16:
		return KindPalette16
	case kindPalette256:
		return KindPalette256
	case kindRGB:
		return KindTrueColor
	}
	return KindNone
}

// IsSet reports whether c is anything but the zero value
func (c Color) IsSet() bool {
	return c.Kind() != KindNone
}

// Index returns the palette index of a Palette16 or Palette256 color, and 0
// for any other kind
func (c Color) Index() uint8 {
	switch c.Kind() {
	case KindPalette16, KindPalette256:
		return uint8(c)
	}
	return 0
}

// RGBA returns the channels of c. Palette colors are converted through the
// xterm palette. Unset and default colors report zero.
func (c Color) RGBA() (r uint8, g uint8, b uint8, a uint8) {
	c = c.ToRGB()
	if c.Kind() != KindTrueColor {
		return 0, 0, 0, 0
	}
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Params returns the SGR parameters for the color: an empty slice for unset
// and default colors, the index for palette colors and r, g, b for 24-bit
// colors
func (c Color) Params() []uint8 {
	switch c.Kind() {
	case KindPalette16, KindPalette256:
		return []uint8{uint8(c)}
	case KindTrueColor:
		r, g, b, _ := c.RGBA()
		return []uint8{r, g, b}
	}
	return []uint8{}
}

func (c Color) String() string {
	switch c.Kind() {
	case KindDefault:
		return "default"
	case KindPalette16:
		return fmt.Sprintf("palette16(%d)", c.Index())
	case KindPalette256:
		return fmt.Sprintf("index(%d)", c.Index())
	case KindTrueColor:
		r, g, b, a := c.RGBA()
		return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
	}
	return "none"
}
