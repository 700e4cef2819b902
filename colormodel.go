package tuikit

// ColorMode is the color capability of a terminal
type ColorMode uint8

const (
	// ColorModeAuto detects the capability from the environment
	ColorModeAuto ColorMode = iota
	ColorMode16
	ColorMode256
	ColorModeTrueColor
)

func (m ColorMode) String() string {
	switch m {
	case ColorMode16:
		return "16"
	case ColorMode256:
		return "256"
	case ColorModeTrueColor:
		return "truecolor"
	}
	return "auto"
}

// xterm's default values for the 16 basic colors
var basicRGB = [16][3]uint8{
	{0x00, 0x00, 0x00},
	{0xcd, 0x00, 0x00},
	{0x00, 0xcd, 0x00},
	{0xcd, 0xcd, 0x00},
	{0x00, 0x00, 0xee},
	{0xcd, 0x00, 0xcd},
	{0x00, 0xcd, 0xcd},
	{0xe5, 0xe5, 0xe5},
	{0x7f, 0x7f, 0x7f},
	{0xff, 0x00, 0x00},
	{0x00, 0xff, 0x00},
	{0xff, 0xff, 0x00},
	{0x5c, 0x5c, 0xff},
	{0xff, 0x00, 0xff},
	{0x00, 0xff, 0xff},
	{0xff, 0xff, 0xff},
}

var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// Basic color index for each hue sextant: red, yellow, green, cyan, blue,
// magenta
var hueColors = [6]uint8{1, 3, 2, 6, 4, 5}

// Chroma below which a color is treated as a gray
const grayChroma = 12

var (
	paletteRGB     [256][3]uint8
	palette256To16 [256]uint8
)

func init() {
	copy(paletteRGB[:16], basicRGB[:])
	for i := 0; i < 216; i += 1 {
		paletteRGB[16+i] = [3]uint8{
			cubeValues[i/36],
			cubeValues[(i/6)%6],
			cubeValues[i%6],
		}
	}
	for i := 0; i < 24; i += 1 {
		v := uint8(8 + 10*i)
		paletteRGB[232+i] = [3]uint8{v, v, v}
	}

	for i := 0; i < 16; i += 1 {
		palette256To16[i] = uint8(i)
	}
	for i := 16; i < 256; i += 1 {
		c := paletteRGB[i]
		palette256To16[i] = rgbToPalette16(c[0], c[1], c[2])
	}
}

func extrema(r uint8, g uint8, b uint8) (hi int, lo int) {
	hi, lo = int(r), int(r)
	for _, v := range []int{int(g), int(b)} {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return hi, lo
}

// atLeast reports whether the lightness l2/510 is at or above
// permille/1000. l2 is max+min, twice the lightness on a 0-255 scale.
func atLeast(l2 int, permille int) bool {
	return l2*1000 >= permille*510
}

// hueSextant returns which of the six primary and secondary hues (red,
// yellow, green, cyan, blue, magenta) the color is nearest. chroma must be
// positive.
func hueSextant(r int, g int, b int, hi int, chroma int) int {
	// h/chroma is the hue position in sextants, in [0, 6)
	var h int
	switch hi {
	case r:
		h = g - b
		if h < 0 {
			h += 6 * chroma
		}
	case g:
		h = 2*chroma + b - r
	default:
		h = 4*chroma + r - g
	}
	return ((2*h + chroma) / (2 * chroma)) % 6
}

func rgbToPalette16(r uint8, g uint8, b uint8) uint8 {
	hi, lo := extrema(r, g, b)
	chroma := hi - lo
	l2 := hi + lo
	if chroma < grayChroma {
		switch {
		case atLeast(l2, 875):
			return 15
		case atLeast(l2, 625):
			return 7
		case atLeast(l2, 250):
			return 8
		}
		return 0
	}
	if atLeast(l2, 925) {
		return 15
	}
	idx := hueColors[hueSextant(int(r), int(g), int(b), hi, chroma)]
	if atLeast(l2, 500) {
		idx += 8
	}
	return idx
}

// cubeLevel quantizes a channel to the 6 levels of the xterm color cube.
// The first step of the cube is 95 wide, every following one 40; values in
// [55, 74] snap up to level 1.
func cubeLevel(v uint8) int {
	switch {
	case v < 55:
		return 0
	case v < 75:
		return 1
	}
	return (int(v) - 35) / 40
}

func rgbToPalette256(r uint8, g uint8, b uint8) uint8 {
	hi, lo := extrema(r, g, b)
	if hi-lo >= grayChroma {
		idx := 16 + 36*cubeLevel(r) + 6*cubeLevel(g) + cubeLevel(b)
		if idx != 16 {
			return uint8(idx)
		}
	}
	step := ((hi+lo)/2 - 8) / 10
	switch {
	case step < 0:
		step = 0
	case step > 23:
		step = 23
	}
	return uint8(232 + step)
}

// ToPalette16 converts a Palette256 or 24-bit color to the nearest of the
// 16 basic colors. Other colors are returned unchanged.
func (c Color) ToPalette16() Color {
	switch c.Kind() {
	case KindPalette256:
		return Palette16Color(palette256To16[c.Index()])
	case KindTrueColor:
		r, g, b, _ := c.RGBA()
		return Palette16Color(rgbToPalette16(r, g, b))
	}
	return c
}

// ToPalette256 converts a 24-bit color to the nearest entry of the xterm
// color cube or grayscale ramp. Palette16 colors map to the same index.
// Other colors are returned unchanged.
func (c Color) ToPalette256() Color {
	switch c.Kind() {
	case KindPalette16:
		return IndexColor(c.Index())
	case KindTrueColor:
		r, g, b, _ := c.RGBA()
		return IndexColor(rgbToPalette256(r, g, b))
	}
	return c
}

// ToRGB converts palette colors to their xterm 24-bit values. Unset and
// default colors are returned unchanged.
func (c Color) ToRGB() Color {
	switch c.Kind() {
	case KindPalette16, KindPalette256:
		v := paletteRGB[c.Index()]
		return RGBColor(v[0], v[1], v[2])
	}
	return c
}

// Complementary returns the color with every channel inverted. Alpha is
// kept. Unset and default colors are returned unchanged.
func (c Color) Complementary() Color {
	if c.Kind() == KindNone || c.Kind() == KindDefault {
		return c
	}
	r, g, b, a := c.RGBA()
	return RGBAColor(255-r, 255-g, 255-b, a)
}

// Downgrade converts c to a representation the given mode can display.
// Colors are never upgraded.
func (c Color) Downgrade(mode ColorMode) Color {
	switch mode {
	case ColorMode16:
		return c.ToPalette16()
	case ColorMode256:
		if c.Kind() == KindTrueColor {
			return c.ToPalette256()
		}
	}
	return c
}
