package replay

import (
	"git.sr.ht/~tuikit/tuikit"
	"git.sr.ht/~tuikit/tuikit/log"
)

func (s *Screen) sgr(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i += 1 {
		switch params[i] {
		case 0:
			s.cursor.attrs = 0
			s.cursor.fg = 0
			s.cursor.bg = 0
		case 1:
			s.cursor.attrs |= tuikit.AttrBold
		case 2:
			s.cursor.attrs |= tuikit.AttrDim
		case 3:
			s.cursor.attrs |= tuikit.AttrItalic
		case 4:
			s.cursor.attrs |= tuikit.AttrUnderline
		case 5:
			s.cursor.attrs |= tuikit.AttrBlink
		case 7:
			s.cursor.attrs |= tuikit.AttrInverse
		case 8:
			s.cursor.attrs |= tuikit.AttrInvisible
		case 9:
			s.cursor.attrs |= tuikit.AttrCrossedOut
		case 21:
			s.cursor.attrs |= tuikit.AttrDoubleUnderline
		case 22:
			s.cursor.attrs &^= tuikit.AttrBold | tuikit.AttrDim
		case 23:
			s.cursor.attrs &^= tuikit.AttrItalic
		case 24:
			s.cursor.attrs &^= tuikit.AttrUnderline | tuikit.AttrDoubleUnderline
		case 25:
			s.cursor.attrs &^= tuikit.AttrBlink
		case 27:
			s.cursor.attrs &^= tuikit.AttrInverse
		case 28:
			s.cursor.attrs &^= tuikit.AttrInvisible
		case 29:
			s.cursor.attrs &^= tuikit.AttrCrossedOut
		case 30, 31, 32, 33, 34, 35, 36, 37:
			s.cursor.fg = tuikit.Palette16Color(uint8(params[i] - 30))
		case 38, 48:
			c, used, ok := extendedColor(params[i+1:])
			if !ok {
				log.Error("[replay] malformed SGR sequence")
				return
			}
			if params[i] == 38 {
				s.cursor.fg = c
			} else {
				s.cursor.bg = c
			}
			i += used
		case 39:
			s.cursor.fg = 0
		case 40, 41, 42, 43, 44, 45, 46, 47:
			s.cursor.bg = tuikit.Palette16Color(uint8(params[i] - 40))
		case 49:
			s.cursor.bg = 0
		case 90, 91, 92, 93, 94, 95, 96, 97:
			s.cursor.fg = tuikit.Palette16Color(uint8(params[i] - 90 + 8))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			s.cursor.bg = tuikit.Palette16Color(uint8(params[i] - 100 + 8))
		}
	}
}

// extendedColor parses the parameters following 38 or 48
func extendedColor(params []int) (tuikit.Color, int, bool) {
	if len(params) < 2 {
		return 0, 0, false
	}
	switch params[0] {
	case 5:
		return tuikit.IndexColor(uint8(params[1])), 2, true
	case 2:
		if len(params) < 4 {
			return 0, 0, false
		}
		return tuikit.RGBColor(
			uint8(params[1]),
			uint8(params[2]),
			uint8(params[3]),
		), 4, true
	}
	return 0, 0, false
}
