package tuikit

import (
	"strings"
	"unicode"
)

// Key is delivered for keys which don't produce a printable character on
// their own: named keys (arrows, function keys, ...) and keys pressed with
// Ctrl or Alt. Code is either a rune or one of the Key constants.
type Key struct {
	Code      rune
	Modifiers ModifierMask
}

// ModifierMask is a set of keyboard modifiers. The bit values are the xterm
// modifier encoding: a CSI modifier parameter p carries the mask p-1
type ModifierMask uint8

const (
	ModShift ModifierMask = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
)

// modifiersFromParam decodes the modifier parameter of a CSI key sequence.
// Values outside 2..16 carry no modifiers
func modifiersFromParam(p int) ModifierMask {
	if p < 2 || p > 16 {
		return 0
	}
	return ModifierMask(p - 1)
}

const (
	KeyTab       rune = 0x09
	KeyEnter     rune = 0x0D
	KeyEsc       rune = 0x1B
	KeySpace     rune = 0x20
	KeyBackspace rune = 0x7F

	extended rune = unicode.MaxRune + 1
)

const (
	KeyUp rune = extended + iota
	KeyRight
	KeyDown
	KeyLeft
	KeyInsert
	KeyDelete
	KeyPgDown
	KeyPgUp
	KeyHome
	KeyEnd
	KeyFind
	KeySelect
	KeyBackTab
	KeyF01
	KeyF02
	KeyF03
	KeyF04
	KeyF05
	KeyF06
	KeyF07
	KeyF08
	KeyF09
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[rune]string{
	KeyTab:       "tab",
	KeyEnter:     "enter",
	KeyEsc:       "esc",
	KeySpace:     "space",
	KeyBackspace: "bs",
	KeyUp:        "up",
	KeyRight:     "right",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
	KeyPgDown:    "pgdown",
	KeyPgUp:      "pgup",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyFind:      "find",
	KeySelect:    "select",
	KeyBackTab:   "backtab",
	KeyF01:       "f1",
	KeyF02:       "f2",
	KeyF03:       "f3",
	KeyF04:       "f4",
	KeyF05:       "f5",
	KeyF06:       "f6",
	KeyF07:       "f7",
	KeyF08:       "f8",
	KeyF09:       "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

// Modified keys will always have prefixes in this order:
//
//	<meta-c-a-s-{key}>
func (k Key) String() string {
	buf := &strings.Builder{}
	name, named := keyNames[k.Code]
	switch {
	case !named && k.Code < 0:
		return "<invalid>"
	case !named && k.Code < 0x20 && k.Modifiers == 0:
		// A bare C0 byte, as for a Ctrl chord
		return "<c-" + strings.ToLower(string(k.Code+0x40)) + ">"
	case !named && k.Code > unicode.MaxRune:
		return "<invalid>"
	}

	bracket := named || k.Modifiers != 0
	if bracket {
		buf.WriteRune('<')
	}
	if k.Modifiers&ModMeta != 0 {
		buf.WriteString("meta-")
	}
	if k.Modifiers&ModCtrl != 0 {
		buf.WriteString("c-")
	}
	if k.Modifiers&ModAlt != 0 {
		buf.WriteString("a-")
	}
	if k.Modifiers&ModShift != 0 {
		buf.WriteString("s-")
	}
	if named {
		buf.WriteString(name)
	} else {
		buf.WriteRune(k.Code)
	}
	if bracket {
		buf.WriteRune('>')
	}
	return buf.String()
}

// Matches returns true if the key matches the provided codepoint and
// modifiers
func (k Key) Matches(code rune, mods ...ModifierMask) bool {
	var m ModifierMask
	for _, mod := range mods {
		m |= mod
	}
	return k.Code == code && k.Modifiers == m
}
