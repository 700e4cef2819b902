// Package ansi contains the escape sequences written to xterm compatible
// terminals.
package ansi

import (
	"strconv"
	"strings"
)

// DEC private modes
const (
	AutoWrap           = 7
	CursorVisibility   = 25
	MouseNormal        = 1000
	MouseButtonEvent   = 1002
	MouseAnyEvent      = 1003
	FocusEvents        = 1004
	MouseSGR           = 1006
	MouseURXVT         = 1015
	AltScreen          = 1049
	BracketedPaste     = 2004
	SynchronizedUpdate = 2026
)

const (
	SGRReset    = "\x1b[0m"
	ClearScreen = "\x1b[H\x1b[2J"
	CursorHome  = "\x1b[H"
)

// DECSET returns the sequence which sets a DEC private mode
func DECSET(mode int) string {
	return "\x1b[?" + strconv.Itoa(mode) + "h"
}

// DECRST returns the sequence which resets a DEC private mode
func DECRST(mode int) string {
	return "\x1b[?" + strconv.Itoa(mode) + "l"
}

// SetTitle returns the OSC 0 sequence setting the window and icon title.
// Control characters are stripped from the title.
func SetTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, title)
	return "\x1b]0;" + title + "\x1b\\"
}

// AppendCursorPosition appends a CUP sequence moving the cursor to the
// zero-based row and col
func AppendCursorPosition(dst []byte, row int, col int) []byte {
	dst = append(dst, "\x1b["...)
	dst = strconv.AppendInt(dst, int64(row+1), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(col+1), 10)
	return append(dst, 'H')
}

// AppendSGR appends a single SGR sequence carrying all params. Nothing is
// appended when params is empty.
func AppendSGR(dst []byte, params ...int) []byte {
	if len(params) == 0 {
		return dst
	}
	dst = append(dst, "\x1b["...)
	for i, p := range params {
		if i > 0 {
			dst = append(dst, ';')
		}
		dst = strconv.AppendInt(dst, int64(p), 10)
	}
	return append(dst, 'm')
}
