package tuikit

import (
	"time"

	"golang.org/x/exp/slog"

	"git.sr.ht/~tuikit/tuikit/tty"
)

// DefaultReadTimeout bounds how long one iteration of the event loop waits
// for input
const DefaultReadTimeout = 25 * time.Millisecond

// MouseMode selects which mouse events the terminal reports
type MouseMode int

const (
	// MouseOff disables mouse reporting
	MouseOff MouseMode = iota
	// MouseClicks reports presses, releases and the wheel
	MouseClicks
	// MouseDrags additionally reports motion while a button is held
	MouseDrags
	// MouseMotion reports all motion
	MouseMotion
)

func (m MouseMode) String() string {
	switch m {
	case MouseOff:
		return "off"
	case MouseClicks:
		return "clicks"
	case MouseDrags:
		return "drags"
	case MouseMotion:
		return "motion"
	}
	return "unknown"
}

// Options configure a Terminal. The zero value is usable
type Options struct {
	// Logger is an optional slog.Logger that tuikit will log to. tuikit
	// uses stdlib levels for logging, plus log.LevelTrace
	Logger *slog.Logger
	// Tty is the terminal to use. When nil the controlling terminal of the
	// process is opened, and closed again by Terminal.Close
	Tty tty.Tty
	// ReadTimeout bounds the wait for input in each iteration of the
	// event loop. Defaults to DefaultReadTimeout
	ReadTimeout time.Duration
	// ClickTimeout and DoubleClickTimeout tune click detection. See
	// DecoderOptions
	ClickTimeout       time.Duration
	DoubleClickTimeout time.Duration
	// ColorMode limits the colors written to the terminal. ColorModeAuto
	// detects the capability from the environment
	ColorMode ColorMode
	// MouseMode selects the mouse events to report
	MouseMode MouseMode
	// SynchronizedUpdate wraps each frame in synchronized output mode
	// (DEC mode 2026) to avoid tearing
	SynchronizedUpdate bool
	// DisableAltScreen draws on the primary screen instead of the
	// alternate screen
	DisableAltScreen bool
}
