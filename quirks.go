package tuikit

import (
	"strings"

	"git.sr.ht/~tuikit/tuikit/log"
)

// terminals which support truecolor without advertising it in COLORTERM,
// keyed by an environment variable they set
var truecolorTerminals = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"ALACRITTY_LOG",
	"WEZTERM_PANE",
	"WT_SESSION",
}

// detectColorMode guesses the color capability of the terminal from its
// environment
func detectColorMode(getenv func(string) string) ColorMode {
	switch {
	case getenv("TUIKIT_FORCE_TRUECOLOR") != "":
		log.Debug("[quirks] truecolor forced")
		return ColorModeTrueColor
	case getenv("TUIKIT_FORCE_256") != "":
		log.Debug("[quirks] 256 colors forced")
		return ColorMode256
	case getenv("TUIKIT_FORCE_16") != "":
		log.Debug("[quirks] 16 colors forced")
		return ColorMode16
	}

	switch getenv("COLORTERM") {
	case "truecolor", "24bit":
		log.Info("RGB color supported")
		return ColorModeTrueColor
	}
	if getenv("TERM_PROGRAM") == "Apple_Terminal" {
		// Terminal.app has no truecolor
		return ColorMode256
	}
	for _, v := range truecolorTerminals {
		if getenv(v) != "" {
			log.Debug("[quirks] %s set, assuming RGB color", v)
			return ColorModeTrueColor
		}
	}

	term := getenv("TERM")
	switch {
	case strings.Contains(term, "truecolor"),
		strings.Contains(term, "24bit"),
		strings.Contains(term, "direct"):
		return ColorModeTrueColor
	case strings.Contains(term, "256color"):
		return ColorMode256
	case term == "linux", term == "vt100", term == "vt220", term == "xterm", term == "screen":
		return ColorMode16
	}
	return ColorMode256
}

// applyQuirks adjusts options for the terminal described by the environment
func applyQuirks(opts *Options, getenv func(string) string) {
	if opts.ColorMode == ColorModeAuto {
		opts.ColorMode = detectColorMode(getenv)
	}
	if getenv("TUIKIT_FORCE_SYNC") != "" {
		log.Debug("[quirks] synchronized update forced")
		opts.SynchronizedUpdate = true
	}
	if getenv("ASCIINEMA_REC") != "" {
		// Asciinema players don't understand mode 2026
		opts.SynchronizedUpdate = false
	}
}
