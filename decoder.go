package tuikit

import (
	"time"

	"git.sr.ht/~tuikit/tuikit/glyph"
	"git.sr.ht/~tuikit/tuikit/log"
)

type decoderState uint8

const (
	stateInit decoderState = iota
	stateEsc
	stateSs3
	stateDcs
	stateCsi
	stateCsiParams
	stateCsiSelector
	stateOsc
	stateSkipUntilEsc
	stateX10Mouse
)

func (s decoderState) String() string {
	switch s {
	case stateInit:
		return "Init"
	case stateEsc:
		return "Esc"
	case stateSs3:
		return "Ss3"
	case stateDcs:
		return "Dcs"
	case stateCsi:
		return "Csi"
	case stateCsiParams:
		return "CsiParams"
	case stateCsiSelector:
		return "CsiSelector"
	case stateOsc:
		return "Osc"
	case stateSkipUntilEsc:
		return "SkipUntilEsc"
	case stateX10Mouse:
		return "X10Mouse"
	}
	return "unknown"
}

const (
	maxParams     = 16
	maxParamValue = 0xFFFF
)

// DecoderOptions configure a Decoder. Zero values select the defaults
type DecoderOptions struct {
	// ClickTimeout is the longest a press may be held and still produce a
	// MouseClick on release
	ClickTimeout time.Duration
	// DoubleClickTimeout is the longest time between two clicks which are
	// reported as a double click
	DoubleClickTimeout time.Duration
	// Now returns the current time. Defaults to time.Now
	Now func() time.Time
}

// Decoder converts the bytes a terminal sends into Events. It is a state
// machine fed one byte at a time: sequences may be split across any number
// of writes. Malformed input never fails: the decoder recovers and continues
// with the following bytes.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	state decoderState

	params  [maxParams]int
	nparams int
	cur     int
	hasCur  bool
	sawSep  bool
	private bool

	// afterString is set when an ESC ended an OSC or DCS body, so that a
	// following '\' completes the string terminator
	afterString bool

	utf8     [4]byte
	utf8Len  int
	utf8Need int

	pasting    bool
	paste      []byte
	pasteMatch int

	x10    [3]byte
	x10Len int

	events []Event
	head   int

	clicks clickDetector
	now    func() time.Time
}

// NewDecoder returns a Decoder in its initial state
func NewDecoder(opts DecoderOptions) *Decoder {
	d := &Decoder{
		clicks: newClickDetector(opts.ClickTimeout, opts.DoubleClickTimeout),
		now:    opts.Now,
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Write feeds p to the decoder. It never returns an error
func (d *Decoder) Write(p []byte) (int, error) {
	for _, b := range p {
		d.Feed(b)
	}
	return len(p), nil
}

// Next returns the oldest decoded event which has not been returned yet
func (d *Decoder) Next() (Event, bool) {
	if d.head >= len(d.events) {
		return nil, false
	}
	ev := d.events[d.head]
	d.events[d.head] = nil
	d.head += 1
	if d.head == len(d.events) {
		d.events = d.events[:0]
		d.head = 0
	}
	return ev, true
}

// Pending returns the number of decoded events not yet returned by Next
func (d *Decoder) Pending() int {
	return len(d.events) - d.head
}

// Idle tells the decoder no input arrived within the read timeout. An ESC
// still waiting for the rest of a sequence was a press of the escape key,
// and a sequence cut off right after its introducer was an Alt chord.
func (d *Decoder) Idle() {
	if d.pasting {
		return
	}
	switch d.state {
	case stateEsc:
		if d.afterString {
			return
		}
		d.emit(Key{Code: KeyEsc})
	case stateSs3:
		d.emit(Key{Code: 'O', Modifiers: ModAlt})
	case stateCsi:
		d.emit(Key{Code: '[', Modifiers: ModAlt})
	default:
		return
	}
	d.state = stateInit
}

// Reset returns the decoder to its initial state. Undelivered events are
// kept
func (d *Decoder) Reset() {
	d.state = stateInit
	d.resetParams()
	d.afterString = false
	d.utf8Len, d.utf8Need = 0, 0
	d.pasting = false
	d.paste = d.paste[:0]
	d.pasteMatch = 0
	d.x10Len = 0
}

func (d *Decoder) emit(ev Event) {
	d.events = append(d.events, ev)
}

func (d *Decoder) resetParams() {
	d.nparams = 0
	d.cur = 0
	d.hasCur = false
	d.sawSep = false
	d.private = false
}

func (d *Decoder) pushParam() {
	if d.nparams < maxParams {
		d.params[d.nparams] = d.cur
		d.nparams += 1
	}
	d.cur = 0
	d.hasCur = false
}

// param returns parameter i, or def when it is missing or zero
func (d *Decoder) param(i int, def int) int {
	if i >= d.nparams || d.params[i] == 0 {
		return def
	}
	return d.params[i]
}

// Feed processes a single byte
func (d *Decoder) Feed(b byte) {
	if d.pasting {
		d.pasteByte(b)
		return
	}
	switch d.state {
	case stateInit:
		d.ground(b)
	case stateEsc:
		d.escape(b)
	case stateSs3:
		d.ss3(b)
	case stateDcs, stateOsc:
		switch b {
		case 0x07:
			d.state = stateInit
		case 0x1b:
			d.state = stateEsc
			d.afterString = true
		}
	case stateCsi:
		d.csi(b)
	case stateCsiParams:
		d.csiParams(b)
	case stateCsiSelector:
		d.csiSelector(b)
	case stateSkipUntilEsc:
		if b == 0x1b {
			d.state = stateEsc
		}
	case stateX10Mouse:
		d.x10Mouse(b)
	}
}

// pasteTerminator ends bracketed paste. Everything before it is pasted text
var pasteTerminator = []byte("\x1b[201~")

func (d *Decoder) pasteByte(b byte) {
	if b == pasteTerminator[d.pasteMatch] {
		d.pasteMatch += 1
		if d.pasteMatch == len(pasteTerminator) {
			d.emit(Paste{Text: string(d.paste)})
			d.pasting = false
			d.paste = d.paste[:0]
			d.pasteMatch = 0
			d.state = stateInit
		}
		return
	}
	// Only the first byte of the terminator is an ESC, so a diverging
	// byte either restarts the match or is plain text
	d.paste = append(d.paste, pasteTerminator[:d.pasteMatch]...)
	d.pasteMatch = 0
	if b == pasteTerminator[0] {
		d.pasteMatch = 1
		return
	}
	d.paste = append(d.paste, b)
}

func (d *Decoder) ground(b byte) {
	if d.utf8Need > 0 {
		d.continueUTF8(b)
		return
	}
	switch {
	case b == 0x1b:
		d.state = stateEsc
	case b == 0x09:
		d.emit(Key{Code: KeyTab})
	case b == 0x0d, b == 0x0a:
		d.emit(Key{Code: KeyEnter})
	case b == 0x08, b == 0x7f:
		d.emit(Key{Code: KeyBackspace})
	case b < 0x20:
		d.emit(ctrlKey(b, 0))
	case b < 0x80:
		d.emit(Typed{Char: rune(b)})
	default:
		d.startUTF8(b)
	}
}

// ctrlKey maps a C0 byte to the key chord which produces it
func ctrlKey(b byte, mods ModifierMask) Key {
	mods |= ModCtrl
	switch {
	case b == 0x00:
		return Key{Code: KeySpace, Modifiers: mods}
	case b <= 0x1a:
		return Key{Code: rune('a' + b - 1), Modifiers: mods}
	default:
		// 0x1c..0x1f
		return Key{Code: rune(b + 0x40), Modifiers: mods}
	}
}

func utf8SeqLen(b byte) int {
	switch {
	case b >= 0xc2 && b <= 0xdf:
		return 2
	case b >= 0xe0 && b <= 0xef:
		return 3
	case b >= 0xf0 && b <= 0xf4:
		return 4
	}
	return 0
}

func (d *Decoder) startUTF8(b byte) {
	n := utf8SeqLen(b)
	if n == 0 {
		log.Trace("[decoder] dropping invalid UTF-8 byte 0x%02x", b)
		return
	}
	d.utf8[0] = b
	d.utf8Len = 1
	d.utf8Need = n
}

func (d *Decoder) continueUTF8(b byte) {
	if b&0xc0 != 0x80 {
		// The sequence was cut short. Its bytes are dropped and b starts
		// over
		log.Trace("[decoder] dropping truncated UTF-8 sequence % x", d.utf8[:d.utf8Len])
		d.utf8Len, d.utf8Need = 0, 0
		d.Feed(b)
		return
	}
	d.utf8[d.utf8Len] = b
	d.utf8Len += 1
	if d.utf8Len < d.utf8Need {
		return
	}
	cp, _, ok := glyph.Decode(d.utf8[:d.utf8Len])
	d.utf8Len, d.utf8Need = 0, 0
	if !ok {
		// Overlong forms and surrogates. The lead byte is dropped; the
		// rest are continuation bytes which can't start a sequence either
		log.Trace("[decoder] dropping invalid UTF-8 sequence")
		return
	}
	if glyph.Classify(cp.Rune()) == glyph.Control {
		return
	}
	d.emit(Typed{Char: cp.Rune()})
}

func (d *Decoder) escape(b byte) {
	afterString := d.afterString
	d.afterString = false
	d.state = stateInit
	switch {
	case b == '\\' && afterString:
		// String terminator
	case b == 0x1b:
		d.emit(Key{Code: KeyEsc})
		d.state = stateEsc
	case b == 'O':
		d.state = stateSs3
	case b == 'P':
		d.state = stateDcs
	case b == '[':
		d.resetParams()
		d.state = stateCsi
	case b == ']':
		d.state = stateOsc
	case b == 0x09:
		d.emit(Key{Code: KeyTab, Modifiers: ModAlt})
	case b == 0x0d, b == 0x0a:
		d.emit(Key{Code: KeyEnter, Modifiers: ModAlt})
	case b == 0x08, b == 0x7f:
		d.emit(Key{Code: KeyBackspace, Modifiers: ModAlt})
	case b < 0x20:
		d.emit(ctrlKey(b, ModAlt))
	case b < 0x7f:
		d.emit(Key{Code: rune(b), Modifiers: ModAlt})
	default:
		// Not an escape sequence: the ESC was a key press of its own
		d.emit(Key{Code: KeyEsc})
		d.Feed(b)
	}
}

func (d *Decoder) ss3(b byte) {
	d.state = stateInit
	switch b {
	case 'A':
		d.emit(Key{Code: KeyUp})
	case 'B':
		d.emit(Key{Code: KeyDown})
	case 'C':
		d.emit(Key{Code: KeyRight})
	case 'D':
		d.emit(Key{Code: KeyLeft})
	case 'H':
		d.emit(Key{Code: KeyHome})
	case 'F':
		d.emit(Key{Code: KeyEnd})
	case 'M':
		d.emit(Key{Code: KeyEnter})
	case 'P':
		d.emit(Key{Code: KeyF01})
	case 'Q':
		d.emit(Key{Code: KeyF02})
	case 'R':
		d.emit(Key{Code: KeyF03})
	case 'S':
		d.emit(Key{Code: KeyF04})
	case 0x1b:
		d.state = stateEsc
	default:
		if b >= 0x20 && b < 0x7f {
			// ESC O was Alt+O followed by an ordinary key
			d.emit(Key{Code: 'O', Modifiers: ModAlt})
			d.Feed(b)
			return
		}
		log.Trace("[decoder] unknown SS3 sequence %q", b)
	}
}

func (d *Decoder) csi(b byte) {
	switch b {
	case 'A', 'B', 'C', 'D', 'H', 'F', 'Z':
		d.dispatch(b)
		d.state = stateInit
	case 'M':
		// X10 mouse: three raw bytes follow
		d.x10Len = 0
		d.state = stateX10Mouse
	case '<':
		d.private = true
		d.state = stateCsiParams
	case 0x1b:
		d.state = stateEsc
	default:
		d.state = stateCsiParams
		d.Feed(b)
	}
}

func (d *Decoder) csiParams(b byte) {
	switch {
	case b >= '0' && b <= '9':
		d.cur = d.cur*10 + int(b-'0')
		if d.cur > maxParamValue {
			d.cur = maxParamValue
		}
		d.hasCur = true
	case b == ';':
		d.pushParam()
		d.sawSep = true
	case b == 0x1b:
		d.state = stateEsc
	default:
		if d.hasCur || d.sawSep {
			d.pushParam()
		}
		d.state = stateCsiSelector
		d.Feed(b)
	}
}

func (d *Decoder) csiSelector(b byte) {
	if b == 0x1b {
		d.state = stateEsc
		return
	}
	if d.dispatch(b) {
		d.state = stateInit
		return
	}
	log.Trace("[decoder] unknown CSI sequence %q with %d params", b, d.nparams)
	d.state = stateSkipUntilEsc
}

// dispatch handles a complete CSI sequence. It reports whether the final
// byte was recognized
func (d *Decoder) dispatch(final byte) bool {
	mods := modifiersFromParam(d.param(1, 1))
	switch final {
	case 'M', 'm':
		d.mouse(final == 'm')
	case 'A':
		d.emit(Key{Code: KeyUp, Modifiers: mods})
	case 'B':
		d.emit(Key{Code: KeyDown, Modifiers: mods})
	case 'C':
		d.emit(Key{Code: KeyRight, Modifiers: mods})
	case 'D':
		d.emit(Key{Code: KeyLeft, Modifiers: mods})
	case 'H':
		d.emit(Key{Code: KeyHome, Modifiers: mods})
	case 'F':
		d.emit(Key{Code: KeyEnd, Modifiers: mods})
	case 'P':
		d.emit(Key{Code: KeyF01, Modifiers: mods})
	case 'Q':
		d.emit(Key{Code: KeyF02, Modifiers: mods})
	case 'R':
		d.emit(Key{Code: KeyF03, Modifiers: mods})
	case 'S':
		d.emit(Key{Code: KeyF04, Modifiers: mods})
	case 'Z':
		d.emit(Key{Code: KeyBackTab, Modifiers: mods})
	case 'I':
		d.emit(FocusIn{})
	case 'O':
		d.emit(FocusOut{})
	case '~':
		d.tilde(mods)
	default:
		return false
	}
	return true
}

var tildeKeys = map[int]rune{
	1:  KeyFind,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeySelect,
	5:  KeyPgUp,
	6:  KeyPgDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF01,
	12: KeyF02,
	13: KeyF03,
	14: KeyF04,
	15: KeyF05,
	17: KeyF06,
	18: KeyF07,
	19: KeyF08,
	20: KeyF09,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

const (
	pasteStart = 200
	pasteEnd   = 201
)

func (d *Decoder) tilde(mods ModifierMask) {
	code := d.param(0, 0)
	switch code {
	case pasteStart:
		d.pasting = true
		d.paste = d.paste[:0]
		d.pasteMatch = 0
		return
	case pasteEnd:
		// Paste ends are consumed while pasting. A stray one is ignored
		return
	}
	key, ok := tildeKeys[code]
	if !ok {
		log.Trace("[decoder] dropping unknown key code %d", code)
		return
	}
	d.emit(Key{Code: key, Modifiers: mods})
}

func (d *Decoder) mouse(release bool) {
	cb, x, y := d.param(0, 0), d.param(1, 1), d.param(2, 1)
	switch {
	case d.private && d.nparams == 3:
	case !d.private && d.nparams == 3:
		// urxvt encoding offsets the button byte like X10
		d.legacyMouse(cb-32, x, y)
		return
	default:
		log.Trace("[decoder] dropping mouse report with %d params", d.nparams)
		return
	}
	m := parseMouseReport(cb, x, y, release)
	d.clicks.process(m, d.now(), d.emit)
}

// x10Mouse collects the button, column and row bytes of an X10 report,
// each offset by 32
func (d *Decoder) x10Mouse(b byte) {
	if b < 0x20 {
		log.Trace("[decoder] dropping truncated X10 mouse report")
		d.state = stateInit
		d.x10Len = 0
		d.Feed(b)
		return
	}
	d.x10[d.x10Len] = b
	d.x10Len += 1
	if d.x10Len < len(d.x10) {
		return
	}
	d.state = stateInit
	d.x10Len = 0
	d.legacyMouse(int(d.x10[0])-32, int(d.x10[1])-32, int(d.x10[2])-32)
}

// legacyMouse handles X10 and urxvt reports, which carry no release flag
func (d *Decoder) legacyMouse(cb int, x int, y int) {
	if cb < 0 || x < 1 || y < 1 {
		log.Trace("[decoder] dropping legacy mouse report %d;%d;%d", cb, x, y)
		return
	}
	release := false
	if cb&(mouseMotion|mouseWheel) == 0 && cb&mouseButtonBits == 3 {
		// Every release is reported as button 3
		release = true
	}
	m := parseMouseReport(cb, x, y, release)
	d.clicks.process(m, d.now(), d.emit)
}
