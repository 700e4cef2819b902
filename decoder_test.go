package tuikit

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func drain(d *Decoder) []Event {
	events := []Event{}
	for {
		ev, ok := d.Next()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

func decode(input string) []Event {
	d := NewDecoder(DecoderOptions{})
	d.Write([]byte(input))
	return drain(d)
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Event
	}{
		{
			name:     "printable",
			input:    "aZ ",
			expected: []Event{Typed{Char: 'a'}, Typed{Char: 'Z'}, Typed{Char: ' '}},
		},
		{
			name:     "enter tab backspace",
			input:    "\r\t\x7f\x08\n",
			expected: []Event{Key{Code: KeyEnter}, Key{Code: KeyTab}, Key{Code: KeyBackspace}, Key{Code: KeyBackspace}, Key{Code: KeyEnter}},
		},
		{
			name:     "ctrl letters",
			input:    "\x01\x1a\x00\x1f",
			expected: []Event{Key{Code: 'a', Modifiers: ModCtrl}, Key{Code: 'z', Modifiers: ModCtrl}, Key{Code: KeySpace, Modifiers: ModCtrl}, Key{Code: '_', Modifiers: ModCtrl}},
		},
		{
			name:     "utf-8",
			input:    "é日😀",
			expected: []Event{Typed{Char: 'é'}, Typed{Char: '日'}, Typed{Char: '😀'}},
		},
		{
			name:     "invalid lead byte",
			input:    "\xffa",
			expected: []Event{Typed{Char: 'a'}},
		},
		{
			name:     "truncated sequence",
			input:    "\xe6\x97x",
			expected: []Event{Typed{Char: 'x'}},
		},
		{
			name:     "overlong encoding",
			input:    "\xe0\x80\xafy",
			expected: []Event{Typed{Char: 'y'}},
		},
		{
			name:     "arrows",
			input:    "\x1b[A\x1b[B\x1b[C\x1b[D",
			expected: []Event{Key{Code: KeyUp}, Key{Code: KeyDown}, Key{Code: KeyRight}, Key{Code: KeyLeft}},
		},
		{
			name:     "modified arrow",
			input:    "\x1b[1;5A\x1b[1;2D\x1b[1;10C",
			expected: []Event{Key{Code: KeyUp, Modifiers: ModCtrl}, Key{Code: KeyLeft, Modifiers: ModShift}, Key{Code: KeyRight, Modifiers: ModMeta | ModShift}},
		},
		{
			name:     "modifier out of range",
			input:    "\x1b[1;17A",
			expected: []Event{Key{Code: KeyUp}},
		},
		{
			name:     "home end backtab",
			input:    "\x1b[H\x1b[F\x1b[Z",
			expected: []Event{Key{Code: KeyHome}, Key{Code: KeyEnd}, Key{Code: KeyBackTab}},
		},
		{
			name:     "ss3",
			input:    "\x1bOA\x1bOH\x1bOP\x1bOS",
			expected: []Event{Key{Code: KeyUp}, Key{Code: KeyHome}, Key{Code: KeyF01}, Key{Code: KeyF04}},
		},
		{
			name:     "ss3 unknown terminator",
			input:    "\x1bOzq",
			expected: []Event{Typed{Char: 'q'}},
		},
		{
			name:  "tilde keys",
			input: "\x1b[1~\x1b[2~\x1b[3~\x1b[5~\x1b[6~\x1b[15~\x1b[17~\x1b[21~\x1b[23~\x1b[24~",
			expected: []Event{
				Key{Code: KeyFind},
				Key{Code: KeyInsert},
				Key{Code: KeyDelete},
				Key{Code: KeyPgUp},
				Key{Code: KeyPgDown},
				Key{Code: KeyF05},
				Key{Code: KeyF06},
				Key{Code: KeyF10},
				Key{Code: KeyF11},
				Key{Code: KeyF12},
			},
		},
		{
			name:     "modified tilde key",
			input:    "\x1b[3;5~",
			expected: []Event{Key{Code: KeyDelete, Modifiers: ModCtrl}},
		},
		{
			name:     "unknown tilde code is dropped",
			input:    "\x1b[99~a",
			expected: []Event{Typed{Char: 'a'}},
		},
		{
			name:     "alt",
			input:    "\x1ba\x1bA\x1b\x01",
			expected: []Event{Key{Code: 'a', Modifiers: ModAlt}, Key{Code: 'A', Modifiers: ModAlt}, Key{Code: 'a', Modifiers: ModAlt | ModCtrl}},
		},
		{
			name:     "double escape",
			input:    "\x1b\x1b",
			expected: []Event{Key{Code: KeyEsc}},
		},
		{
			name:     "escape before arrow",
			input:    "\x1b\x1b[A",
			expected: []Event{Key{Code: KeyEsc}, Key{Code: KeyUp}},
		},
		{
			name:     "escape restarts csi",
			input:    "\x1b[1;\x1b[B",
			expected: []Event{Key{Code: KeyDown}},
		},
		{
			name:     "osc terminated by BEL",
			input:    "\x1b]0;title\x07a",
			expected: []Event{Typed{Char: 'a'}},
		},
		{
			name:     "osc terminated by ST",
			input:    "\x1b]0;title\x1b\\a",
			expected: []Event{Typed{Char: 'a'}},
		},
		{
			name:     "dcs",
			input:    "\x1bPq#0;2;0;0;0\x1b\\b",
			expected: []Event{Typed{Char: 'b'}},
		},
		{
			name:     "unknown csi skips until escape",
			input:    "\x1b[?1;2cxyz\x1b[B",
			expected: []Event{Key{Code: KeyDown}},
		},
		{
			name:     "focus",
			input:    "\x1b[I\x1b[O",
			expected: []Event{FocusIn{}, FocusOut{}},
		},
		{
			name:     "bracketed paste",
			input:    "\x1b[200~hi\r\nthere\x1b[201~x",
			expected: []Event{Paste{Text: "hi\r\nthere"}, Typed{Char: 'x'}},
		},
		{
			name:     "paste with escape",
			input:    "\x1b[200~a\x1bb\x1b[201~",
			expected: []Event{Paste{Text: "a\x1bb"}},
		},
		{
			name:     "paste keeps escape sequences",
			input:    "\x1b[200~a\x1b[Ab\x1b[201~",
			expected: []Event{Paste{Text: "a\x1b[Ab"}},
		},
		{
			name:     "paste keeps unknown sequences",
			input:    "\x1b[200~x\x1b[?1hy\x1b[201~",
			expected: []Event{Paste{Text: "x\x1b[?1hy"}},
		},
		{
			name:     "paste with partial terminator",
			input:    "\x1b[200~\x1b[20x\x1b\x1b[201~z",
			expected: []Event{Paste{Text: "\x1b[20x\x1b"}, Typed{Char: 'z'}},
		},
		{
			name:     "stray paste end",
			input:    "\x1b[201~a",
			expected: []Event{Typed{Char: 'a'}},
		},
		{
			name:     "dcs ended by bel",
			input:    "\x1bPfoo\x07a",
			expected: []Event{Typed{Char: 'a'}},
		},
		{
			name:     "dcs ended by st",
			input:    "\x1bPfoo\x1b\\a",
			expected: []Event{Typed{Char: 'a'}},
		},
		{
			name:     "alt o",
			input:    "\x1bOx",
			expected: []Event{Key{Code: 'O', Modifiers: ModAlt}, Typed{Char: 'x'}},
		},
		{
			name:     "sgr mouse press",
			input:    "\x1b[<0;10;5M",
			expected: []Event{MousePress{Button: MouseLeftButton, X: 10, Y: 5, Col: 9, Row: 4}},
		},
		{
			name:  "sgr mouse modifiers",
			input: "\x1b[<6;1;1M",
			expected: []Event{
				MousePress{Button: MouseRightButton, Modifiers: ModShift, X: 1, Y: 1},
			},
		},
		{
			name:  "sgr mouse meta ctrl",
			input: "\x1b[<25;1;1M",
			expected: []Event{
				MousePress{Button: MouseMiddleButton, Modifiers: ModMeta | ModCtrl, X: 1, Y: 1},
			},
		},
		{
			name:  "wheel",
			input: "\x1b[<64;3;4M\x1b[<65;3;4M\x1b[<65;3;4M",
			expected: []Event{
				MouseWheel{X: 3, Y: 4, Col: 2, Row: 3, Rotation: -1},
				MouseWheel{X: 3, Y: 4, Col: 2, Row: 3, Rotation: 1},
				MouseWheel{X: 3, Y: 4, Col: 2, Row: 3, Rotation: 1},
			},
		},
		{
			name:  "move is deduplicated",
			input: "\x1b[<35;2;2M\x1b[<35;2;2M\x1b[<35;3;2M",
			expected: []Event{
				MouseMove{X: 2, Y: 2, Col: 1, Row: 1},
				MouseMove{X: 3, Y: 2, Col: 2, Row: 1},
			},
		},
		{
			name:  "drag",
			input: "\x1b[<0;1;1M\x1b[<32;2;1M\x1b[<32;2;1M\x1b[<0;3;1M\x1b[<0;3;1m",
			expected: []Event{
				MousePress{Button: MouseLeftButton, X: 1, Y: 1},
				MouseDrag{Button: MouseLeftButton, X: 2, Y: 1, Col: 1},
				MouseDrag{Button: MouseLeftButton, X: 3, Y: 1, Col: 2},
				MousePress{Button: MouseLeftButton, X: 3, Y: 1, Col: 2, IsRelease: true},
				MouseClick{Button: MouseLeftButton, X: 3, Y: 1, Col: 2, Count: 1},
			},
		},
		{
			name:  "repeated press is suppressed",
			input: "\x1b[<2;4;4M\x1b[<2;4;4M",
			expected: []Event{
				MousePress{Button: MouseRightButton, X: 4, Y: 4, Col: 3, Row: 3},
			},
		},
		{
			name:  "urxvt",
			input: "\x1b[32;5;6M\x1b[35;5;6M",
			expected: []Event{
				MousePress{Button: MouseLeftButton, X: 5, Y: 6, Col: 4, Row: 5},
				MousePress{Button: MouseLeftButton, X: 5, Y: 6, Col: 4, Row: 5, IsRelease: true},
				MouseClick{Button: MouseLeftButton, X: 5, Y: 6, Col: 4, Row: 5, Count: 1},
			},
		},
		{
			name:  "x10",
			input: "\x1b[M !!\x1b[M#!!",
			expected: []Event{
				MousePress{Button: MouseLeftButton, X: 1, Y: 1},
				MousePress{Button: MouseLeftButton, X: 1, Y: 1, IsRelease: true},
				MouseClick{Button: MouseLeftButton, X: 1, Y: 1, Count: 1},
			},
		},
		{
			name:     "truncated x10",
			input:    "\x1b[M \x1b[A",
			expected: []Event{Key{Code: KeyUp}},
		},
		{
			name:     "malformed mouse report",
			input:    "\x1b[<0;1Ma",
			expected: []Event{Typed{Char: 'a'}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, decode(test.input))
		})
		t.Run(test.name+" byte at a time", func(t *testing.T) {
			d := NewDecoder(DecoderOptions{})
			for i := 0; i < len(test.input); i += 1 {
				d.Write([]byte{test.input[i]})
			}
			assert.Equal(t, test.expected, drain(d))
		})
	}
}

func TestDecoderIdle(t *testing.T) {
	d := NewDecoder(DecoderOptions{})
	d.Write([]byte("\x1b"))
	assert.Equal(t, 0, d.Pending())
	d.Idle()
	assert.Equal(t, []Event{Key{Code: KeyEsc}}, drain(d))

	// Idle outside of an escape does nothing
	d.Idle()
	assert.Equal(t, 0, d.Pending())

	// The state machine is back in Init
	d.Write([]byte("a"))
	assert.Equal(t, []Event{Typed{Char: 'a'}}, drain(d))
}

func TestDecoderIdleAlt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Event
	}{
		{
			name:     "alt o",
			input:    "\x1bO",
			expected: []Event{Key{Code: 'O', Modifiers: ModAlt}},
		},
		{
			name:     "alt bracket",
			input:    "\x1b[",
			expected: []Event{Key{Code: '[', Modifiers: ModAlt}},
		},
		{
			name:     "after string terminator start",
			input:    "\x1b]0;x\x1b",
			expected: []Event{},
		},
		{
			name:     "inside paste",
			input:    "\x1b[200~ab\x1b",
			expected: []Event{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := NewDecoder(DecoderOptions{})
			d.Write([]byte(test.input))
			d.Idle()
			assert.Equal(t, test.expected, drain(d))
		})
	}
}

func TestDecoderRecovers(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	buf := make([]byte, 64)
	for i := 0; i < 2000; i += 1 {
		r.Read(buf)
		d := NewDecoder(DecoderOptions{})
		assert.NotPanics(t, func() {
			d.Write(buf)
		})
		drain(d)
		d.Write([]byte("\x1b[A"))
		events := drain(d)
		if assert.NotEmpty(t, events, "input % x", buf) {
			assert.Equal(t, Key{Code: KeyUp}, events[len(events)-1], "input % x", buf)
		}
	}
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestDoubleClick(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := NewDecoder(DecoderOptions{
		ClickTimeout:       400 * time.Millisecond,
		DoubleClickTimeout: 300 * time.Millisecond,
		Now:                clock.now,
	})
	press := "\x1b[<0;7;3M"
	release := "\x1b[<0;7;3m"

	click := func() {
		d.Write([]byte(press))
		clock.advance(50 * time.Millisecond)
		d.Write([]byte(release))
		clock.advance(50 * time.Millisecond)
	}
	click()
	click()
	click()

	p := MousePress{Button: MouseLeftButton, X: 7, Y: 3, Col: 6, Row: 2}
	r := MousePress{Button: MouseLeftButton, X: 7, Y: 3, Col: 6, Row: 2, IsRelease: true}
	c := func(n int) MouseClick {
		return MouseClick{Button: MouseLeftButton, X: 7, Y: 3, Col: 6, Row: 2, Count: n}
	}
	assert.Equal(t, []Event{p, r, c(1), p, r, c(2), p, r, c(1)}, drain(d))
}

func TestClickTimeouts(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := NewDecoder(DecoderOptions{Now: clock.now})

	// Held too long to be a click
	d.Write([]byte("\x1b[<0;1;1M"))
	clock.advance(DefaultClickTimeout + time.Millisecond)
	d.Write([]byte("\x1b[<0;1;1m"))
	for _, ev := range drain(d) {
		assert.IsType(t, MousePress{}, ev)
	}

	// Two clicks too far apart
	d.Write([]byte("\x1b[<0;1;1M\x1b[<0;1;1m"))
	clock.advance(DefaultDoubleClickTimeout + time.Millisecond)
	d.Write([]byte("\x1b[<0;1;1M\x1b[<0;1;1m"))
	counts := []int{}
	for _, ev := range drain(d) {
		if c, ok := ev.(MouseClick); ok {
			counts = append(counts, c.Count)
		}
	}
	assert.Equal(t, []int{1, 1}, counts)

	// Clicks of different buttons don't combine
	clock.advance(time.Second)
	d.Write([]byte("\x1b[<0;1;1M\x1b[<0;1;1m\x1b[<2;1;1M\x1b[<2;1;1m"))
	counts = counts[:0]
	for _, ev := range drain(d) {
		if c, ok := ev.(MouseClick); ok {
			counts = append(counts, c.Count)
		}
	}
	assert.Equal(t, []int{1, 1}, counts)
}
