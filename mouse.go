package tuikit

import "time"

// MouseButton represents a mouse button
type MouseButton int

const (
	MouseLeftButton MouseButton = iota
	MouseMiddleButton
	MouseRightButton
	MouseNoButton
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeftButton:
		return "left"
	case MouseMiddleButton:
		return "middle"
	case MouseRightButton:
		return "right"
	}
	return "none"
}

// X and Y of mouse events are the 1-based column and row reported by the
// terminal. Col and Row are the zero-based grid cell.

// MousePress is delivered when a button is pressed or, with IsRelease set,
// released
type MousePress struct {
	Button    MouseButton
	Modifiers ModifierMask
	X         int
	Y         int
	Col       int
	Row       int
	IsRelease bool
}

// MouseMove is delivered when the pointer moves with no button held
type MouseMove struct {
	Modifiers ModifierMask
	X         int
	Y         int
	Col       int
	Row       int
}

// MouseDrag is delivered when the pointer moves with a button held
type MouseDrag struct {
	Button    MouseButton
	Modifiers ModifierMask
	X         int
	Y         int
	Col       int
	Row       int
}

// MouseWheel is delivered for each wheel step. Rotation is negative when
// scrolling up and positive when scrolling down
type MouseWheel struct {
	Modifiers ModifierMask
	X         int
	Y         int
	Col       int
	Row       int
	Rotation  int
}

// MouseClick is delivered after a release which completes a click. Count is
// 2 for a double click
type MouseClick struct {
	Button    MouseButton
	Modifiers ModifierMask
	X         int
	Y         int
	Col       int
	Row       int
	Count     int
}

const (
	DefaultClickTimeout       = 400 * time.Millisecond
	DefaultDoubleClickTimeout = 500 * time.Millisecond
)

const (
	mouseButtonBits = 0b00000011
	mouseModShift   = 0b00000100
	mouseModMeta    = 0b00001000
	mouseModCtrl    = 0b00010000
	mouseMotion     = 0b00100000
	mouseWheel      = 0b01000000
)

// rawMouse is a decoded mouse report before click detection
type rawMouse struct {
	button    MouseButton
	modifiers ModifierMask
	x         int
	y         int
	motion    bool
	wheel     bool
	release   bool
}

func parseMouseReport(cb int, x int, y int, release bool) rawMouse {
	m := rawMouse{
		button:  MouseButton(cb & mouseButtonBits),
		x:       x,
		y:       y,
		motion:  cb&mouseMotion != 0,
		wheel:   cb&mouseWheel != 0,
		release: release,
	}
	if cb&mouseModShift != 0 {
		m.modifiers |= ModShift
	}
	if cb&mouseModMeta != 0 {
		m.modifiers |= ModMeta
	}
	if cb&mouseModCtrl != 0 {
		m.modifiers |= ModCtrl
	}
	return m
}

type mouseKind uint8

const (
	kindPress mouseKind = iota + 1
	kindRelease
	kindMove
	kindDrag
)

// clickDetector turns raw mouse reports into mouse events. It suppresses
// repeated reports, distinguishes moves from drags and synthesizes clicks and
// double clicks.
type clickDetector struct {
	clickTimeout       time.Duration
	doubleClickTimeout time.Duration

	lastKind   mouseKind
	lastButton MouseButton
	lastX      int
	lastY      int

	holding     bool
	held        MouseButton
	pressedAt   time.Time
	clicked     bool
	clickButton MouseButton
	clickedAt   time.Time
}

func newClickDetector(click time.Duration, double time.Duration) clickDetector {
	if click <= 0 {
		click = DefaultClickTimeout
	}
	if double <= 0 {
		double = DefaultDoubleClickTimeout
	}
	return clickDetector{
		clickTimeout:       click,
		doubleClickTimeout: double,
	}
}

// duplicate reports whether the event repeats the last one, and records it
// otherwise
func (c *clickDetector) duplicate(kind mouseKind, button MouseButton, x int, y int) bool {
	if c.lastKind == kind && c.lastButton == button && c.lastX == x && c.lastY == y {
		return true
	}
	c.lastKind, c.lastButton, c.lastX, c.lastY = kind, button, x, y
	return false
}

func (c *clickDetector) process(m rawMouse, now time.Time, emit func(Event)) {
	col, row := m.x-1, m.y-1
	switch {
	case m.wheel:
		if m.release {
			return
		}
		rotation := -1
		if m.button&1 != 0 {
			rotation = 1
		}
		emit(MouseWheel{Modifiers: m.modifiers, X: m.x, Y: m.y, Col: col, Row: row, Rotation: rotation})

	case m.release:
		button := m.button
		if button == MouseNoButton && c.holding {
			// Legacy encodings don't say which button was released
			button = c.held
		}
		wasHeld := c.holding && c.held == button
		c.holding = false
		if c.duplicate(kindRelease, button, m.x, m.y) {
			return
		}
		emit(MousePress{Button: button, Modifiers: m.modifiers, X: m.x, Y: m.y, Col: col, Row: row, IsRelease: true})
		if !wasHeld || now.Sub(c.pressedAt) > c.clickTimeout {
			return
		}
		count := 1
		if c.clicked && c.clickButton == button && now.Sub(c.clickedAt) <= c.doubleClickTimeout {
			count = 2
			c.clicked = false
		} else {
			c.clicked = true
			c.clickButton = button
			c.clickedAt = now
		}
		emit(MouseClick{Button: button, Modifiers: m.modifiers, X: m.x, Y: m.y, Col: col, Row: row, Count: count})

	case m.motion && m.button == MouseNoButton && !c.holding:
		if c.duplicate(kindMove, MouseNoButton, m.x, m.y) {
			return
		}
		emit(MouseMove{Modifiers: m.modifiers, X: m.x, Y: m.y, Col: col, Row: row})

	case m.motion || (c.holding && c.held == m.button):
		button := m.button
		if button == MouseNoButton {
			button = c.held
		}
		if c.holding && c.held == button && c.lastKind == kindPress && c.lastX == m.x && c.lastY == m.y {
			// A repeated press report of the held button
			return
		}
		if c.duplicate(kindDrag, button, m.x, m.y) {
			return
		}
		emit(MouseDrag{Button: button, Modifiers: m.modifiers, X: m.x, Y: m.y, Col: col, Row: row})

	default:
		c.holding = true
		c.held = m.button
		c.pressedAt = now
		c.lastKind, c.lastButton, c.lastX, c.lastY = kindPress, m.button, m.x, m.y
		emit(MousePress{Button: m.button, Modifiers: m.modifiers, X: m.x, Y: m.y, Col: col, Row: row})
	}
}
