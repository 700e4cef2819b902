package tuikit

// Event is an input or lifecycle event delivered by the event loop. The set
// of events is closed: Key, Typed, MousePress, MouseMove, MouseDrag,
// MouseWheel, MouseClick, Resize, Paste, FocusIn, FocusOut and Invocation.
type Event interface {
	isEvent()
}

// Typed is delivered when a printable character was entered
type Typed struct {
	Char      rune
	Modifiers ModifierMask
}

// Resize is delivered whenever a window size change is detected (likely via
// SIGWINCH). The grid has already been resized when it is delivered
type Resize struct {
	Cols int
	Rows int
}

// Paste is delivered when a bracketed paste was detected. Text is the pasted
// content
type Paste struct {
	Text string
}

// FocusIn is sent when the terminal has gained focus
type FocusIn struct{}

// FocusOut is sent when the terminal has lost focus
type FocusOut struct{}

// Invocation carries a function to run on the event loop goroutine. Posting
// an Invocation is the only way another goroutine may touch the grid. The
// event loop runs Func itself; applications never receive it.
type Invocation struct {
	Func func()
}

func (Key) isEvent()        {}
func (Typed) isEvent()      {}
func (MousePress) isEvent() {}
func (MouseMove) isEvent()  {}
func (MouseDrag) isEvent()  {}
func (MouseWheel) isEvent() {}
func (MouseClick) isEvent() {}
func (Resize) isEvent()     {}
func (Paste) isEvent()      {}
func (FocusIn) isEvent()    {}
func (FocusOut) isEvent()   {}
func (Invocation) isEvent() {}
