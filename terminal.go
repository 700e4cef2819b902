// Package tuikit is the terminal protocol and rendering core of a terminal
// user interface toolkit. It decodes terminal input into events, keeps a
// double buffered grid of cells and writes the minimal escape sequences
// needed to bring the terminal up to date.
package tuikit

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"git.sr.ht/~tuikit/tuikit/ansi"
	"git.sr.ht/~tuikit/tuikit/log"
	"git.sr.ht/~tuikit/tuikit/tty"
)

type cursorState struct {
	col     int
	row     int
	visible bool
}

// Terminal is a handle to a terminal in raw mode. It owns the grid, the
// decoder and the event queue. Apart from PostEvent, Invoke and Quit, its
// methods must be called from the goroutine running the event loop.
type Terminal struct {
	tty     tty.Tty
	ownsTty bool
	reader  *tty.Reader
	decoder *Decoder
	queue   *EventQueue
	grid    *Grid
	encoder *Encoder
	w       *writer
	opts    Options

	mouse      MouseMode
	nextCursor cursorState
	lastCursor cursorState

	quit      atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New acquires the terminal: it enters raw mode and the alternate screen,
// hides the cursor, disables line wrapping and enables mouse, bracketed
// paste and focus reporting. If any step fails, the steps already taken are
// undone and the error is returned.
func New(opts Options) (*Terminal, error) {
	if opts.Logger != nil {
		log.SetLogger(opts.Logger)
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	applyQuirks(&opts, os.Getenv)
	log.Debug("[terminal] color mode %s, mouse %s", opts.ColorMode, opts.MouseMode)

	t := &Terminal{
		tty:  opts.Tty,
		opts: opts,
		decoder: NewDecoder(DecoderOptions{
			ClickTimeout:       opts.ClickTimeout,
			DoubleClickTimeout: opts.DoubleClickTimeout,
		}),
		queue:   NewEventQueue(),
		encoder: NewEncoder(opts.ColorMode),
	}
	if t.tty == nil {
		tt, err := tty.Open()
		if err != nil {
			return nil, fmt.Errorf("tuikit: %w", err)
		}
		t.tty = tt
		t.ownsTty = true
	}
	t.reader = tty.NewReader(t.tty, tty.DefaultRingSize)
	t.w = newWriter(t.tty, opts.SynchronizedUpdate)

	if err := t.tty.MakeRaw(); err != nil {
		t.release()
		return nil, fmt.Errorf("tuikit: couldn't acquire terminal: %w", err)
	}
	rows, cols, err := t.tty.Size()
	if err != nil {
		t.tty.Restore()
		t.release()
		return nil, fmt.Errorf("tuikit: %w", err)
	}
	t.grid = NewGrid(rows, cols)

	if _, err := t.tty.Write([]byte(t.setupSequence())); err != nil {
		t.tty.Write([]byte(t.teardownSequence()))
		t.tty.Restore()
		t.release()
		return nil, fmt.Errorf("tuikit: couldn't initialize terminal: %w", err)
	}
	t.mouse = opts.MouseMode
	return t, nil
}

func (t *Terminal) release() {
	if t.ownsTty {
		t.tty.Close()
	}
}

func (t *Terminal) setupSequence() string {
	b := strings.Builder{}
	if !t.opts.DisableAltScreen {
		b.WriteString(ansi.DECSET(ansi.AltScreen))
	}
	b.WriteString(ansi.DECRST(ansi.CursorVisibility))
	b.WriteString(ansi.DECRST(ansi.AutoWrap))
	b.WriteString(ansi.SGRReset)
	b.WriteString(ansi.ClearScreen)
	b.WriteString(mouseSequence(MouseOff, t.opts.MouseMode))
	b.WriteString(ansi.DECSET(ansi.BracketedPaste))
	b.WriteString(ansi.DECSET(ansi.FocusEvents))
	return b.String()
}

func (t *Terminal) teardownSequence() string {
	b := strings.Builder{}
	b.WriteString(mouseSequence(t.mouse, MouseOff))
	b.WriteString(ansi.DECRST(ansi.FocusEvents))
	b.WriteString(ansi.DECRST(ansi.BracketedPaste))
	b.WriteString(ansi.SGRReset)
	b.WriteString(ansi.DECSET(ansi.AutoWrap))
	b.WriteString(ansi.DECSET(ansi.CursorVisibility))
	if !t.opts.DisableAltScreen {
		b.WriteString(ansi.DECRST(ansi.AltScreen))
	}
	return b.String()
}

// mouseSequence switches mouse reporting from one mode to another
func mouseSequence(from MouseMode, to MouseMode) string {
	if from == to {
		return ""
	}
	b := strings.Builder{}
	switch from {
	case MouseClicks:
		b.WriteString(ansi.DECRST(ansi.MouseNormal))
	case MouseDrags:
		b.WriteString(ansi.DECRST(ansi.MouseButtonEvent))
	case MouseMotion:
		b.WriteString(ansi.DECRST(ansi.MouseAnyEvent))
	}
	switch to {
	case MouseOff:
		b.WriteString(ansi.DECRST(ansi.MouseSGR))
		b.WriteString(ansi.DECRST(ansi.MouseURXVT))
		return b.String()
	case MouseClicks:
		b.WriteString(ansi.DECSET(ansi.MouseNormal))
	case MouseDrags:
		b.WriteString(ansi.DECSET(ansi.MouseButtonEvent))
	case MouseMotion:
		b.WriteString(ansi.DECSET(ansi.MouseAnyEvent))
	}
	if from == MouseOff {
		b.WriteString(ansi.DECSET(ansi.MouseSGR))
		b.WriteString(ansi.DECSET(ansi.MouseURXVT))
	}
	return b.String()
}

// Close restores the terminal to the state it was in before New. It is safe
// to call more than once; only the first call has an effect
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.quit.Store(true)
		var errs []error
		if _, err := t.tty.Write([]byte(t.teardownSequence())); err != nil {
			errs = append(errs, err)
		}
		if err := t.tty.Restore(); err != nil {
			errs = append(errs, err)
		}
		t.queue.Close()
		if t.ownsTty {
			if err := t.tty.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		t.closeErr = errors.Join(errs...)
		log.Info("[terminal] closed")
	})
	return t.closeErr
}

// Size returns the size of the terminal in cells as of the last Resize
func (t *Terminal) Size() (rows int, cols int) {
	return t.grid.Size()
}

// Grid returns the grid drawn to the terminal by Flush
func (t *Terminal) Grid() *Grid {
	return t.grid
}

// Graphics returns a Graphics covering the whole terminal
func (t *Terminal) Graphics() *Graphics {
	return NewGraphics(t.grid)
}

// ColorMode returns the color capability colors are reduced to
func (t *Terminal) ColorMode() ColorMode {
	return t.encoder.ColorMode()
}

// Refresh forces the next Flush to redraw every cell
func (t *Terminal) Refresh() {
	t.grid.Invalidate()
}

// Flush writes the changes made to the grid since the last Flush. Nothing
// is written when nothing changed
func (t *Terminal) Flush() error {
	frame := t.encoder.Encode(t.grid)
	hidden := !t.lastCursor.visible
	if len(frame) > 0 {
		// The cursor is hidden while cells are redrawn
		if !hidden {
			t.w.WriteString(ansi.DECRST(ansi.CursorVisibility))
			hidden = true
		}
		t.w.Write(frame)
	}

	next := t.nextCursor
	switch {
	case next.visible && (next != t.lastCursor || len(frame) > 0):
		t.w.Write(ansi.AppendCursorPosition(nil, next.row, next.col))
		if hidden {
			t.w.WriteString(ansi.DECSET(ansi.CursorVisibility))
		}
	case !next.visible && !hidden:
		t.w.WriteString(ansi.DECRST(ansi.CursorVisibility))
	}
	t.lastCursor = next

	n, err := t.w.Flush()
	if err != nil {
		log.Error("[terminal] flush failed: %v", err)
		return fmt.Errorf("tuikit: flush: %w", err)
	}
	if n > 0 {
		log.Trace("[terminal] flushed %d bytes", n)
	}
	return nil
}

// ShowCursor shows the cursor at the zero-based col and row on the next
// Flush
func (t *Terminal) ShowCursor(col int, row int) {
	t.nextCursor = cursorState{col: col, row: row, visible: true}
}

// HideCursor hides the cursor on the next Flush
func (t *Terminal) HideCursor() {
	t.nextCursor.visible = false
}

// SetTitle sets the window title
func (t *Terminal) SetTitle(title string) error {
	_, err := t.tty.Write([]byte(ansi.SetTitle(title)))
	return err
}

// SetMouseMode changes which mouse events are reported
func (t *Terminal) SetMouseMode(m MouseMode) error {
	seq := mouseSequence(t.mouse, m)
	if seq == "" {
		return nil
	}
	if _, err := t.tty.Write([]byte(seq)); err != nil {
		return err
	}
	t.mouse = m
	return nil
}

// PostEvent queues ev for the event loop. It is safe to call from any
// goroutine. It reports false once the terminal is closed
func (t *Terminal) PostEvent(ev Event) bool {
	return t.queue.Push(ev)
}

// Invoke runs f on the event loop goroutine. It is safe to call from any
// goroutine
func (t *Terminal) Invoke(f func()) bool {
	return t.queue.Push(Invocation{Func: f})
}

// Quit stops Run after the current iteration. It is safe to call from any
// goroutine
func (t *Terminal) Quit() {
	t.quit.Store(true)
}

// PollEvent runs one iteration of the event loop. It checks for a size
// change, then returns a queued event, or else waits up to the read timeout
// for input and returns the first event decoded from it. Invocations are
// run, not returned. ok is false when no event arrived.
func (t *Terminal) PollEvent() (Event, bool) {
	t.checkResize()
	if ev, ok := t.nextQueued(); ok {
		return ev, true
	}
	if ev, ok := t.decoder.Next(); ok {
		return ev, true
	}

	n, err := t.reader.Fill(t.opts.ReadTimeout)
	if err != nil {
		log.Error("[terminal] read failed: %v", err)
	}
	for {
		b, ok := t.reader.Next()
		if !ok {
			break
		}
		t.decoder.Feed(b)
	}
	if n == 0 && err == nil {
		t.decoder.Idle()
	}

	if ev, ok := t.decoder.Next(); ok {
		return ev, true
	}
	return t.nextQueued()
}

// nextQueued pops queued events, running invocations, until an event for
// the application is found
func (t *Terminal) nextQueued() (Event, bool) {
	for {
		ev, ok := t.queue.Pop(0)
		if !ok {
			return nil, false
		}
		inv, isInv := ev.(Invocation)
		if !isInv {
			return ev, true
		}
		if inv.Func != nil {
			inv.Func()
		}
	}
}

func (t *Terminal) checkResize() {
	if !t.tty.Resized() {
		return
	}
	rows, cols, err := t.tty.Size()
	if err != nil {
		log.Error("[terminal] couldn't get size: %v", err)
		return
	}
	log.Debug("[terminal] resized to %dx%d", cols, rows)
	t.grid.Resize(rows, cols)
	t.queue.Push(Resize{Cols: cols, Rows: rows})
}

// Run calls handler with every event until Quit or Close is called. If handler
// panics the terminal is restored before the panic continues
func (t *Terminal) Run(handler func(Event)) {
	defer func() {
		if r := recover(); r != nil {
			t.Close()
			panic(r)
		}
	}()
	for !t.quit.Load() {
		ev, ok := t.PollEvent()
		if !ok {
			continue
		}
		handler(ev)
	}
}
