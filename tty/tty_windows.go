//go:build windows

package tty

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/windows"

	"git.sr.ht/~tuikit/tuikit/log"
)

// resizePoll is how often the console size is checked. Windows has no
// SIGWINCH
const resizePoll = 100 * time.Millisecond

type consoleTty struct {
	in      windows.Handle
	out     windows.Handle
	inMode  uint32
	outMode uint32
	raw     bool

	resized   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// Open opens the console of the process
func Open() (Tty, error) {
	in, err := windows.Open("CONIN$", windows.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("tty: couldn't open CONIN$: %w", err)
	}
	out, err := windows.Open("CONOUT$", windows.O_RDWR, 0)
	if err != nil {
		windows.Close(in)
		return nil, fmt.Errorf("tty: couldn't open CONOUT$: %w", err)
	}
	var mode uint32
	if err := windows.GetConsoleMode(in, &mode); err != nil {
		windows.Close(in)
		windows.Close(out)
		return nil, ErrNotTerminal
	}
	t := &consoleTty{
		in:   in,
		out:  out,
		done: make(chan struct{}),
	}
	go t.watchResize()
	return t, nil
}

func (t *consoleTty) watchResize() {
	ticker := time.NewTicker(resizePoll)
	defer ticker.Stop()
	rows, cols, _ := t.Size()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			r, c, err := t.Size()
			if err != nil {
				log.Error("[tty] couldn't poll console size: %v", err)
				return
			}
			if r != rows || c != cols {
				rows, cols = r, c
				t.resized.Store(true)
			}
		}
	}
}

func (t *consoleTty) Resized() bool {
	return t.resized.Swap(false)
}

func (t *consoleTty) Write(p []byte) (int, error) {
	var n uint32
	err := windows.WriteFile(t.out, p, &n, nil)
	return int(n), err
}

func (t *consoleTty) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		wait := uint32(windows.INFINITE)
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			wait = uint32(remaining / time.Millisecond)
		}
		ev, err := windows.WaitForSingleObject(t.in, wait)
		if err != nil {
			return 0, err
		}
		if ev == uint32(windows.WAIT_TIMEOUT) {
			return 0, nil
		}
		ready, err := t.discardNonCharacterInput()
		if err != nil {
			return 0, err
		}
		if ready {
			break
		}
		if timeout >= 0 && !time.Now().Before(deadline) {
			return 0, nil
		}
	}
	var n uint32
	if err := windows.ReadFile(t.in, p, &n, nil); err != nil {
		return 0, err
	}
	return int(n), nil
}

// discardNonCharacterInput removes the queued input records which ReadFile
// would skip over, such as key releases and focus events. It reports
// whether a record producing a character is at the head of the queue, in
// which case ReadFile won't block.
func (t *consoleTty) discardNonCharacterInput() (bool, error) {
	var records [16]inputRecord
	n, err := peekConsoleInput(t.in, records[:])
	if err != nil {
		return false, err
	}
	skip := uint32(0)
	for skip < n {
		if records[skip].isCharacter() {
			break
		}
		skip += 1
	}
	if skip > 0 {
		if _, err := readConsoleInput(t.in, records[:skip]); err != nil {
			return false, err
		}
	}
	return skip < n, nil
}

func (t *consoleTty) MakeRaw() error {
	if err := windows.GetConsoleMode(t.in, &t.inMode); err != nil {
		return fmt.Errorf("tty: couldn't get input mode: %w", err)
	}
	if err := windows.GetConsoleMode(t.out, &t.outMode); err != nil {
		return fmt.Errorf("tty: couldn't get output mode: %w", err)
	}
	in := t.inMode
	in &^= windows.ENABLE_ECHO_INPUT |
		windows.ENABLE_LINE_INPUT |
		windows.ENABLE_PROCESSED_INPUT |
		windows.ENABLE_MOUSE_INPUT |
		windows.ENABLE_WINDOW_INPUT |
		windows.ENABLE_QUICK_EDIT_MODE
	in |= windows.ENABLE_VIRTUAL_TERMINAL_INPUT | windows.ENABLE_EXTENDED_FLAGS
	if err := windows.SetConsoleMode(t.in, in); err != nil {
		return fmt.Errorf("tty: couldn't set input mode: %w", err)
	}
	out := t.outMode | windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING | windows.DISABLE_NEWLINE_AUTO_RETURN
	if err := windows.SetConsoleMode(t.out, out); err != nil {
		windows.SetConsoleMode(t.in, t.inMode)
		return fmt.Errorf("tty: couldn't set output mode: %w", err)
	}
	t.raw = true
	return nil
}

func (t *consoleTty) Restore() error {
	if !t.raw {
		return nil
	}
	t.raw = false
	if err := windows.SetConsoleMode(t.in, t.inMode); err != nil {
		return fmt.Errorf("tty: couldn't restore input mode: %w", err)
	}
	if err := windows.SetConsoleMode(t.out, t.outMode); err != nil {
		return fmt.Errorf("tty: couldn't restore output mode: %w", err)
	}
	return nil
}

func (t *consoleTty) Size() (int, int, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.out, &info); err != nil {
		return 0, 0, fmt.Errorf("tty: couldn't get console size: %w", err)
	}
	rows := int(info.Window.Bottom-info.Window.Top) + 1
	cols := int(info.Window.Right-info.Window.Left) + 1
	return rows, cols, nil
}

func (t *consoleTty) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		windows.Close(t.in)
		windows.Close(t.out)
	})
	return nil
}
