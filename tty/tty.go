// Package tty acquires the controlling terminal. It switches the terminal in
// and out of raw mode, reads input with a bounded wait, reports the window
// size and notices size changes.
package tty

import (
	"errors"
	"io"
	"time"
)

// ErrNotTerminal is returned when a file is not a terminal
var ErrNotTerminal = errors.New("tty: not a terminal")

// Tty is a handle to a terminal device
type Tty interface {
	io.Writer
	TimeoutReader

	// MakeRaw disables line buffering, echo and signal generation. The
	// previous mode is saved for Restore
	MakeRaw() error
	// Restore returns the terminal to the mode saved by MakeRaw. It is a
	// no-op if MakeRaw was never called
	Restore() error
	// Size reports the current size of the terminal in cells
	Size() (rows int, cols int, err error)
	// Resized reports whether the terminal changed size since the last
	// call
	Resized() bool
	// Close stops resize notification and releases the device
	Close() error
}

// TimeoutReader reads with a bounded wait
type TimeoutReader interface {
	// ReadTimeout waits up to timeout for input and reads what is
	// available into p. It returns 0 and no error when the wait expires. A
	// negative timeout waits indefinitely
	ReadTimeout(p []byte, timeout time.Duration) (int, error)
}
