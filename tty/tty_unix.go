//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package tty

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"git.sr.ht/~tuikit/tuikit/log"
)

// unixTty is a terminal device on a unix system
type unixTty struct {
	f     *os.File
	fd    int
	owned bool
	state *term.State

	resized   atomic.Bool
	sigwinch  chan os.Signal
	done      chan struct{}
	closeOnce sync.Once
}

// Open opens the controlling terminal of the process
func Open() (Tty, error) {
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("tty: couldn't open /dev/tty: %w", err)
	}
	t, err := newUnixTty(f, true)
	if err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

// FromFile uses f as the terminal. Closing the Tty does not close f
func FromFile(f *os.File) (Tty, error) {
	return newUnixTty(f, false)
}

func newUnixTty(f *os.File, owned bool) (*unixTty, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	t := &unixTty{
		f:        f,
		fd:       fd,
		owned:    owned,
		sigwinch: make(chan os.Signal, 1),
		done:     make(chan struct{}),
	}
	signal.Notify(t.sigwinch, syscall.SIGWINCH)
	go t.watchResize()
	return t, nil
}

// watchResize turns SIGWINCH into the resized flag. The event loop polls the
// flag once per iteration
func (t *unixTty) watchResize() {
	for {
		select {
		case <-t.done:
			return
		case <-t.sigwinch:
			t.resized.Store(true)
		}
	}
}

func (t *unixTty) Resized() bool {
	return t.resized.Swap(false)
}

func (t *unixTty) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

func (t *unixTty) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	fds := []unix.PollFd{
		{Fd: int32(t.fd), Events: unix.POLLIN},
	}
	n, err := unix.Poll(fds, ms)
	switch {
	case err == unix.EINTR:
		// Interrupted by a signal, most likely SIGWINCH
		return 0, nil
	case err != nil:
		return 0, err
	case n == 0:
		return 0, nil
	}
	n, err = unix.Read(t.fd, p)
	switch {
	case err == unix.EINTR, err == unix.EAGAIN:
		return 0, nil
	case err != nil:
		return 0, err
	}
	return n, nil
}

func (t *unixTty) MakeRaw() error {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("tty: couldn't enter raw mode: %w", err)
	}
	t.state = state
	return nil
}

func (t *unixTty) Restore() error {
	if t.state == nil {
		return nil
	}
	err := term.Restore(t.fd, t.state)
	if err != nil {
		return fmt.Errorf("tty: couldn't restore terminal mode: %w", err)
	}
	t.state = nil
	return nil
}

func (t *unixTty) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("tty: couldn't get window size: %w", err)
	}
	return int(ws.Row), int(ws.Col), nil
}

func (t *unixTty) Close() error {
	var err error
	t.closeOnce.Do(func() {
		signal.Stop(t.sigwinch)
		close(t.done)
		if t.owned {
			err = t.f.Close()
		}
		log.Debug("[tty] closed")
	})
	return err
}
