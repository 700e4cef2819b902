package tuikit

import (
	"bytes"
	"io"

	"git.sr.ht/~tuikit/tuikit/ansi"
)

// writer is a buffered writer for a terminal. If synchronized output is
// enabled, every non-empty flush is wrapped with synchronized mode
// set/reset. The internal buffer is reset upon flushing
type writer struct {
	buf  *bytes.Buffer
	out  io.Writer
	sync bool
}

func newWriter(out io.Writer, sync bool) *writer {
	return &writer{
		buf:  bytes.NewBuffer(make([]byte, 0, 8192)),
		out:  out,
		sync: sync,
	}
}

func (w *writer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.begin()
	return w.buf.Write(p)
}

func (w *writer) WriteString(s string) (n int, err error) {
	if s == "" {
		return 0, nil
	}
	w.begin()
	return w.buf.WriteString(s)
}

func (w *writer) begin() {
	if w.buf.Len() == 0 && w.sync {
		w.buf.WriteString(ansi.DECSET(ansi.SynchronizedUpdate))
	}
}

func (w *writer) Len() int {
	return w.buf.Len()
}

// Flush writes the buffered frame to the terminal. An empty frame writes
// nothing
func (w *writer) Flush() (n int, err error) {
	if w.buf.Len() == 0 {
		return 0, nil
	}
	defer w.buf.Reset()
	if w.sync {
		w.buf.WriteString(ansi.DECRST(ansi.SynchronizedUpdate))
	}
	return w.out.Write(w.buf.Bytes())
}
