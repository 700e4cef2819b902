package tty

import "errors"

// ErrFull is returned by Ring.Write when not every byte fit
var ErrFull = errors.New("tty: ring buffer full")

// DefaultRingSize is the capacity used when NewRing is given a non-positive
// size
const DefaultRingSize = 4096

// Ring is a fixed capacity FIFO of bytes. Unread bytes are never
// overwritten: a write into a full ring stores only what fits.
type Ring struct {
	buf  []byte
	head int
	n    int
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{buf: make([]byte, size)}
}

// Cap returns the capacity of the ring
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Len returns the number of unread bytes
func (r *Ring) Len() int {
	return r.n
}

// Free returns the number of bytes which can be written without loss
func (r *Ring) Free() int {
	return len(r.buf) - r.n
}

// Push appends b. It reports false when the ring is full
func (r *Ring) Push(b byte) bool {
	if r.n == len(r.buf) {
		return false
	}
	r.buf[(r.head+r.n)%len(r.buf)] = b
	r.n += 1
	return true
}

// Pop removes and returns the oldest byte
func (r *Ring) Pop() (byte, bool) {
	if r.n == 0 {
		return 0, false
	}
	b := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.n -= 1
	if r.n == 0 {
		r.head = 0
	}
	return b, true
}

// Peek returns the oldest byte without removing it
func (r *Ring) Peek() (byte, bool) {
	if r.n == 0 {
		return 0, false
	}
	return r.buf[r.head], true
}

// Write appends as much of p as fits. ErrFull is returned when p was cut
// short
func (r *Ring) Write(p []byte) (int, error) {
	n := len(p)
	if free := r.Free(); n > free {
		n = free
	}
	for i := 0; i < n; {
		tail := (r.head + r.n) % len(r.buf)
		end := len(r.buf)
		if tail < r.head {
			end = r.head
		}
		c := copy(r.buf[tail:end], p[i:n])
		r.n += c
		i += c
	}
	if n < len(p) {
		return n, ErrFull
	}
	return n, nil
}

// Reset discards all unread bytes
func (r *Ring) Reset() {
	r.head = 0
	r.n = 0
}
