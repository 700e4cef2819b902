package tty

import "time"

// Reader buffers terminal input in a Ring. The event loop fills it with a
// bounded wait and then drains it a byte at a time into the decoder.
type Reader struct {
	src     TimeoutReader
	ring    *Ring
	scratch []byte
}

// NewReader returns a Reader over src with a ring of the given size
func NewReader(src TimeoutReader, size int) *Reader {
	ring := NewRing(size)
	return &Reader{
		src:     src,
		ring:    ring,
		scratch: make([]byte, ring.Cap()),
	}
}

// Fill waits up to timeout for input and stores what arrives. It never reads
// more than the ring has room for, so no input is dropped. It returns the
// number of bytes stored.
func (r *Reader) Fill(timeout time.Duration) (int, error) {
	free := r.ring.Free()
	if free == 0 {
		return 0, nil
	}
	n, err := r.src.ReadTimeout(r.scratch[:free], timeout)
	if n > 0 {
		r.ring.Write(r.scratch[:n])
	}
	return n, err
}

// Next returns the next buffered byte
func (r *Reader) Next() (byte, bool) {
	return r.ring.Pop()
}

// Buffered returns the number of bytes waiting to be consumed
func (r *Reader) Buffered() int {
	return r.ring.Len()
}
