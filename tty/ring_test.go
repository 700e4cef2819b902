package tty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing(t *testing.T) {
	r := NewRing(4)
	assert.Equal(t, 4, r.Cap())
	_, ok := r.Pop()
	assert.False(t, ok)

	for i := 0; i < 4; i += 1 {
		assert.True(t, r.Push(byte('a'+i)))
	}
	assert.False(t, r.Push('x'))
	assert.Equal(t, 0, r.Free())

	b, ok := r.Peek()
	assert.True(t, ok)
	assert.Equal(t, byte('a'), b)

	b, _ = r.Pop()
	assert.Equal(t, byte('a'), b)
	b, _ = r.Pop()
	assert.Equal(t, byte('b'), b)

	// Wraps around the end of the buffer and never overwrites c and d
	n, err := r.Write([]byte("xyz"))
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 2, n)

	got := []byte{}
	for {
		b, ok := r.Pop()
		if !ok {
			break
		}
		got = append(got, b)
	}
	assert.Equal(t, "cdxy", string(got))
	assert.Equal(t, 0, r.Len())
}

func TestRingDefaultSize(t *testing.T) {
	assert.Equal(t, DefaultRingSize, NewRing(0).Cap())
}

func TestRingReset(t *testing.T) {
	r := NewRing(3)
	r.Write([]byte("abc"))
	r.Reset()
	assert.Equal(t, 0, r.Len())
	n, err := r.Write([]byte("de"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	b, _ := r.Pop()
	assert.Equal(t, byte('d'), b)
}

type chunkReader struct {
	chunks [][]byte
	waits  []time.Duration
}

func (c *chunkReader) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	c.waits = append(c.waits, timeout)
	if len(c.chunks) == 0 {
		return 0, nil
	}
	n := copy(p, c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	if len(c.chunks[0]) == 0 {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func TestReader(t *testing.T) {
	src := &chunkReader{
		chunks: [][]byte{[]byte("\x1b[A"), []byte("hello")},
	}
	r := NewReader(src, 4)

	n, err := r.Fill(25 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Only one byte of room left
	n, err = r.Fill(25 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 4, r.Buffered())

	// A full ring doesn't read
	n, err = r.Fill(25 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, src.waits, 2)

	got := []byte{}
	for {
		b, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, b)
	}
	assert.Equal(t, "\x1b[Ah", string(got))

	r.Fill(0)
	r.Fill(0)
	assert.Equal(t, 4, r.Buffered())
	assert.Equal(t, time.Duration(0), src.waits[len(src.waits)-1])
}
