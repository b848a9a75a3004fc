package source

import (
	"io"

	"github.com/wippyai/graphwire/errors"
)

// Buffer is a bounded stream over a caller-supplied byte slice. Writes append
// after the valid data and reads consume from the front.
//
// EOF is sticky: it is set by any read that returns fewer bytes than asked
// for and cleared only by a read that is fully satisfied.
type Buffer struct {
	buf   []byte
	valid int
	off   int
	eof   bool
}

// NewBuffer creates a Buffer over buf whose first valid bytes are already
// readable.
func NewBuffer(buf []byte, valid int) *Buffer {
	return &Buffer{buf: buf, valid: min(max(valid, 0), len(buf))}
}

// Write appends p. It fails without writing anything when p does not fit.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > len(b.buf)-b.valid {
		return 0, errors.New(errors.PhaseSource, errors.KindLimit).
			Detail("buffer full: %d bytes free, %d requested", len(b.buf)-b.valid, len(p)).
			Build()
	}
	copy(b.buf[b.valid:], p)
	b.valid += len(p)
	return len(p), nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	n := copy(p, b.buf[b.off:b.valid])
	b.off += n
	b.eof = n < len(p)
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (b *Buffer) Skip(n uint64) (uint64, error) {
	rem := uint64(b.valid - b.off)
	if n > rem {
		b.off = b.valid
		b.eof = true
		return rem, io.EOF
	}
	b.off += int(n)
	return n, nil
}

// EOF reports whether the last read came up short.
func (b *Buffer) EOF() bool {
	return b.eof
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() uint64 {
	return uint64(b.valid - b.off)
}

// Len returns the number of valid bytes, read or not.
func (b *Buffer) Len() int {
	return b.valid
}
