package source

import "io"

// Bytes reads from an in-memory byte slice.
type Bytes struct {
	data []byte
	off  int
}

func NewBytes(data []byte) *Bytes {
	return &Bytes{data: data}
}

func (b *Bytes) Read(p []byte) (int, error) {
	if b.off >= len(b.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.data[b.off:])
	b.off += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (b *Bytes) ReadByte() (byte, error) {
	if b.off >= len(b.data) {
		return 0, io.EOF
	}
	c := b.data[b.off]
	b.off++
	return c, nil
}

func (b *Bytes) Skip(n uint64) (uint64, error) {
	rem := uint64(b.Remaining())
	if n > rem {
		b.off = len(b.data)
		return rem, io.EOF
	}
	b.off += int(n)
	return n, nil
}

// Remaining returns the number of unread bytes.
func (b *Bytes) Remaining() uint64 {
	return uint64(len(b.data) - b.off)
}

// Offset returns the number of bytes consumed.
func (b *Bytes) Offset() int {
	return b.off
}
