package field

import (
	"encoding/binary"
	"io"
	"unicode/utf16"
	"unsafe"

	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/errors"
)

// readChunk bounds how much is allocated ahead of the bytes actually read.
const readChunk = 64 << 10

// readBytes reads n bytes, growing the buffer as data arrives so a bogus
// length cannot force a large allocation up front.
func readBytes(a *archive.Archive, n uint64) ([]byte, error) {
	if rem, ok := a.Remaining(); ok && n > rem {
		return nil, errors.EndOfStream(a.Count(), n, rem, io.ErrUnexpectedEOF)
	}
	buf := make([]byte, 0, min(n, readChunk))
	for uint64(len(buf)) < n {
		m := int(min(n-uint64(len(buf)), readChunk))
		start := len(buf)
		if cap(buf)-start < m {
			grown := make([]byte, start, max(2*cap(buf), start+m))
			copy(grown, buf)
			buf = grown
		}
		buf = buf[:start+m]
		if err := a.ReadByteArray(buf[start:]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// String decodes a length-delimited record into a string.
type String struct{}

func (String) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	buf, err := readBytes(a, ncb)
	if err != nil {
		return err
	}
	*(*string)(obj) = string(buf)
	return nil
}

// Bytes decodes a length-delimited record into a []byte.
type Bytes struct{}

func (Bytes) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	buf, err := readBytes(a, ncb)
	if err != nil {
		return err
	}
	*(*[]byte)(obj) = buf
	return nil
}

// CountedString decodes a string prefixed with its 32-bit byte count. It is
// used where no record length is available.
type CountedString struct{}

func (CountedString) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	var buf []byte
	err := a.ReadString(func(n uint32) []byte {
		buf = make([]byte, n)
		return buf
	}, 1)
	if err != nil {
		return err
	}
	*(*string)(obj) = string(buf)
	return nil
}

// CountedBytes is CountedString for []byte.
type CountedBytes struct{}

func (CountedBytes) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	var buf []byte
	err := a.ReadString(func(n uint32) []byte {
		buf = make([]byte, n)
		return buf
	}, 1)
	if err != nil {
		return err
	}
	*(*[]byte)(obj) = buf
	return nil
}

// CountedUTF16 decodes a string of little-endian UTF-16 code units prefixed
// with its 32-bit unit count.
type CountedUTF16 struct{}

func (CountedUTF16) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	var buf []byte
	err := a.ReadString(func(n uint32) []byte {
		buf = make([]byte, 2*uint64(n))
		return buf
	}, 2)
	if err != nil {
		return err
	}
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	*(*string)(obj) = string(utf16.Decode(units))
	return nil
}
