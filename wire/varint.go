package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxVarintLen is the longest valid encoding of a 64-bit varint.
const MaxVarintLen = 10

// ErrOverflow is returned when a varint does not terminate within MaxVarintLen
// bytes or carries bits beyond 64.
var ErrOverflow = errors.New("varint: overflow")

// ReadVarint reads an unsigned base-128 varint.
func ReadVarint(r io.ByteReader) (uint64, error) {
	var result uint64
	for i := 0; i < MaxVarintLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		// The tenth byte holds bit 63 only.
		if i == MaxVarintLen-1 && b > 1 {
			return 0, ErrOverflow
		}
		result |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, ErrOverflow
}

// ConsumeVarint decodes a varint from the front of b and returns the value and
// the number of bytes used.
func ConsumeVarint(b []byte) (uint64, int, error) {
	var result uint64
	for i := 0; i < MaxVarintLen; i++ {
		if i >= len(b) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		c := b[i]
		if i == MaxVarintLen-1 && c > 1 {
			return 0, 0, ErrOverflow
		}
		result |= uint64(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			return result, i + 1, nil
		}
	}
	return 0, 0, ErrOverflow
}

// AppendVarint appends the varint encoding of v.
func AppendVarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// SizeVarint returns the encoded length of v.
func SizeVarint(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// EncodeZigZag maps signed integers onto unsigned ones so that small
// magnitudes stay short.
func EncodeZigZag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// DecodeZigZag reverses EncodeZigZag.
func DecodeZigZag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// AppendFixed32 appends v as 4 little-endian bytes.
func AppendFixed32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// AppendFixed64 appends v as 8 little-endian bytes.
func AppendFixed64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}
