package wire

import "strconv"

// Type is the low three bits of a tag.
type Type uint8

const (
	Varint  Type = 0
	Fixed64 Type = 1
	Bytes   Type = 2
	Ignored Type = 3
	Fixed32 Type = 5
)

// Known reports whether t is one of the framings the decoder understands.
func (t Type) Known() bool {
	switch t {
	case Varint, Fixed64, Bytes, Ignored, Fixed32:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t {
	case Varint:
		return "varint"
	case Fixed64:
		return "fixed64"
	case Bytes:
		return "bytes"
	case Ignored:
		return "ignored"
	case Fixed32:
		return "fixed32"
	default:
		return "type(" + strconv.Itoa(int(t)) + ")"
	}
}

// FixedSize returns the payload size of fixed-width types and 0 otherwise.
func (t Type) FixedSize() uint64 {
	switch t {
	case Fixed32:
		return 4
	case Fixed64:
		return 8
	}
	return 0
}

// Tag is a decoded record header.
type Tag uint64

// MakeTag packs a field number and wire type.
func MakeTag(num uint64, t Type) Tag {
	return Tag(num<<3 | uint64(t&7))
}

// Number returns the field number.
func (t Tag) Number() uint64 {
	return uint64(t) >> 3
}

// Type returns the wire type.
func (t Tag) Type() Type {
	return Type(t & 7)
}

// AppendTag appends the varint encoding of a tag.
func AppendTag(b []byte, num uint64, t Type) []byte {
	return AppendVarint(b, uint64(MakeTag(num, t)))
}
