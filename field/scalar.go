package field

import (
	"math"
	"unsafe"

	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/errors"
	"github.com/wippyai/graphwire/wire"
)

// Integer is any Go integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Signed is any signed Go integer type.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// readUint reads an integer payload. Fixed-width records carry their width in
// ncb; everything else is a varint.
func readUint(a *archive.Archive, ncb uint64) (uint64, error) {
	switch ncb {
	case 0:
		return a.ReadInteger()
	case 4:
		v, err := a.ReadFixed32()
		return uint64(v), err
	case 8:
		return a.ReadFixed64()
	default:
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(a.Count()).
			Detail("integer field with %d-byte payload", ncb).
			Build()
	}
}

// Bool decodes a varint into a bool.
type Bool struct{}

func (Bool) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	v, err := readUint(a, ncb)
	if err != nil {
		return err
	}
	*(*bool)(obj) = v != 0
	return nil
}

// Varint decodes a varint into T, truncating to the width of T.
// Fixed 4 and 8 byte payloads are accepted as well.
type Varint[T Integer] struct{}

func (Varint[T]) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	v, err := readUint(a, ncb)
	if err != nil {
		return err
	}
	*(*T)(obj) = T(v)
	return nil
}

// Zigzag decodes a zigzag-encoded varint (sint32, sint64).
type Zigzag[T Signed] struct{}

func (Zigzag[T]) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	v, err := a.ReadInteger()
	if err != nil {
		return err
	}
	*(*T)(obj) = T(wire.DecodeZigZag(v))
	return nil
}

// Fixed32 decodes 4 little-endian bytes.
type Fixed32[T ~int32 | ~uint32] struct{}

func (Fixed32[T]) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	v, err := a.ReadFixed32()
	if err != nil {
		return err
	}
	*(*T)(obj) = T(v)
	return nil
}

// Fixed64 decodes 8 little-endian bytes.
type Fixed64[T ~int64 | ~uint64] struct{}

func (Fixed64[T]) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	v, err := a.ReadFixed64()
	if err != nil {
		return err
	}
	*(*T)(obj) = T(v)
	return nil
}

// Float32 decodes an IEEE 754 single from 4 little-endian bytes.
type Float32 struct{}

func (Float32) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	v, err := a.ReadFixed32()
	if err != nil {
		return err
	}
	*(*float32)(obj) = math.Float32frombits(v)
	return nil
}

// Float64 decodes an IEEE 754 double from 8 little-endian bytes.
type Float64 struct{}

func (Float64) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	v, err := a.ReadFixed64()
	if err != nil {
		return err
	}
	*(*float64)(obj) = math.Float64frombits(v)
	return nil
}
