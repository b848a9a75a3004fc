package archive

import (
	"io"
	"unsafe"

	"github.com/wippyai/graphwire/errors"
)

// sizedElements marks arrays whose elements each carry a varint length.
const sizedElements = 0x80000000

// Array describes the destination of ReadArray. Allocate returns storage for
// the next element.
type Array struct {
	Element  FieldDecoder
	Reserve  func(n uint32)
	Allocate func() unsafe.Pointer
}

// Dictionary describes the destination of ReadDictionary. Key returns storage
// for the next key, Insert storage for its value once the key is decoded.
// Commit, if set, runs after the value is decoded.
type Dictionary struct {
	KeyDecoder   FieldDecoder
	ValueDecoder FieldDecoder
	Key          func() unsafe.Pointer
	Insert       func() unsafe.Pointer
	Commit       func()
}

// ReadArray reads a 32-bit element count followed by the elements. The high
// bit of the count selects per-element varint lengths.
func (a *Archive) ReadArray(ary Array) error {
	header, err := a.ReadFixed32()
	if err != nil {
		return err
	}
	n := header &^ sizedElements
	if err := a.checkContainer("array length", n); err != nil {
		return err
	}
	if ary.Reserve != nil {
		ary.Reserve(n)
	}

	sized := header&sizedElements != 0
	for i := uint32(0); i < n; i++ {
		var ncb uint64
		if sized {
			if ncb, err = a.ReadInteger(); err != nil {
				return withIndex(err, i)
			}
		}
		if err := ary.Element.Decode(a, ary.Allocate(), ncb); err != nil {
			return withIndex(err, i)
		}
	}
	return nil
}

// ReadString reads a 32-bit element count, asks buffer for storage and copies
// count*unitSize raw bytes into it.
func (a *Archive) ReadString(buffer func(count uint32) []byte, unitSize uint8) error {
	n, err := a.ReadFixed32()
	if err != nil {
		return err
	}
	if err := a.checkContainer("string length", n); err != nil {
		return err
	}
	size := uint64(n) * uint64(unitSize)
	if rem, ok := a.Remaining(); ok && size > rem {
		return errors.EndOfStream(a.count, size, rem, io.ErrUnexpectedEOF)
	}
	buf := buffer(n)
	if uint64(len(buf)) < size {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(a.count).
			Detail("string buffer holds %d bytes, need %d", len(buf), size).
			Build()
	}
	return a.ReadByteArray(buf[:size])
}

// ReadDictionary reads a 32-bit entry count followed by key/value pairs.
func (a *Archive) ReadDictionary(d Dictionary) error {
	n, err := a.ReadFixed32()
	if err != nil {
		return err
	}
	if err := a.checkContainer("dictionary length", n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if err := d.KeyDecoder.Decode(a, d.Key(), 0); err != nil {
			return withIndex(err, i)
		}
		if err := d.ValueDecoder.Decode(a, d.Insert(), 0); err != nil {
			return withIndex(err, i)
		}
		if d.Commit != nil {
			d.Commit()
		}
	}
	return nil
}

func (a *Archive) checkContainer(what string, n uint32) error {
	if a.cfg.maxContainerLen > 0 && n > a.cfg.maxContainerLen {
		return errors.Limit(errors.PhaseDecode, what, uint64(n), uint64(a.cfg.maxContainerLen))
	}
	return nil
}
