package field

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/errors"
)

// maxReserve bounds the capacity preallocated from a wire element count.
const maxReserve = 4096

// appendZero grows the slice at obj by one zero element and returns the
// element's address. The address is only valid until the next append.
func appendZero(typ reflect.Type, obj unsafe.Pointer) unsafe.Pointer {
	s := reflect.NewAt(typ, obj).Elem()
	n := s.Len()
	if n == s.Cap() {
		s.Grow(1)
	}
	s.SetLen(n + 1)
	e := s.Index(n)
	e.SetZero()
	return e.Addr().UnsafePointer()
}

// Repeated decodes one element per occurrence of the field and appends it to
// a slice.
type Repeated struct {
	Element archive.FieldDecoder
	typ     reflect.Type
}

// NewRepeated creates a Repeated decoder for a slice of type typ.
func NewRepeated(typ reflect.Type, elem archive.FieldDecoder) *Repeated {
	return &Repeated{typ: typ, Element: elem}
}

func (r *Repeated) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	return r.Element.Decode(a, appendZero(r.typ, obj), ncb)
}

// Packed decodes scalars packed back to back into one length-delimited record.
// A record with no length is a single unpacked occurrence.
type Packed struct {
	Element archive.FieldDecoder
	typ     reflect.Type
}

// NewPacked creates a Packed decoder for a slice of type typ.
func NewPacked(typ reflect.Type, elem archive.FieldDecoder) *Packed {
	return &Packed{typ: typ, Element: elem}
}

func (p *Packed) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	if ncb == 0 {
		return p.Element.Decode(a, appendZero(p.typ, obj), 0)
	}
	start := a.Count()
	for a.Count()-start < ncb {
		if err := p.Element.Decode(a, appendZero(p.typ, obj), 0); err != nil {
			return err
		}
	}
	if read := a.Count() - start; read > ncb {
		return errors.Framing(a.Count(), read, ncb)
	}
	return nil
}

// Array decodes count-prefixed array framing into a slice, replacing its
// contents.
type Array struct {
	Element archive.FieldDecoder
	typ     reflect.Type
}

// NewArray creates an Array decoder for a slice of type typ.
func NewArray(typ reflect.Type, elem archive.FieldDecoder) *Array {
	return &Array{typ: typ, Element: elem}
}

func (d *Array) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	s := reflect.NewAt(d.typ, obj).Elem()
	s.SetLen(0)
	return a.ReadArray(archive.Array{
		Element: d.Element,
		Reserve: func(n uint32) {
			if want := int(min(n, maxReserve)); s.Cap() < want {
				s.Grow(want)
			}
		},
		Allocate: func() unsafe.Pointer {
			return appendZero(d.typ, obj)
		},
	})
}
