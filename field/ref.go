package field

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/graphwire/archive"
)

// Pointer decodes a nested message inline into a *T, allocating T when the
// pointer is nil.
type Pointer struct {
	Element archive.FieldDecoder
	typ     reflect.Type
}

// NewPointer creates a Pointer decoder for pointee type typ.
func NewPointer(typ reflect.Type, elem archive.FieldDecoder) *Pointer {
	return &Pointer{typ: typ, Element: elem}
}

func (p *Pointer) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	slot := (*unsafe.Pointer)(obj)
	if *slot == nil {
		*slot = reflect.New(p.typ).UnsafePointer()
	}
	return p.Element.Decode(a, *slot, ncb)
}

// Ref decodes an object id into a *T resolved through the object table.
// Every reference to one id yields the same pointer. The object's own record
// is decoded later by Element.
type Ref struct {
	Element archive.FieldDecoder
	alloc   archive.Allocation
}

// NewRef creates a Ref decoder for pointee type typ. free, if not nil, is
// the object's cleanup.
func NewRef(typ reflect.Type, elem archive.FieldDecoder, free func(unsafe.Pointer)) *Ref {
	return &Ref{
		Element: elem,
		alloc: archive.Allocation{
			New: func() unsafe.Pointer {
				return reflect.New(typ).UnsafePointer()
			},
			Free: free,
		},
	}
}

func (r *Ref) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	p, err := a.ReadObjectReference(r.alloc, r.Element)
	if err != nil {
		return err
	}
	*(*unsafe.Pointer)(obj) = p
	return nil
}

// Owning decodes an object id into a *T that takes over ownership of the
// object from the table. With Exclusive set, two owning references to one id
// fail the read.
type Owning struct {
	Element   archive.FieldDecoder
	alloc     archive.ResponsibleAllocation
	Exclusive bool
}

// NewUnique creates an exclusive Owning decoder, the unique_ptr flavor.
func NewUnique(typ reflect.Type, elem archive.FieldDecoder) *Owning {
	return newOwning(typ, elem, true)
}

// NewShared creates a non-exclusive Owning decoder, the shared_ptr flavor.
func NewShared(typ reflect.Type, elem archive.FieldDecoder) *Owning {
	return newOwning(typ, elem, false)
}

func newOwning(typ reflect.Type, elem archive.FieldDecoder, exclusive bool) *Owning {
	return &Owning{
		Element: elem,
		alloc: func() archive.Released {
			return archive.Released{Object: reflect.New(typ).UnsafePointer()}
		},
		Exclusive: exclusive,
	}
}

func (o *Owning) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	r, err := a.ReadObjectReferenceResponsible(o.alloc, o.Element, o.Exclusive)
	if err != nil {
		return err
	}
	*(*unsafe.Pointer)(obj) = r.Object
	return nil
}
