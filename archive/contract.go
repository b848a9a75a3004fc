package archive

import "unsafe"

// FieldDecoder decodes one field, or one record body, into the memory at obj.
// ncb is the byte length supplied by the wire framing, or zero when the value
// is self-delimiting.
type FieldDecoder interface {
	Decode(a *Archive, obj unsafe.Pointer, ncb uint64) error
}

// FieldDecoderFunc adapts a function to FieldDecoder.
type FieldDecoderFunc func(a *Archive, obj unsafe.Pointer, ncb uint64) error

func (f FieldDecoderFunc) Decode(a *Archive, obj unsafe.Pointer, ncb uint64) error {
	return f(a, obj, ncb)
}

// FieldDescriptor places a decoder at a byte offset within the parent object.
type FieldDescriptor struct {
	Decoder FieldDecoder
	Name    string
	Offset  uintptr
}

// Descriptor maps wire field numbers to field decoders for one type.
// Fields are always present and decoded first, in order, with no tag.
// Identified fields are dispatched by field number.
type Descriptor struct {
	Identified map[uint64]FieldDescriptor
	Name       string
	Fields     []FieldDescriptor
}

// Decode implements FieldDecoder, so a descriptor can be nested as a field.
func (d *Descriptor) Decode(a *Archive, obj unsafe.Pointer, ncb uint64) error {
	return a.ReadDescriptor(d, obj, ncb)
}

// Allocation creates objects that stay owned by the decoder until the read
// completes. Free is optional.
type Allocation struct {
	New  func() unsafe.Pointer
	Free func(unsafe.Pointer)
}

// Released is an object whose ownership was handed to the referencing field.
// Context is opaque data supplied by the allocator.
type Released struct {
	Object  unsafe.Pointer
	Context any
}

// ResponsibleAllocation creates objects for references that take ownership.
type ResponsibleAllocation func() Released
