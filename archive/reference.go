package archive

import "unsafe"

// ReadObjectID reads a 4-byte little-endian object id.
func (a *Archive) ReadObjectID() (uint32, error) {
	return a.ReadFixed32()
}

// ReadObjectReference reads an object id and resolves it through the table.
// The object stays owned by the decoder; dec decodes its record later.
func (a *Archive) ReadObjectReference(alloc Allocation, dec FieldDecoder) (unsafe.Pointer, error) {
	id, err := a.ReadObjectID()
	if err != nil {
		return nil, err
	}
	return a.table.LookupOrAllocate(alloc, dec, id)
}

// ReadObjectReferenceResponsible reads an object id and takes ownership of
// the object for the referencing field. exclusive rejects ids already claimed.
func (a *Archive) ReadObjectReferenceResponsible(alloc ResponsibleAllocation, dec FieldDecoder, exclusive bool) (Released, error) {
	id, err := a.ReadObjectID()
	if err != nil {
		return Released{}, err
	}
	return a.table.ReleaseOwnership(alloc, dec, id, exclusive)
}
