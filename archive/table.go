package archive

import (
	"maps"
	"slices"
	"unsafe"

	"github.com/wippyai/graphwire/errors"
)

const (
	// NullID is the permanent "no reference" entry.
	NullID uint32 = 0
	// RootID is reserved for the caller's target in every top-level read.
	RootID uint32 = 1
)

// Ownership says who is responsible for releasing a record's object.
type Ownership uint8

const (
	// Transferred objects belong to someone else and are never released by the table.
	Transferred Ownership = iota
	// Owned objects are released by the table unless handed to an Owner.
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "transferred"
}

// Record is one entry of the object table.
type Record struct {
	Object    unsafe.Pointer
	Context   any
	release   func(unsafe.Pointer)
	Ownership Ownership
}

// ObjectTable maps object ids to allocations and queues the objects that still
// need their record decoded. Id 0 always resolves to a nil object.
type ObjectTable struct {
	records    map[uint32]*Record
	work       workQueue
	maxObjects int
}

// NewObjectTable creates an empty table holding only the null entry.
func NewObjectTable() *ObjectTable {
	t := &ObjectTable{records: make(map[uint32]*Record)}
	t.reset()
	return t
}

func (t *ObjectTable) reset() {
	clear(t.records)
	t.records[NullID] = &Record{}
	t.work.reset()
}

// Seed registers the caller's target as the root object and queues it.
// The root is never owned by the table.
func (t *ObjectTable) Seed(dec FieldDecoder, obj unsafe.Pointer) {
	t.records[RootID] = &Record{Object: obj}
	t.work.push(task{decoder: dec, id: RootID, obj: obj})
}

// LookupOrAllocate returns the object for id. Unknown ids are allocated,
// recorded as owned and queued for decoding, so the pointer is valid before
// the object's record has been read.
func (t *ObjectTable) LookupOrAllocate(alloc Allocation, dec FieldDecoder, id uint32) (unsafe.Pointer, error) {
	if rec, ok := t.records[id]; ok {
		return rec.Object, nil
	}
	if err := t.admit(); err != nil {
		return nil, err
	}
	if alloc.New == nil {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "allocator")
	}
	obj := alloc.New()
	if obj == nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindNilPointer).
			Detail("allocator returned nil for object %d", id).
			Build()
	}
	t.records[id] = &Record{Object: obj, Ownership: Owned, release: alloc.Free}
	t.work.push(task{decoder: dec, id: id, obj: obj})
	return obj, nil
}

// ReleaseOwnership resolves id like LookupOrAllocate but hands the object to
// the caller. With exclusive set, an id whose ownership was already released
// fails with a duplicate ownership error. The null id never conflicts.
func (t *ObjectTable) ReleaseOwnership(alloc ResponsibleAllocation, dec FieldDecoder, id uint32, exclusive bool) (Released, error) {
	if id == NullID {
		return Released{}, nil
	}
	if rec, ok := t.records[id]; ok {
		if exclusive && rec.Ownership == Transferred {
			return Released{}, errors.DuplicateOwnership(id)
		}
		rec.Ownership = Transferred
		rec.release = nil
		return Released{Object: rec.Object, Context: rec.Context}, nil
	}
	if err := t.admit(); err != nil {
		return Released{}, err
	}
	if alloc == nil {
		return Released{}, errors.NilPointer(errors.PhaseDecode, nil, "allocator")
	}
	r := alloc()
	if r.Object == nil {
		return Released{}, errors.New(errors.PhaseDecode, errors.KindNilPointer).
			Detail("allocator returned nil for object %d", id).
			Build()
	}
	t.records[id] = &Record{Object: r.Object, Context: r.Context}
	t.work.push(task{decoder: dec, id: id, obj: r.Object})
	return r, nil
}

func (t *ObjectTable) admit() error {
	if t.maxObjects > 0 && len(t.records)-1 >= t.maxObjects {
		return errors.Limit(errors.PhaseDecode, "object count", uint64(len(t.records)), uint64(t.maxObjects))
	}
	return nil
}

// IsReleased reports whether id is tracked and no longer owned by the table.
func (t *ObjectTable) IsReleased(id uint32) bool {
	rec, ok := t.records[id]
	return ok && rec.Ownership == Transferred
}

// Lookup returns the record for id.
func (t *ObjectTable) Lookup(id uint32) (Record, bool) {
	rec, ok := t.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len returns the number of tracked objects, excluding the null entry.
func (t *ObjectTable) Len() int {
	return len(t.records) - 1
}

// Owned returns the number of objects the table would release.
func (t *ObjectTable) Owned() int {
	n := 0
	for _, rec := range t.records {
		if rec.Ownership == Owned {
			n++
		}
	}
	return n
}

// Transfer moves every owned object, with its release capability, to owner
// and clears the table. It returns the number of objects moved.
func (t *ObjectTable) Transfer(owner *Owner) int {
	n := 0
	for _, id := range slices.Sorted(maps.Keys(t.records)) {
		rec := t.records[id]
		if rec.Ownership != Owned {
			continue
		}
		owner.adopt(rec.Object, rec.release)
		n++
	}
	t.reset()
	return n
}

// ForceFreeAll releases every owned object now and clears the table.
// It returns the number of objects released.
func (t *ObjectTable) ForceFreeAll() int {
	n := 0
	for _, id := range slices.Sorted(maps.Keys(t.records)) {
		rec := t.records[id]
		if rec.Ownership != Owned {
			continue
		}
		if rec.release != nil {
			rec.release(rec.Object)
		}
		n++
	}
	t.reset()
	return n
}
