package field

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/graphwire/archive"
)

// MapEntry decodes protobuf map entries, one length-delimited {1: key,
// 2: value} record per occurrence, into a Go map.
type MapEntry struct {
	typ   reflect.Type
	entry reflect.Type
	desc  *archive.Descriptor
}

// NewMapEntry creates a MapEntry decoder for a map of type typ.
func NewMapEntry(typ reflect.Type, key, value archive.FieldDecoder) *MapEntry {
	entry := reflect.StructOf([]reflect.StructField{
		{Name: "Key", Type: typ.Key()},
		{Name: "Value", Type: typ.Elem()},
	})
	return &MapEntry{
		typ:   typ,
		entry: entry,
		desc: &archive.Descriptor{
			Name: "map<" + typ.Key().String() + ", " + typ.Elem().String() + ">",
			Identified: map[uint64]archive.FieldDescriptor{
				1: {Decoder: key, Name: "key", Offset: entry.Field(0).Offset},
				2: {Decoder: value, Name: "value", Offset: entry.Field(1).Offset},
			},
		},
	}
}

func (m *MapEntry) Decode(a *archive.Archive, obj unsafe.Pointer, ncb uint64) error {
	e := reflect.New(m.entry)
	if err := a.ReadDescriptor(m.desc, e.UnsafePointer(), ncb); err != nil {
		return err
	}
	mv := reflect.NewAt(m.typ, obj).Elem()
	if mv.IsNil() {
		mv.Set(reflect.MakeMap(m.typ))
	}
	mv.SetMapIndex(e.Elem().Field(0), e.Elem().Field(1))
	return nil
}

// Dictionary decodes count-prefixed dictionary framing into a Go map, adding
// to any entries already present.
type Dictionary struct {
	Key   archive.FieldDecoder
	Value archive.FieldDecoder
	typ   reflect.Type
}

// NewDictionary creates a Dictionary decoder for a map of type typ.
func NewDictionary(typ reflect.Type, key, value archive.FieldDecoder) *Dictionary {
	return &Dictionary{typ: typ, Key: key, Value: value}
}

func (d *Dictionary) Decode(a *archive.Archive, obj unsafe.Pointer, _ uint64) error {
	mv := reflect.NewAt(d.typ, obj).Elem()
	if mv.IsNil() {
		mv.Set(reflect.MakeMap(d.typ))
	}
	var k, v reflect.Value
	return a.ReadDictionary(archive.Dictionary{
		KeyDecoder:   d.Key,
		ValueDecoder: d.Value,
		Key: func() unsafe.Pointer {
			k = reflect.New(d.typ.Key())
			return k.UnsafePointer()
		},
		Insert: func() unsafe.Pointer {
			v = reflect.New(d.typ.Elem())
			return v.UnsafePointer()
		},
		Commit: func() {
			mv.SetMapIndex(k.Elem(), v.Elem())
		},
	})
}
