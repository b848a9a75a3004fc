package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/errors"
	"github.com/wippyai/graphwire/schema"
	"github.com/wippyai/graphwire/source"
)

type PhoneType int32

const (
	Mobile PhoneType = iota
	Home
	Work
)

type PhoneNumber struct {
	Number string    `wire:"1"`
	Type   PhoneType `wire:"2"`
}

type Species int32

type Pet struct {
	Name    string  `wire:"1"`
	Species Species `wire:"2"`
}

type Person struct {
	Name  string         `wire:"1"`
	ID    int32          `wire:"2"`
	Email string         `wire:"3"`
	Phone []PhoneNumber  `wire:"4"`
	Pets  map[string]Pet `wire:"5"`
}

// marshalPerson encodes p the way protoc-generated code does.
func marshalPerson(p Person) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, p.Name)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(p.ID)))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, p.Email)
	for _, ph := range p.Phone {
		var m []byte
		m = protowire.AppendTag(m, 1, protowire.BytesType)
		m = protowire.AppendString(m, ph.Number)
		if ph.Type != 0 {
			m = protowire.AppendTag(m, 2, protowire.VarintType)
			m = protowire.AppendVarint(m, uint64(ph.Type))
		}
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}
	for k, pet := range p.Pets {
		var v []byte
		v = protowire.AppendTag(v, 1, protowire.BytesType)
		v = protowire.AppendString(v, pet.Name)
		if pet.Species != 0 {
			v = protowire.AppendTag(v, 2, protowire.VarintType)
			v = protowire.AppendVarint(v, uint64(pet.Species))
		}
		var e []byte
		e = protowire.AppendTag(e, 1, protowire.BytesType)
		e = protowire.AppendString(e, k)
		e = protowire.AppendTag(e, 2, protowire.BytesType)
		e = protowire.AppendBytes(e, v)
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, e)
	}
	return b
}

// frame wraps a protobuf message as a top-level record.
func frame(body []byte) []byte {
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

func defaultPerson() Person {
	return Person{
		Name:  "John",
		ID:    100,
		Email: "john@johnshouse.com",
		Phone: []PhoneNumber{{Number: "210-555-9294", Type: Home}},
		Pets:  map[string]Pet{"snake": {Name: "Snake"}},
	}
}

func TestDecode_ProtobufInterop(t *testing.T) {
	want := defaultPerson()
	var got Person
	require.NoError(t, schema.Decode(source.NewBytes(frame(marshalPerson(want))), &got, nil))
	assert.Equal(t, want, got)
}

func TestDecode_NegativeAndMultiple(t *testing.T) {
	want := Person{
		Name: "Jane",
		ID:   -42,
		Phone: []PhoneNumber{
			{Number: "1", Type: Mobile},
			{Number: "2", Type: Work},
		},
		Pets: map[string]Pet{"a": {Name: "A", Species: 1}, "b": {Name: "B"}},
	}
	var got Person
	require.NoError(t, schema.Decode(source.NewBytes(frame(marshalPerson(want))), &got, nil))
	assert.Equal(t, want, got)
}

func TestDecode_UnknownProtobufFields(t *testing.T) {
	body := marshalPerson(defaultPerson())
	body = protowire.AppendTag(body, 99, protowire.Fixed64Type)
	body = protowire.AppendFixed64(body, 1)
	body = protowire.AppendTag(body, 100, protowire.BytesType)
	body = protowire.AppendString(body, "future field")
	body = protowire.AppendTag(body, 101, protowire.VarintType)
	body = protowire.AppendVarint(body, 1<<63)

	var got Person
	require.NoError(t, schema.Decode(source.NewBytes(frame(body)), &got, nil))
	assert.Equal(t, defaultPerson(), got)
}

type Scalars struct {
	S32 int32   `wire:"1,zigzag"`
	S64 int64   `wire:"2,zigzag"`
	F32 uint32  `wire:"3,fixed"`
	SF  int64   `wire:"4,fixed"`
	Flt float32 `wire:"5"`
	Dbl float64 `wire:"6"`
	On  bool    `wire:"7"`
	Raw []byte  `wire:"8"`
	Pk  []int64 `wire:"9,packed"`
}

func TestDecode_ScalarEncodings(t *testing.T) {
	sf64 := int64(-9)
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(-7))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(-1<<40))
	b = protowire.AppendTag(b, 3, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 0xcafebabe)
	b = protowire.AppendTag(b, 4, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, uint64(sf64))
	b = protowire.AppendTag(b, 5, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 0x3fc00000)
	b = protowire.AppendTag(b, 6, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 0x4004000000000000)
	b = protowire.AppendTag(b, 7, protowire.VarintType)
	b = protowire.AppendVarint(b, 1)
	b = protowire.AppendTag(b, 8, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{0xde, 0xad})
	var packed []byte
	for _, v := range []int64{3, -1, 270} {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	b = protowire.AppendTag(b, 9, protowire.BytesType)
	b = protowire.AppendBytes(b, packed)

	var got Scalars
	require.NoError(t, schema.Decode(source.NewBytes(frame(b)), &got, nil))
	assert.Equal(t, Scalars{
		S32: -7,
		S64: -1 << 40,
		F32: 0xcafebabe,
		SF:  -9,
		Flt: 1.5,
		Dbl: 2.5,
		On:  true,
		Raw: []byte{0xde, 0xad},
		Pk:  []int64{3, -1, 270},
	}, got)
}

type Graph struct {
	Name  string `wire:"1"`
	Left  *Graph `wire:"2,ref"`
	Right *Graph `wire:"3,ref"`
}

func TestDecode_Graph(t *testing.T) {
	obj := func(name string, left, right uint32) []byte {
		var b []byte
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, name)
		b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, left)
		b = protowire.AppendTag(b, 3, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, right)
		return frame(b)
	}
	// Diamond: root -> (2, 3), 2 -> 4, 3 -> 4, 4 -> root.
	var data []byte
	data = append(data, obj("root", 2, 3)...)
	data = append(data, obj("left", 4, 0)...)
	data = append(data, obj("right", 0, 4)...)
	data = append(data, obj("bottom", 1, 1)...)

	var owner archive.Owner
	var root Graph
	require.NoError(t, schema.Decode(source.NewBytes(data), &root, &owner))
	assert.Equal(t, "left", root.Left.Name)
	assert.Equal(t, "right", root.Right.Name)
	assert.Same(t, root.Left.Left, root.Right.Right)
	assert.Equal(t, "bottom", root.Left.Left.Name)
	assert.Same(t, &root, root.Left.Left.Left)
	assert.Equal(t, 3, owner.Pending())

	err := schema.Decode(source.NewBytes(data), &Graph{}, nil)
	assert.ErrorIs(t, err, errors.ErrOwnershipContract)
}

func TestDecode_NilTarget(t *testing.T) {
	err := schema.Decode[Person](source.NewBytes(nil), nil, nil)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNilPointer})
}
