package schema

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/graphwire/errors"
	"github.com/wippyai/graphwire/field"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		in      string
		want    tag
		wantErr bool
	}{
		{in: "1", want: tag{number: 1}},
		{in: "7,zigzag", want: tag{number: 7, zigzag: true}},
		{in: "3,fixed,packed", want: tag{number: 3, fixed: true, packed: true}},
		{in: ",always", want: tag{always: true}},
		{in: ",always,counted", want: tag{always: true, counted: true}},
		{in: "2,ref", want: tag{number: 2, ref: refTable}},
		{in: "2,unique", want: tag{number: 2, ref: refUnique}},
		{in: "2,shared", want: tag{number: 2, ref: refShared}},
		{in: "0", wantErr: true},
		{in: "x", wantErr: true},
		{in: "", wantErr: true},
		{in: "1,always", wantErr: true},
		{in: "1,bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTag(tt.in, []string{"T", "F"})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindInvalidData})
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

type compiled struct {
	Name     string            `wire:"1"`
	Count    int64             `wire:"2,zigzag"`
	Hash     uint32            `wire:"3,fixed"`
	Samples  []int32           `wire:"4,packed"`
	Tags     []string          `wire:"5"`
	Attrs    map[string]string `wire:"6"`
	Blob     []byte            `wire:"7"`
	Self     *compiled         `wire:"8,ref"`
	Version  uint16            `wire:",always"`
	Label    string            `wire:",always"`
	Ignored  chan int          `wire:"-"`
	Untagged int
	hidden   int `wire:"9"`
}

func TestCompile(t *testing.T) {
	c := NewCompiler()
	d, err := c.Compile(reflect.TypeFor[compiled]())
	require.NoError(t, err)
	assert.Equal(t, "compiled", d.Name)

	require.Len(t, d.Fields, 2)
	assert.Equal(t, "Version", d.Fields[0].Name)
	assert.Equal(t, field.Varint[uint16]{}, d.Fields[0].Decoder)
	assert.Equal(t, field.CountedString{}, d.Fields[1].Decoder, "always-present strings are counted")

	assert.Len(t, d.Identified, 8)
	assert.Equal(t, field.String{}, d.Identified[1].Decoder)
	assert.Equal(t, field.Zigzag[int64]{}, d.Identified[2].Decoder)
	assert.Equal(t, field.Fixed32[uint32]{}, d.Identified[3].Decoder)
	assert.IsType(t, &field.Packed{}, d.Identified[4].Decoder)
	assert.IsType(t, &field.Repeated{}, d.Identified[5].Decoder)
	assert.IsType(t, &field.MapEntry{}, d.Identified[6].Decoder)
	assert.Equal(t, field.Bytes{}, d.Identified[7].Decoder)
	assert.IsType(t, &field.Ref{}, d.Identified[8].Decoder)

	ref := d.Identified[8].Decoder.(*field.Ref)
	assert.Same(t, d, ref.Element, "recursive types share one descriptor")

	again, err := c.Compile(reflect.TypeFor[*compiled]())
	require.NoError(t, err)
	assert.Same(t, d, again, "pointer types compile to the pointee, from cache")
}

type unsized struct {
	List  []string          `wire:",always"`
	Dict  map[int32]string  `wire:",always"`
	Raw   []byte            `wire:"1,counted"`
	Table map[string]uint64 `wire:"2,counted"`
}

func TestCompile_UnsizedContexts(t *testing.T) {
	d, err := NewCompiler().Compile(reflect.TypeFor[unsized]())
	require.NoError(t, err)

	assert.IsType(t, &field.Array{}, d.Fields[0].Decoder)
	assert.Equal(t, field.CountedString{}, d.Fields[0].Decoder.(*field.Array).Element)
	assert.IsType(t, &field.Dictionary{}, d.Fields[1].Decoder)
	assert.Equal(t, field.CountedBytes{}, d.Identified[1].Decoder)
	assert.IsType(t, &field.Dictionary{}, d.Identified[2].Decoder)
}

func TestCompile_Errors(t *testing.T) {
	type dup struct {
		A int32 `wire:"1"`
		B int32 `wire:"1"`
	}
	type badZigzag struct {
		A uint32 `wire:"1,zigzag"`
	}
	type badFixed struct {
		A int16 `wire:"1,fixed"`
	}
	type badRef struct {
		A int32 `wire:"1,ref"`
	}
	type badPacked struct {
		A []string `wire:"1,packed"`
	}
	type badKind struct {
		A func() `wire:"1"`
	}

	tests := []struct {
		name string
		typ  reflect.Type
		kind errors.Kind
	}{
		{"nil", nil, errors.KindNilPointer},
		{"not a struct", reflect.TypeFor[int](), errors.KindTypeMismatch},
		{"duplicate number", reflect.TypeFor[dup](), errors.KindInvalidData},
		{"zigzag unsigned", reflect.TypeFor[badZigzag](), errors.KindTypeMismatch},
		{"fixed int16", reflect.TypeFor[badFixed](), errors.KindTypeMismatch},
		{"ref without pointer", reflect.TypeFor[badRef](), errors.KindTypeMismatch},
		{"packed strings", reflect.TypeFor[badPacked](), errors.KindTypeMismatch},
		{"func field", reflect.TypeFor[badKind](), errors.KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler().Compile(tt.typ)
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseCompile, Kind: tt.kind})
		})
	}
}

func TestCompile_ErrorPath(t *testing.T) {
	type inner struct {
		Bad complex64 `wire:"1"`
	}
	type outer struct {
		In inner `wire:"1"`
	}
	_, err := NewCompiler().Compile(reflect.TypeFor[outer]())
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindUnsupported, e.Kind)
	assert.Equal(t, []string{"outer", "In", "Bad"}, e.Path)
	assert.Equal(t, "complex64", e.GoType)
}

func TestCompile_ErrorDetails(t *testing.T) {
	t.Run("bad number keeps the parse error", func(t *testing.T) {
		_, err := parseTag("x", []string{"T", "F"})
		assert.ErrorIs(t, err, strconv.ErrSyntax)
	})

	t.Run("duplicate number names the field type", func(t *testing.T) {
		type dup struct {
			A int32  `wire:"1"`
			B string `wire:"1"`
		}
		_, err := NewCompiler().Compile(reflect.TypeFor[dup]())
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "string", e.GoType)
		assert.Equal(t, []string{"dup", "B"}, e.Path)
	})
}

type resource struct {
	released *int
}

func (r *resource) Release() { *r.released++ }

func TestReleaseFunc(t *testing.T) {
	assert.Nil(t, releaseFunc(reflect.TypeFor[compiled]()))

	free := releaseFunc(reflect.TypeFor[resource]())
	require.NotNil(t, free)
	n := 0
	r := &resource{released: &n}
	free(reflect.ValueOf(r).UnsafePointer())
	assert.Equal(t, 1, n)
}
