package schema

import (
	"reflect"
	"slices"
	"sync"
	"unsafe"

	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/errors"
	"github.com/wippyai/graphwire/field"
)

// Releaser is implemented by types that hold resources beyond Go memory.
// Objects the decoder releases itself get Release called on them.
type Releaser interface {
	Release()
}

var releaserType = reflect.TypeFor[Releaser]()

// Compiler builds descriptors for Go struct types from their wire tags.
// It is safe for concurrent use.
type Compiler struct {
	cache sync.Map // reflect.Type -> *archive.Descriptor
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// Compile builds the descriptor of struct type t with the shared compiler.
func Compile(t reflect.Type) (*archive.Descriptor, error) {
	return defaultCompiler.Compile(t)
}

// Compile builds the descriptor of struct type t, or of the struct t points to.
func (c *Compiler) Compile(t reflect.Type) (*archive.Descriptor, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*archive.Descriptor), nil
	}

	s := &session{compiler: c, pending: make(map[reflect.Type]*archive.Descriptor)}
	d, err := s.descriptor(t, nil)
	if err != nil {
		return nil, err
	}

	// Publish the whole batch; descriptors of one session reference each other.
	for typ, pd := range s.pending {
		c.cache.LoadOrStore(typ, pd)
	}
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*archive.Descriptor), nil
	}
	return d, nil
}

// session compiles one type graph. Descriptors are registered before their
// fields are compiled so recursive types terminate.
type session struct {
	compiler *Compiler
	pending  map[reflect.Type]*archive.Descriptor
}

func (s *session) descriptor(t reflect.Type, path []string) (*archive.Descriptor, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "expected struct")
	}
	if cached, ok := s.compiler.cache.Load(t); ok {
		return cached.(*archive.Descriptor), nil
	}
	if d, ok := s.pending[t]; ok {
		return d, nil
	}

	d := &archive.Descriptor{
		Name:       t.Name(),
		Identified: make(map[uint64]archive.FieldDescriptor),
	}
	if d.Name == "" {
		d.Name = t.String()
	}
	s.pending[t] = d
	if path == nil {
		path = []string{d.Name}
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		raw, ok := sf.Tag.Lookup("wire")
		if !ok || raw == "-" || !sf.IsExported() {
			continue
		}
		fieldPath := sub(path, sf.Name)

		tg, err := parseTag(raw, fieldPath)
		if err != nil {
			return nil, err
		}
		if err := checkOptions(sf.Type, tg, fieldPath); err != nil {
			return nil, err
		}
		dec, err := s.value(sf.Type, tg, !tg.always, fieldPath)
		if err != nil {
			return nil, err
		}
		fd := archive.FieldDescriptor{Decoder: dec, Name: sf.Name, Offset: sf.Offset}

		if tg.always {
			d.Fields = append(d.Fields, fd)
			continue
		}
		if prev, dup := d.Identified[tg.number]; dup {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidData).
				Path(fieldPath...).
				GoType(sf.Type.String()).
				Detail("field number %d already used by %s", tg.number, prev.Name).
				Build()
		}
		d.Identified[tg.number] = fd
	}
	return d, nil
}

// value compiles the decoder for one Go type. sized reports whether the wire
// supplies a record length; where it does not, counted framings are used.
func (s *session) value(t reflect.Type, tg tag, sized bool, path []string) (archive.FieldDecoder, error) {
	if tg.ref != refNone && t.Kind() != reflect.Slice && t.Kind() != reflect.Map {
		return s.reference(t, tg, path)
	}

	switch t.Kind() {
	case reflect.Bool:
		return field.Bool{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return integer(t, tg, path)
	case reflect.Float32:
		return field.Float32{}, nil
	case reflect.Float64:
		return field.Float64{}, nil
	case reflect.String:
		switch {
		case tg.utf16:
			return field.CountedUTF16{}, nil
		case sized && !tg.counted:
			return field.String{}, nil
		default:
			return field.CountedString{}, nil
		}
	case reflect.Slice:
		return s.slice(t, tg, sized, path)
	case reflect.Map:
		return s.mapping(t, tag{ref: tg.ref}, sized && !tg.counted, path)
	case reflect.Pointer:
		elem, err := s.value(t.Elem(), tag{}, sized, path)
		if err != nil {
			return nil, err
		}
		return field.NewPointer(t.Elem(), elem), nil
	case reflect.Struct:
		return s.descriptor(t, path)
	default:
		return nil, errors.Unsupported(errors.PhaseCompile, path, t.String(), "no wire representation")
	}
}

// checkOptions rejects tag options that do not apply to t or, for slices
// and maps, to their elements.
func checkOptions(t reflect.Type, tg tag, path []string) error {
	base := t
	if k := t.Kind(); k == reflect.Slice || k == reflect.Map {
		base = t.Elem()
	}
	switch {
	case (tg.zigzag || tg.fixed) && !isInteger(base):
		return errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "zigzag and fixed need integers")
	case tg.utf16 && base.Kind() != reflect.String:
		return errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "utf16 needs strings")
	case tg.packed && t.Kind() != reflect.Slice:
		return errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "packed needs a slice")
	}
	return nil
}

func isInteger(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func integer(t reflect.Type, tg tag, path []string) (archive.FieldDecoder, error) {
	if tg.zigzag {
		switch t.Kind() {
		case reflect.Int:
			return field.Zigzag[int]{}, nil
		case reflect.Int8:
			return field.Zigzag[int8]{}, nil
		case reflect.Int16:
			return field.Zigzag[int16]{}, nil
		case reflect.Int32:
			return field.Zigzag[int32]{}, nil
		case reflect.Int64:
			return field.Zigzag[int64]{}, nil
		}
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "zigzag needs a signed integer")
	}
	if tg.fixed {
		switch t.Kind() {
		case reflect.Int32:
			return field.Fixed32[int32]{}, nil
		case reflect.Uint32:
			return field.Fixed32[uint32]{}, nil
		case reflect.Int64:
			return field.Fixed64[int64]{}, nil
		case reflect.Uint64:
			return field.Fixed64[uint64]{}, nil
		}
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "fixed needs a 32 or 64-bit integer")
	}
	switch t.Kind() {
	case reflect.Int:
		return field.Varint[int]{}, nil
	case reflect.Int8:
		return field.Varint[int8]{}, nil
	case reflect.Int16:
		return field.Varint[int16]{}, nil
	case reflect.Int32:
		return field.Varint[int32]{}, nil
	case reflect.Int64:
		return field.Varint[int64]{}, nil
	case reflect.Uint:
		return field.Varint[uint]{}, nil
	case reflect.Uint8:
		return field.Varint[uint8]{}, nil
	case reflect.Uint16:
		return field.Varint[uint16]{}, nil
	case reflect.Uint32:
		return field.Varint[uint32]{}, nil
	case reflect.Uint64:
		return field.Varint[uint64]{}, nil
	default:
		return field.Varint[uintptr]{}, nil
	}
}

func (s *session) slice(t reflect.Type, tg tag, sized bool, path []string) (archive.FieldDecoder, error) {
	if t.Elem().Kind() == reflect.Uint8 && !tg.packed {
		if sized && !tg.counted {
			return field.Bytes{}, nil
		}
		return field.CountedBytes{}, nil
	}

	elemTag := tag{zigzag: tg.zigzag, fixed: tg.fixed, utf16: tg.utf16, ref: tg.ref}
	switch {
	case tg.packed:
		if !isScalar(t.Elem()) {
			return nil, errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "packed needs numeric elements")
		}
		elem, err := s.value(t.Elem(), elemTag, false, path)
		if err != nil {
			return nil, err
		}
		return field.NewPacked(t, elem), nil
	case sized && !tg.counted:
		elem, err := s.value(t.Elem(), elemTag, true, path)
		if err != nil {
			return nil, err
		}
		return field.NewRepeated(t, elem), nil
	default:
		elem, err := s.value(t.Elem(), elemTag, false, path)
		if err != nil {
			return nil, err
		}
		return field.NewArray(t, elem), nil
	}
}

func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Float32, reflect.Float64:
		return true
	}
	return isInteger(t)
}

func (s *session) mapping(t reflect.Type, valueTag tag, entries bool, path []string) (archive.FieldDecoder, error) {
	key, err := s.value(t.Key(), tag{}, entries, sub(path, "key"))
	if err != nil {
		return nil, err
	}
	value, err := s.value(t.Elem(), valueTag, entries, sub(path, "value"))
	if err != nil {
		return nil, err
	}
	if entries {
		return field.NewMapEntry(t, key, value), nil
	}
	return field.NewDictionary(t, key, value), nil
}

// reference compiles a pointer field that carries an object id. The pointee
// is decoded from its own record, which always has a length.
func (s *session) reference(t reflect.Type, tg tag, path []string) (archive.FieldDecoder, error) {
	if t.Kind() != reflect.Pointer {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "object references need a pointer")
	}
	elem, err := s.value(t.Elem(), tag{}, true, path)
	if err != nil {
		return nil, err
	}
	switch tg.ref {
	case refUnique:
		return field.NewUnique(t.Elem(), elem), nil
	case refShared:
		return field.NewShared(t.Elem(), elem), nil
	default:
		return field.NewRef(t.Elem(), elem, releaseFunc(t.Elem())), nil
	}
}

// releaseFunc returns the cleanup for objects of type t, or nil when *t does
// not implement Releaser.
func releaseFunc(t reflect.Type) func(unsafe.Pointer) {
	if !reflect.PointerTo(t).Implements(releaserType) {
		return nil
	}
	return func(p unsafe.Pointer) {
		reflect.NewAt(t, p).Interface().(Releaser).Release()
	}
}

func sub(path []string, name string) []string {
	return append(slices.Clip(path), name)
}
