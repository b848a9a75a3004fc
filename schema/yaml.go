package schema

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/graphwire"
	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/errors"
)

// File is the YAML schema document.
//
//	messages:
//	  - name: PhoneNumber
//	    fields:
//	      - {name: number, number: 1, type: string}
//	      - {name: type, number: 2, type: int32}
//	  - name: Person
//	    fields:
//	      - {name: name, number: 1, type: string}
//	      - {name: phone, number: 4, type: PhoneNumber, repeated: true}
//	      - {name: pets, number: 5, key: string, type: Pet}
type File struct {
	Messages []MessageDef `yaml:"messages"`
}

// MessageDef declares one message. Fields may only refer to messages declared
// before it.
type MessageDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef declares one field. Number is zero for always-present fields,
// which must set Always. A non-empty Key makes the field a map from Key to
// Type. Options are the wire tag options (zigzag, fixed, packed, counted,
// utf16, ref, unique, shared).
type FieldDef struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Key      string   `yaml:"key,omitempty"`
	Options  []string `yaml:"options,omitempty"`
	Number   uint64   `yaml:"number,omitempty"`
	Always   bool     `yaml:"always,omitempty"`
	Repeated bool     `yaml:"repeated,omitempty"`
}

// scalar maps schema type names to Go types plus the options they imply.
var scalars = map[string]struct {
	typ  reflect.Type
	opts []string
}{
	"bool":     {reflect.TypeFor[bool](), nil},
	"int32":    {reflect.TypeFor[int32](), nil},
	"int64":    {reflect.TypeFor[int64](), nil},
	"uint32":   {reflect.TypeFor[uint32](), nil},
	"uint64":   {reflect.TypeFor[uint64](), nil},
	"sint32":   {reflect.TypeFor[int32](), []string{"zigzag"}},
	"sint64":   {reflect.TypeFor[int64](), []string{"zigzag"}},
	"fixed32":  {reflect.TypeFor[uint32](), []string{"fixed"}},
	"fixed64":  {reflect.TypeFor[uint64](), []string{"fixed"}},
	"sfixed32": {reflect.TypeFor[int32](), []string{"fixed"}},
	"sfixed64": {reflect.TypeFor[int64](), []string{"fixed"}},
	"float":    {reflect.TypeFor[float32](), nil},
	"double":   {reflect.TypeFor[float64](), nil},
	"string":   {reflect.TypeFor[string](), nil},
	"wstring":  {reflect.TypeFor[string](), []string{"utf16"}},
	"bytes":    {reflect.TypeFor[[]byte](), nil},
}

// Registry holds the message types built from a YAML schema.
type Registry struct {
	compiler    *Compiler
	types       map[string]reflect.Type
	descriptors map[string]*archive.Descriptor
	names       []string
}

// LoadYAML parses a YAML schema and builds a Go struct type per message.
func LoadYAML(data []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "parse schema")
	}
	return NewRegistry(f)
}

// NewRegistry builds the message types of f.
func NewRegistry(f File) (*Registry, error) {
	r := &Registry{
		compiler:    NewCompiler(),
		types:       make(map[string]reflect.Type, len(f.Messages)),
		descriptors: make(map[string]*archive.Descriptor, len(f.Messages)),
	}
	for _, m := range f.Messages {
		if m.Name == "" {
			return nil, errors.InvalidData(errors.PhaseSchema, nil, "message without a name")
		}
		if _, dup := r.types[m.Name]; dup {
			return nil, errors.InvalidData(errors.PhaseSchema, []string{m.Name}, "message declared twice")
		}
		t, err := r.build(m)
		if err != nil {
			return nil, err
		}
		r.types[m.Name] = t
		r.names = append(r.names, m.Name)
		d, err := r.compiler.Compile(t)
		if err != nil {
			return nil, err
		}
		// Messages with identical fields share one struct type and so one
		// compiled descriptor; each gets its own named copy.
		named := *d
		named.Name = m.Name
		r.descriptors[m.Name] = &named
	}
	return r, nil
}

func (r *Registry) build(m MessageDef) (reflect.Type, error) {
	fields := make([]reflect.StructField, 0, len(m.Fields))
	seen := make(map[string]bool, len(m.Fields))
	for _, fd := range m.Fields {
		path := []string{m.Name, fd.Name}
		goName := exportName(fd.Name)
		if goName == "" || seen[goName] {
			return nil, errors.InvalidData(errors.PhaseSchema, path, "missing or duplicate field name")
		}
		seen[goName] = true

		typ, opts, err := r.fieldType(fd, path)
		if err != nil {
			return nil, err
		}
		number := ""
		if fd.Number != 0 {
			number = strconv.FormatUint(fd.Number, 10)
		}
		if fd.Always {
			opts = append([]string{"always"}, opts...)
		}
		wireTag := strings.Join(append([]string{number}, opts...), ",")
		fields = append(fields, reflect.StructField{
			Name: goName,
			Type: typ,
			Tag:  reflect.StructTag(`wire:"` + wireTag + `" yaml:"` + fd.Name + `"`),
		})
	}
	return reflect.StructOf(fields), nil
}

func (r *Registry) fieldType(fd FieldDef, path []string) (reflect.Type, []string, error) {
	typ, opts, err := r.lookup(fd.Type, path)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, fd.Options...)
	if slices.ContainsFunc(fd.Options, isRefOption) {
		typ = reflect.PointerTo(typ)
	}
	if fd.Key != "" {
		key, keyOpts, err := r.lookup(fd.Key, path)
		if err != nil {
			return nil, nil, err
		}
		if len(keyOpts) > 0 || !key.Comparable() {
			return nil, nil, errors.TypeMismatch(errors.PhaseSchema, path, key.String(), "unsupported map key")
		}
		typ = reflect.MapOf(key, typ)
	}
	if fd.Repeated {
		typ = reflect.SliceOf(typ)
	}
	return typ, opts, nil
}

func (r *Registry) lookup(name string, path []string) (reflect.Type, []string, error) {
	if s, ok := scalars[name]; ok {
		return s.typ, slices.Clone(s.opts), nil
	}
	if t, ok := r.types[name]; ok {
		return t, nil, nil
	}
	return nil, nil, errors.New(errors.PhaseSchema, errors.KindNotFound).
		Path(path...).
		Detail("type %q is not a scalar or a previously declared message", name).
		Build()
}

func isRefOption(o string) bool {
	return o == "ref" || o == "unique" || o == "shared"
}

// exportName turns a schema field name into an exported Go identifier.
func exportName(name string) string {
	var b strings.Builder
	upper := true
	for _, c := range name {
		switch {
		case c == '_' || c == '-' || c == ' ':
			upper = true
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			if b.Len() == 0 && unicode.IsDigit(c) {
				b.WriteByte('F')
			}
			if upper {
				c = unicode.ToUpper(c)
				upper = false
			}
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Names returns the message names in declaration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Type returns the Go type built for a message.
func (r *Registry) Type(name string) (reflect.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Descriptor returns the compiled descriptor of a message.
func (r *Registry) Descriptor(name string) (*archive.Descriptor, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseSchema, "message", name)
	}
	return d, nil
}

// New allocates a zero message and returns a pointer to it.
func (r *Registry) New(name string) (reflect.Value, error) {
	t, ok := r.types[name]
	if !ok {
		return reflect.Value{}, errors.NotFound(errors.PhaseSchema, "message", name)
	}
	return reflect.New(t), nil
}

// Decode reads one object graph of the named message from src.
func (r *Registry) Decode(src graphwire.Source, name string, owner *archive.Owner, opts ...archive.Option) (reflect.Value, error) {
	v, err := r.New(name)
	if err != nil {
		return reflect.Value{}, err
	}
	d, err := r.Descriptor(name)
	if err != nil {
		return reflect.Value{}, err
	}
	if err := archive.New(src, opts...).ReadObject(d, v.UnsafePointer(), owner); err != nil {
		return reflect.Value{}, err
	}
	return v, nil
}

// Generic converts a value decoded from this registry; see Generic.
func (r *Registry) Generic(v reflect.Value) any {
	return Generic(v)
}
