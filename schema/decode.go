package schema

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/graphwire"
	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/errors"
)

// Decode reads one object graph from src into v. See archive.Archive.ReadObject
// for how owner is used.
func Decode[T any](src graphwire.Source, v *T, owner *archive.Owner, opts ...archive.Option) error {
	if v == nil {
		return errors.NilPointer(errors.PhaseDecode, nil, reflect.TypeFor[*T]().String())
	}
	d, err := Compile(reflect.TypeFor[T]())
	if err != nil {
		return err
	}
	return archive.New(src, opts...).ReadObject(d, unsafe.Pointer(v), owner)
}
