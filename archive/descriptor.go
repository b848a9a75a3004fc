package archive

import (
	stderrors "errors"
	"strconv"
	"unsafe"

	"github.com/wippyai/graphwire/errors"
	"github.com/wippyai/graphwire/wire"
)

// ReadDescriptor decodes a structure described by d into obj.
//
// Always-present fields are decoded first with no length. When ncb is zero
// nothing else follows. Otherwise tagged fields are read until ncb bytes have
// been consumed; fields the descriptor does not know are skipped. Consuming
// more than ncb bytes is a framing error.
func (a *Archive) ReadDescriptor(d *Descriptor, obj unsafe.Pointer, ncb uint64) error {
	if err := a.checkLength(ncb); err != nil {
		return err
	}
	start := a.count
	limit := start + ncb

	for i := range d.Fields {
		f := &d.Fields[i]
		if err := f.Decoder.Decode(a, unsafe.Add(obj, f.Offset), 0); err != nil {
			return withPath(err, f.Name)
		}
	}

	if ncb == 0 {
		return nil
	}

	for a.count < limit {
		tag, err := a.ReadTag()
		if err != nil {
			return err
		}
		child, err := a.RecordLength(tag)
		if err != nil {
			return err
		}

		f, ok := d.Identified[tag.Number()]
		if !ok {
			if tag.Type() == wire.Varint {
				_, err = a.ReadInteger()
			} else {
				err = a.Skip(child)
			}
			if err != nil {
				return err
			}
			continue
		}

		if err := f.Decoder.Decode(a, unsafe.Add(obj, f.Offset), child); err != nil {
			return withPath(err, f.Name)
		}
	}

	if a.count > limit {
		return errors.Framing(a.count, a.count-start, ncb)
	}
	return nil
}

// withPath prefixes the field path of structured errors.
func withPath(err error, name string) error {
	if name == "" {
		return err
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.Path = append([]string{name}, e.Path...)
	}
	return err
}

func withIndex(err error, i uint32) error {
	return withPath(err, "["+strconv.FormatUint(uint64(i), 10)+"]")
}
