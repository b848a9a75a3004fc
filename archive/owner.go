package archive

import "unsafe"

type garbage struct {
	obj     unsafe.Pointer
	release func(unsafe.Pointer)
}

// Owner receives the objects a read allocated but did not hand to any field.
// It keeps them reachable and releases them on Close, newest first.
// The zero value is ready to use.
type Owner struct {
	garbage []garbage
}

func (o *Owner) adopt(obj unsafe.Pointer, release func(unsafe.Pointer)) {
	o.garbage = append(o.garbage, garbage{obj: obj, release: release})
}

// Pending returns the number of objects awaiting release.
func (o *Owner) Pending() int {
	return len(o.garbage)
}

// Objects returns the adopted objects in the order they were received.
func (o *Owner) Objects() []unsafe.Pointer {
	out := make([]unsafe.Pointer, len(o.garbage))
	for i, g := range o.garbage {
		out[i] = g.obj
	}
	return out
}

// Close releases every adopted object. It is safe to call more than once.
func (o *Owner) Close() error {
	for i := len(o.garbage) - 1; i >= 0; i-- {
		if g := o.garbage[i]; g.release != nil {
			g.release(g.obj)
		}
	}
	o.garbage = nil
	return nil
}
