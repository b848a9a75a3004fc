package source

import (
	"io"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/graphwire/errors"
)

// Memory reads a region of a WebAssembly module's linear memory, such as a
// buffer a guest serialized into.
type Memory struct {
	mem api.Memory
	off uint32
	end uint32
}

// NewMemory creates a source over [offset, offset+length) of mem.
func NewMemory(mem api.Memory, offset, length uint32) (*Memory, error) {
	if mem == nil {
		return nil, errors.NilPointer(errors.PhaseSource, nil, "api.Memory")
	}
	end := uint64(offset) + uint64(length)
	if end > uint64(mem.Size()) {
		return nil, errors.New(errors.PhaseSource, errors.KindInvalidData).
			Value(end).
			Detail("region [%d, %d) outside memory of %d bytes", offset, end, mem.Size()).
			Build()
	}
	return &Memory{mem: mem, off: offset, end: uint32(end)}, nil
}

func (m *Memory) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if m.off >= m.end {
		return 0, io.EOF
	}
	n := uint32(min(uint64(len(p)), uint64(m.end-m.off)))
	view, ok := m.mem.Read(m.off, n)
	if !ok {
		return 0, errors.New(errors.PhaseSource, errors.KindInvalidData).
			Offset(uint64(m.off)).
			Detail("memory read of %d bytes out of range", n).
			Build()
	}
	copy(p, view)
	m.off += n
	return int(n), nil
}

func (m *Memory) Skip(n uint64) (uint64, error) {
	rem := uint64(m.end - m.off)
	if n > rem {
		m.off = m.end
		return rem, io.EOF
	}
	m.off += uint32(n)
	return n, nil
}

// Remaining returns the number of unread bytes in the region.
func (m *Memory) Remaining() uint64 {
	return uint64(m.end - m.off)
}
