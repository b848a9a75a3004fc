package wire_test

import (
	"testing"

	"github.com/wippyai/graphwire/wire"
)

func TestTag(t *testing.T) {
	tests := []struct {
		num uint64
		typ wire.Type
		raw uint64
	}{
		{1, wire.Varint, 0x08},
		{2, wire.Bytes, 0x12},
		{3, wire.Fixed32, 0x1d},
		{4, wire.Fixed64, 0x21},
		{15, wire.Ignored, 0x7b},
		{1 << 28, wire.Bytes, 1<<31 | 2},
	}

	for _, tt := range tests {
		tag := wire.MakeTag(tt.num, tt.typ)
		if uint64(tag) != tt.raw {
			t.Errorf("MakeTag(%d, %s) = 0x%x, want 0x%x", tt.num, tt.typ, uint64(tag), tt.raw)
		}
		if tag.Number() != tt.num || tag.Type() != tt.typ {
			t.Errorf("tag 0x%x split into (%d, %s)", tt.raw, tag.Number(), tag.Type())
		}
	}
}

func TestTypeKnown(t *testing.T) {
	known := map[wire.Type]bool{0: true, 1: true, 2: true, 3: true, 4: false, 5: true, 6: false, 7: false}
	for typ, want := range known {
		if typ.Known() != want {
			t.Errorf("%s.Known() = %v, want %v", typ, typ.Known(), want)
		}
	}
}

func TestTypeFixedSize(t *testing.T) {
	if wire.Fixed32.FixedSize() != 4 || wire.Fixed64.FixedSize() != 8 {
		t.Error("fixed sizes wrong")
	}
	if wire.Varint.FixedSize() != 0 || wire.Bytes.FixedSize() != 0 {
		t.Error("non-fixed types should report 0")
	}
}

func TestAppendTag(t *testing.T) {
	b := wire.AppendTag(nil, 5, wire.Bytes)
	if len(b) != 1 || b[0] != 0x2a {
		t.Errorf("AppendTag(5, bytes) = %x", b)
	}
}
