package archive_test

import (
	"reflect"

	"github.com/wippyai/graphwire/wire"
)

// msg builds a record body from encoded fields.
func msg(fields ...[]byte) []byte {
	var b []byte
	for _, f := range fields {
		b = append(b, f...)
	}
	return b
}

func bytesField(num uint64, body []byte) []byte {
	b := wire.AppendTag(nil, num, wire.Bytes)
	b = wire.AppendVarint(b, uint64(len(body)))
	return append(b, body...)
}

func stringField(num uint64, s string) []byte {
	return bytesField(num, []byte(s))
}

func varintField(num, v uint64) []byte {
	return wire.AppendVarint(wire.AppendTag(nil, num, wire.Varint), v)
}

func fixed32Field(num uint64, v uint32) []byte {
	return wire.AppendFixed32(wire.AppendTag(nil, num, wire.Fixed32), v)
}

func fixed64Field(num uint64, v uint64) []byte {
	return wire.AppendFixed64(wire.AppendTag(nil, num, wire.Fixed64), v)
}

// refField encodes an object reference as a fixed32 id.
func refField(num uint64, id uint32) []byte {
	return fixed32Field(num, id)
}

// object frames a top-level record as the driver reads it.
func object(body []byte) []byte {
	return bytesField(1, body)
}

// counted encodes the 32-bit count framing of strings, arrays and dictionaries.
func counted(n uint32, payload ...byte) []byte {
	return append(wire.AppendFixed32(nil, n), payload...)
}

func reflectTypeOf(v any) reflect.Type {
	return reflect.TypeOf(v)
}
