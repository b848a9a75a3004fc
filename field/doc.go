// Package field provides archive.FieldDecoder implementations for Go values.
//
// Decoders write through an unsafe.Pointer to the destination, so each one
// must be paired with a destination of the Go type it was built for:
//
//	Bool                        bool
//	Varint[T], Zigzag[T]        integer T
//	Fixed32[T], Fixed64[T]      int32/uint32, int64/uint64
//	Float32, Float64            float32, float64
//	String, CountedString       string
//	CountedUTF16                string (UTF-16 on the wire)
//	Bytes, CountedBytes         []byte
//	Repeated, Packed, Array     []T
//	MapEntry, Dictionary        map[K]V
//	Pointer, Ref, Owning        *T
//
// The Counted* decoders and Array and Dictionary carry their own 32-bit
// counts and can be used where no record length is available, such as
// always-present fields, array elements and dictionary entries.
//
// Ref pointers are owned by the object table until the read completes and
// are handed to an archive.Owner afterwards. Owning pointers belong to the
// field that decoded them.
package field
