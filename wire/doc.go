// Package wire provides the primitives of the tag-length-value wire format:
// base-128 varints, wire types and field tags.
//
// # Varints
//
// Unsigned integers are written seven bits at a time, least significant group
// first. The high bit of every byte except the last is set:
//
//	0      -> 00
//	127    -> 7f
//	128    -> 80 01
//	2^32-1 -> ff ff ff ff 0f
//	2^64-1 -> ff ff ff ff ff ff ff ff ff 01
//
// ReadVarint never consumes more than MaxVarintLen bytes. A longer sequence,
// or a tenth byte that would carry bits past 64, fails with ErrOverflow.
//
// # Tags
//
// Every record starts with a varint tag packing the field number and the wire
// type: tag = number<<3 | type.
//
//	Type      Payload
//	─────────────────────────────────────────
//	Varint    one varint, no length
//	Fixed64   8 bytes little-endian
//	Bytes     varint length, then that many bytes
//	Ignored   no payload
//	Fixed32   4 bytes little-endian
package wire
