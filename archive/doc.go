// Package archive is the deserialization engine.
//
// An Archive reads records from a graphwire.Source and decodes them through
// FieldDecoders, most often a Descriptor that dispatches wire field numbers
// to per-field decoders.
//
// # Object Identity
//
// Reference fields carry a 32-bit object id. The ObjectTable maps ids to
// allocations:
//
//	id 0   always nil ("no reference")
//	id 1   the caller's root object, never owned by the table
//	id n   allocated on first sight and queued for decoding
//
// Because an object is recorded before its record is read, later references
// to the same id, forward references and cycles all resolve to one instance
// and every object is decoded exactly once.
//
// # Processing
//
// ReadObject seeds the work queue with the root and pops tasks until the
// queue is empty. Each task reads one record header (tag and, for
// length-delimited records, a varint length) and runs the task's decoder,
// which may enqueue more objects.
//
// # Ownership
//
//	Allocation              table-owned until the read ends
//	ResponsibleAllocation   owned by the referencing field
//
// At the end of a successful read, table-owned objects move to the supplied
// Owner. Without an Owner there must be none left, otherwise they are
// released and the read fails. A failed read releases every owned object.
//
// # Errors
//
// All failures are *errors.Error values and end the read:
//
//	[decode] end_of_stream           source ran out mid-read
//	[decode] framing                 submessage overran its length, or malformed varint
//	[decode] unrecognized_wire_type  tag with wire type 4, 6 or 7
//	[ownership] duplicate_ownership  id claimed by two exclusive references
//	[ownership] ownership_contract   owner-less read left owned objects
package archive
