// Package schema builds archive descriptors from Go types and YAML schemas.
//
// # Struct Tags
//
// Fields are mapped with a wire tag:
//
//	type Person struct {
//	    Name    string            `wire:"1"`
//	    ID      int32             `wire:"2"`
//	    Delta   int64             `wire:"3,zigzag"`
//	    Phones  []PhoneNumber     `wire:"4"`
//	    Pets    map[string]Pet    `wire:"5"`
//	    Samples []uint32          `wire:"6,packed"`
//	    Friend  *Person           `wire:"7,ref"`
//	    Version uint32            `wire:",always"`
//	    Cache   map[string]string `wire:"-"`
//	}
//
// Options:
//
//	zigzag    sint32/sint64 encoding
//	fixed     4 or 8 little-endian bytes
//	packed    scalars packed into one record
//	counted   32-bit count framing instead of record lengths
//	utf16     UTF-16 string with a 32-bit unit count
//	ref       object id; the object stays with the decoder until the read ends
//	unique    object id; the field owns the object exclusively
//	shared    object id; the field shares ownership of the object
//	always    no tag on the wire; decoded first, in declaration order
//
// Untagged and unexported fields are ignored. Slices decode one element per
// occurrence and maps decode protobuf map entries, unless they sit where no
// record length exists (always-present fields, array elements, dictionary
// entries) or carry the counted option; they then use the archive's array and
// dictionary framing.
//
// Types whose pointer implements Releaser have Release called when the
// decoder frees them.
//
// # YAML Schemas
//
// LoadYAML builds struct types at runtime from a schema document, for tools
// that have no Go types for the stream. Message definitions may only refer to
// messages declared earlier, so dynamic types cannot be recursive.
//
// # Thread Safety
//
// Compilers and Registries are safe for concurrent use once built.
package schema
