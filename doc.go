// Package graphwire reconstructs object graphs from a tag-length-value stream
// compatible with the protobuf wire format.
//
// On top of the base format, graphwire layers object identity: a reference
// field carries a 32-bit object id, and every id is decoded exactly once no
// matter how many fields point at it. Shared references, cycles and forward
// references all resolve to the same instance.
//
// # Architecture Overview
//
//	graphwire/           Root package with the Source contract
//	├── wire/            Varint, tag and wire-type primitives
//	├── archive/         Object table, work queue and descriptor dispatch
//	├── field/           Field decoders for scalars, containers and references
//	├── schema/          Descriptors from Go struct tags or YAML schemas
//	├── source/          Byte sources: memory, io.Reader, buffers, wasm memory
//	├── errors/          Structured error types
//	└── cmd/graphdump/   Command-line stream inspector
//
// # Quick Start
//
// Describe a type with struct tags and decode into it:
//
//	type Node struct {
//	    Name string `wire:"1"`
//	    Next *Node  `wire:"2,unique"`
//	}
//
//	var root Node
//	err := schema.Decode(source.NewBytes(data), &root, nil)
//
// # Stream Layout
//
// The stream is a sequence of records. The first is the root object; every
// object first referenced while decoding is appended after it in the order the
// references were met:
//
//	[tag][len][root fields ...][tag][len][object 2 fields ...][tag][len]...
//
// # Ownership
//
// Objects reached through plain references are owned by the decoder until the
// read finishes. Pass an *archive.Owner to receive them; without one, such a
// stream fails with an ownership contract error and the objects are released.
// Objects reached through unique or shared references belong to the field that
// holds them.
//
// # Thread Safety
//
// An Archive and its Source are used by one goroutine. Descriptors and the
// schema compiler are safe for concurrent use.
package graphwire
