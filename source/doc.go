// Package source provides graphwire.Source implementations.
//
//	Bytes    in-memory slice
//	Reader   any io.Reader, seeking to skip when possible
//	Buffer   bounded read/write stream with a sticky EOF flag
//	Memory   region of a wazero module's linear memory
//
// Sources are not safe for concurrent use.
package source
