package graphwire

// Source is a synchronous byte stream consumed by the decoder.
//
// Read follows io.Reader semantics; the decoder retries short reads and fails
// only when the source reports an error before the request is satisfied.
// Skip discards up to n bytes and returns how many were discarded.
type Source interface {
	Read(p []byte) (int, error)
	Skip(n uint64) (uint64, error)
}

// Sizer is implemented by sources that know how many bytes remain.
type Sizer interface {
	Remaining() uint64
}
