// Package errors provides structured error types for the graphwire library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type name, stream offset and
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("Person", "phone").
//		Offset(42).
//		Detail("buffer too small: need %d bytes, have %d", 8, 4).
//		Build()
//
// Or use convenience constructors for the decode taxonomy:
//
//	err := errors.Framing(offset, read, expected)
//	err := errors.DuplicateOwnership(id)
//
// Every error of a given kind matches the package sentinels through errors.Is:
//
//	if errors.Is(err, errors.ErrFraming) { ... }
package errors
