package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // wire stream to objects
	PhaseOwnership Phase = "ownership" // object table hand-off
	PhaseCompile   Phase = "compile"   // descriptor construction
	PhaseSchema    Phase = "schema"    // YAML schema parsing
	PhaseSource    Phase = "source"    // byte source operations
)

// Kind categorizes the error
type Kind string

const (
	KindEndOfStream          Kind = "end_of_stream"
	KindFraming              Kind = "framing"
	KindUnrecognizedWireType Kind = "unrecognized_wire_type"
	KindDuplicateOwnership   Kind = "duplicate_ownership"
	KindOwnershipContract    Kind = "ownership_contract"
	KindInvalidData          Kind = "invalid_data"
	KindLimit                Kind = "limit_exceeded"
	KindTypeMismatch         Kind = "type_mismatch"
	KindUnsupported          Kind = "unsupported"
	KindNotFound             Kind = "not_found"
	KindNilPointer           Kind = "nil_pointer"
)

// Sentinels for errors.Is. They carry no phase, so they match any error of the same kind.
var (
	ErrEndOfStream          = &Error{Kind: KindEndOfStream}
	ErrFraming              = &Error{Kind: KindFraming}
	ErrUnrecognizedWireType = &Error{Kind: KindUnrecognizedWireType}
	ErrDuplicateOwnership   = &Error{Kind: KindDuplicateOwnership}
	ErrOwnershipContract    = &Error{Kind: KindOwnershipContract}
	ErrLimit                = &Error{Kind: KindLimit}
)

// Error is the structured error type used throughout graphwire
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
	// Offset is the stream position when the error was raised, zero when unknown.
	Offset int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset > 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.FormatInt(e.Offset, 10))
		b.WriteByte(')')
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Offset sets the stream position
func (b *Builder) Offset(off uint64) *Builder {
	b.err.Offset = int64(off)
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the decode taxonomy

// EndOfStream creates an error for a source that ran dry mid-read
func EndOfStream(offset uint64, want, got uint64, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindEndOfStream,
		Offset: int64(offset),
		Detail: fmt.Sprintf("end of stream reached prematurely: wanted %d bytes, got %d", want, got),
		Cause:  cause,
	}
}

// Framing creates an error for a submessage that consumed more than its declared
// length. Value holds the overrun in bytes.
func Framing(offset uint64, read, expected uint64) *Error {
	var overrun uint64
	if read > expected {
		overrun = read - expected
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindFraming,
		Offset: int64(offset),
		Detail: fmt.Sprintf("read %d bytes and expected to read %d bytes", read, expected),
		Value:  overrun,
	}
}

// MalformedVarint creates a framing error for an overlong base-128 sequence
func MalformedVarint(offset uint64, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindFraming,
		Offset: int64(offset),
		Detail: "malformed varint",
		Cause:  cause,
	}
}

// UnrecognizedWireType creates an error for a tag whose low bits name no wire type
func UnrecognizedWireType(offset uint64, tag uint64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnrecognizedWireType,
		Offset: int64(offset),
		Detail: fmt.Sprintf("wire type %d in tag 0x%x (field %d)", tag&7, tag, tag>>3),
		Value:  tag,
	}
}

// DuplicateOwnership creates an error for an id resolved by two exclusive references
func DuplicateOwnership(id uint32) *Error {
	return &Error{
		Phase:  PhaseOwnership,
		Kind:   KindDuplicateOwnership,
		Detail: fmt.Sprintf("object %d mapped into two distinct exclusive references", id),
		Value:  id,
	}
}

// OwnershipContract creates an error for an owner-less read that left owned objects behind
func OwnershipContract(freed int) *Error {
	return &Error{
		Phase: PhaseOwnership,
		Kind:  KindOwnershipContract,
		Detail: fmt.Sprintf("deserialization performed on a stream whose referenced types are not "+
			"completely self-managing (%d objects freed)", freed),
		Value: freed,
	}
}

// Limit creates an error for a configured limit being exceeded
func Limit(phase Phase, what string, value, max uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLimit,
		Detail: fmt.Sprintf("%s %d exceeds limit %d", what, value, max),
		Value:  value,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Detail: detail,
	}
}

// Unsupported creates an error for a Go type with no wire representation
func Unsupported(phase Phase, path []string, goType, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: what,
	}
}

// NotFound creates a lookup failure error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
