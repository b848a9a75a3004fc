package archive

import (
	"encoding/binary"
	stderrors "errors"
	"io"
	"math"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/graphwire"
	"github.com/wippyai/graphwire/errors"
	"github.com/wippyai/graphwire/wire"
)

// Archive decodes object graphs from one Source. It is not safe for
// concurrent use; decode concurrently with one Archive per source.
type Archive struct {
	src   graphwire.Source
	table *ObjectTable
	log   *zap.Logger
	cfg   config
	count uint64
	buf   [8]byte
}

// New creates an Archive reading from src.
func New(src graphwire.Source, opts ...Option) *Archive {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger
	if log == nil {
		log = Logger()
	}
	table := NewObjectTable()
	table.maxObjects = cfg.maxObjects
	return &Archive{
		src:   src,
		table: table,
		log:   log,
		cfg:   cfg,
	}
}

// Count returns the number of bytes consumed from the source so far.
func (a *Archive) Count() uint64 {
	return a.count
}

// Remaining reports how many bytes the source has left, when it knows.
func (a *Archive) Remaining() (uint64, bool) {
	if s, ok := a.src.(graphwire.Sizer); ok {
		return s.Remaining(), true
	}
	return 0, false
}

// Table returns the object table of the read in progress.
func (a *Archive) Table() *ObjectTable {
	return a.table
}

// ReadObject decodes the next record of the stream into obj, along with every
// object it references.
//
// Objects still owned by the decoder at the end are handed to owner. With a
// nil owner the stream must not leave any: they are released and the read
// fails with an ownership contract error. On any failure every owned object
// is released before returning.
func (a *Archive) ReadObject(dec FieldDecoder, obj unsafe.Pointer, owner *Owner) error {
	if dec == nil || obj == nil {
		return errors.NilPointer(errors.PhaseDecode, nil, "root")
	}

	start := a.count
	a.table.reset()
	a.table.Seed(dec, obj)

	objects, err := a.process()
	if err != nil {
		a.table.ForceFreeAll()
		return err
	}

	if owner == nil {
		if n := a.table.ForceFreeAll(); n != 0 {
			return errors.OwnershipContract(n)
		}
		a.log.Debug("object graph decoded",
			zap.Int("objects", objects),
			zap.Uint64("bytes", a.count-start))
		return nil
	}

	transferred := a.table.Transfer(owner)
	a.log.Debug("object graph decoded",
		zap.Int("objects", objects),
		zap.Uint64("bytes", a.count-start),
		zap.Int("transferred", transferred))
	return nil
}

// process drains the work queue. Decoders may enqueue more work while running.
func (a *Archive) process() (int, error) {
	n := 0
	for {
		t, ok := a.table.work.pop()
		if !ok {
			return n, nil
		}
		tag, err := a.ReadTag()
		if err != nil {
			return n, err
		}
		ncb, err := a.RecordLength(tag)
		if err != nil {
			return n, err
		}
		if err := t.decoder.Decode(a, t.obj, ncb); err != nil {
			return n, err
		}
		n++
	}
}

// RecordLength returns the payload size announced by tag, reading the length
// prefix of length-delimited records.
func (a *Archive) RecordLength(tag wire.Tag) (uint64, error) {
	switch tag.Type() {
	case wire.Fixed32:
		return 4, nil
	case wire.Fixed64:
		return 8, nil
	case wire.Bytes:
		return a.ReadInteger()
	case wire.Varint, wire.Ignored:
		return 0, nil
	default:
		return 0, errors.UnrecognizedWireType(a.count, uint64(tag))
	}
}

// checkLength rejects a record length the source cannot supply.
func (a *Archive) checkLength(ncb uint64) error {
	rem, known := a.Remaining()
	switch {
	case known && ncb > rem:
		return errors.EndOfStream(a.count, ncb, rem, io.ErrUnexpectedEOF)
	case ncb > math.MaxUint64-a.count:
		return errors.EndOfStream(a.count, ncb, 0, io.ErrUnexpectedEOF)
	}
	return nil
}

// ReadByteArray fills p from the source.
func (a *Archive) ReadByteArray(p []byte) error {
	n, err := io.ReadFull(a.src, p)
	a.count += uint64(n)
	if err != nil {
		return errors.EndOfStream(a.count, uint64(len(p)), uint64(n), err)
	}
	return nil
}

// ReadByte implements io.ByteReader.
func (a *Archive) ReadByte() (byte, error) {
	if err := a.ReadByteArray(a.buf[:1]); err != nil {
		return 0, err
	}
	return a.buf[0], nil
}

// ReadInteger reads one varint.
func (a *Archive) ReadInteger() (uint64, error) {
	start := a.count
	v, err := wire.ReadVarint(a)
	if err != nil {
		if stderrors.Is(err, wire.ErrOverflow) {
			return 0, errors.MalformedVarint(start, err)
		}
		return 0, err
	}
	return v, nil
}

// ReadTag reads one record tag.
func (a *Archive) ReadTag() (wire.Tag, error) {
	v, err := a.ReadInteger()
	return wire.Tag(v), err
}

// ReadBool reads a single raw byte; any non-zero value is true.
func (a *Archive) ReadBool() (bool, error) {
	b, err := a.ReadByte()
	return b != 0, err
}

// ReadFixed32 reads 4 little-endian bytes.
func (a *Archive) ReadFixed32() (uint32, error) {
	if err := a.ReadByteArray(a.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(a.buf[:4]), nil
}

// ReadFixed64 reads 8 little-endian bytes.
func (a *Archive) ReadFixed64() (uint64, error) {
	if err := a.ReadByteArray(a.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(a.buf[:8]), nil
}

// Skip discards n bytes. Skipped bytes count toward Count.
func (a *Archive) Skip(n uint64) error {
	if n == 0 {
		return nil
	}
	got, err := a.src.Skip(n)
	a.count += got
	if got < n {
		return errors.EndOfStream(a.count, n, got, err)
	}
	return nil
}
