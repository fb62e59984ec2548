package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/pool"
	"github.com/arloliu/annot/section"
)

// AppendAlternate encodes a as a 16-byte alternate-format record and appends it to dst.
//
// The type is mapped to its legacy tag. Aux bytes beyond the fixed 6-byte field are
// dropped, and num is not represented.
//
// Parameters:
//   - dst: Destination buffer
//   - a: Annotation with an absolute time in on-disk units
//   - serial: Serial number of the record, starting at 1
//
// Returns:
//   - []byte: dst with the record appended
//   - error: ErrIllegalCode, or ErrTimeOutOfRange if the time does not fit 32 bits
func AppendAlternate(dst []byte, a format.Annotation, serial uint16) ([]byte, error) {
	if a.Type > codes.MaxCode {
		return dst, fmt.Errorf("annotation type %d: %w", a.Type, errs.ErrIllegalCode)
	}
	if a.Time < math.MinInt32 || a.Time > math.MaxInt32 {
		return dst, fmt.Errorf("time %d: %w", a.Time, errs.ErrTimeOutOfRange)
	}

	rec := section.AltRecord{
		Tag:     codes.ToLegacy(a.Type, a.Subtype),
		Time:    int32(a.Time),
		Serial:  serial,
		Subtype: a.Subtype,
		Chan:    a.Chan,
	}
	copy(rec.Aux[:], a.Aux)

	return rec.Append(dst), nil
}

// DecodeAlternate converts a parsed alternate-format record into an annotation.
//
// Unknown legacy tags decode as NOTQRS. A noise tag with subtype 0 decodes with
// subtype -1, the "unreadable" convention. Trailing NUL bytes of the aux field are
// dropped.
func DecodeAlternate(rec *section.AltRecord) format.Annotation {
	code, ok := codes.FromLegacy(rec.Tag)
	if !ok {
		code = codes.NOTQRS
	}

	a := format.Annotation{
		Time:    int64(rec.Time),
		Type:    code,
		Subtype: rec.Subtype,
		Chan:    rec.Chan,
	}
	if rec.Tag == codes.LegacyNoise && a.Subtype == 0 {
		a.Subtype = -1
	}
	if rec.HasAux() {
		a.Aux = bytes.Clone(bytes.TrimRight(rec.Aux[:], "\x00"))
	}

	return a
}

// AlternateEncoder accumulates alternate-format records in a pooled buffer.
//
// Note: The AlternateEncoder is NOT thread-safe.
type AlternateEncoder struct {
	serial  uint16 // serial number of the last record written
	written int64  // bytes produced so far, including truncated ones
	buf     *pool.ByteBuffer
	count   int
}

var _ RecordEncoder = (*AlternateEncoder)(nil)

// NewAlternateEncoder creates an encoder for a fresh stream.
func NewAlternateEncoder() *AlternateEncoder {
	return &AlternateEncoder{buf: pool.GetRecordBuffer()}
}

// Write encodes one annotation with the next serial number.
func (e *AlternateEncoder) Write(a format.Annotation) error {
	out, err := AppendAlternate(e.buf.B, a, e.serial+1)
	if err != nil {
		return err
	}
	e.buf.B = out
	e.serial++
	e.written += section.AltRecSize
	e.count++

	return nil
}

// WriteEOF pads the stream with filler bytes up to the next block boundary. A stream
// already on a boundary receives a whole block of filler.
func (e *AlternateEncoder) WriteEOF() {
	n := section.AltPadding(e.written)
	for range n {
		e.buf.B = append(e.buf.B, section.AltFiller)
	}
	e.written += int64(n)
}

// Serial returns the serial number of the last record written.
func (e *AlternateEncoder) Serial() uint16 {
	return e.serial
}

func (e *AlternateEncoder) Bytes() []byte { return e.buf.Bytes() }
func (e *AlternateEncoder) Len() int      { return e.count }
func (e *AlternateEncoder) Size() int     { return e.buf.Len() }
func (e *AlternateEncoder) Truncate()     { e.buf.Reset() }

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *AlternateEncoder) Finish() {
	if e.buf != nil {
		pool.PutRecordBuffer(e.buf)
		e.buf = nil
	}
}

// SerialFunc is called when a record's serial number is not the successor of the
// previous one. The record is still delivered.
type SerialFunc func(want, got uint16)

// AlternateDecoder reads 16-byte alternate-format records.
//
// Note: The AlternateDecoder is NOT thread-safe.
type AlternateDecoder struct {
	r        io.Reader
	first    [section.WordSize]byte
	started  bool
	serial   uint16
	onSerial SerialFunc
	eof      bool
	trunc    bool
	err      error
	buf      [section.AltRecSize]byte
}

var _ RecordDecoder = (*AlternateDecoder)(nil)

// NewAlternateDecoder creates a decoder reading from r. first holds the stream's
// first two bytes, already consumed from r by format detection.
func NewAlternateDecoder(r io.Reader, first section.Word) *AlternateDecoder {
	d := &AlternateDecoder{r: r}
	copy(d.first[:], first.Append(nil))

	return d
}

// OnSerialMismatch installs fn as the serial-number check callback.
func (d *AlternateDecoder) OnSerialMismatch(fn SerialFunc) {
	d.onSerial = fn
}

// Format returns format.Alternate.
func (d *AlternateDecoder) Format() format.WireFormat {
	return format.Alternate
}

// Truncated reports whether the reader ended before the filler.
func (d *AlternateDecoder) Truncated() bool {
	return d.trunc
}

// LastSerial returns the serial number of the last record decoded.
func (d *AlternateDecoder) LastSerial() uint16 {
	return d.serial
}

// Next decodes the next record.
//
// Returns:
//   - format.Annotation: Decoded annotation
//   - error: io.EOF at the filler, errs.ErrUnexpectedEOF if the reader ended first
func (d *AlternateDecoder) Next() (format.Annotation, error) {
	if d.eof {
		return format.Annotation{}, io.EOF
	}
	if d.trunc {
		return format.Annotation{}, errs.ErrUnexpectedEOF
	}
	if d.err != nil {
		return format.Annotation{}, d.err
	}

	rec := d.buf[:]
	if !d.started {
		d.started = true
		copy(rec, d.first[:])
		rec = rec[section.WordSize:]
	}

	n, err := io.ReadFull(d.r, rec)
	if err != nil {
		// a filler byte in the first position ends the stream even if the block is short
		if n > 0 && len(rec) == section.AltRecSize && section.IsAltEOF(rec[0]) {
			d.eof = true
			return format.Annotation{}, io.EOF
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			d.trunc = true
			return format.Annotation{}, errs.ErrUnexpectedEOF
		}

		// a partial record leaves the reader misaligned
		d.err = fmt.Errorf("read alternate record: %w", err)

		return format.Annotation{}, d.err
	}

	if section.IsAltEOF(d.buf[0]) {
		d.eof = true
		return format.Annotation{}, io.EOF
	}

	var ar section.AltRecord
	if err := ar.Parse(d.buf[:]); err != nil {
		return format.Annotation{}, err
	}
	if ar.Serial != d.serial+1 && d.onSerial != nil {
		d.onSerial(d.serial+1, ar.Serial)
	}
	d.serial = ar.Serial

	return DecodeAlternate(&ar), nil
}
