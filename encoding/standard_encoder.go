package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/pool"
	"github.com/arloliu/annot/section"
)

// WriteState is the part of an output stream's history the standard encoder depends
// on: the time, channel and num of the last record written. Times are in the stream's
// on-disk unit.
type WriteState struct {
	Time int64
	Chan uint8
	Num  int8
}

// EncodeOps translates one annotation into the op sequence of the standard format and
// advances st. On error st is left unchanged.
//
// The interval from st.Time is carried by the code word when it fits 0..MaxDelta.
// Otherwise a TimeExtension op carries the exact interval and the code word carries 0.
// An annotation of type 0 always uses the extension with interval-1 followed by a code
// word with interval 1: a code word with type 0 and interval 0 would be the
// end-of-stream sentinel.
//
// Parameters:
//   - a: Annotation to encode; a.Time must already be in on-disk units
//   - st: Write state of the stream, updated on success
//
// Returns:
//   - []Op: Ops in wire order
//   - error: ErrIllegalCode, ErrAuxTooLong or ErrTimeOutOfRange
func EncodeOps(a format.Annotation, st *WriteState) ([]Op, error) {
	if a.Type > codes.MaxCode {
		return nil, fmt.Errorf("annotation type %d: %w", a.Type, errs.ErrIllegalCode)
	}
	if len(a.Aux) > section.MaxAuxLen {
		return nil, fmt.Errorf("%d bytes: %w", len(a.Aux), errs.ErrAuxTooLong)
	}

	delta := a.Time - st.Time
	ops := make([]Op, 0, 6)

	switch {
	case a.Type == codes.NOTQRS:
		skip := delta - 1
		if skip < math.MinInt32 || skip > math.MaxInt32 {
			return nil, fmt.Errorf("interval %d: %w", delta, errs.ErrTimeOutOfRange)
		}
		ops = append(ops, Op{Kind: OpTimeExtension, Skip: int32(skip)})
		delta = 1
	case delta < 0 || delta > section.MaxDelta:
		if delta < math.MinInt32 || delta > math.MaxInt32 {
			return nil, fmt.Errorf("interval %d: %w", delta, errs.ErrTimeOutOfRange)
		}
		ops = append(ops, Op{Kind: OpTimeExtension, Skip: int32(delta)})
		delta = 0
	}

	ops = append(ops, Op{Kind: OpEvent, Type: a.Type, Data: uint16(delta)}) //nolint:gosec

	if a.Subtype != 0 {
		ops = append(ops, Op{Kind: OpSetSubtype, Data: signedField(a.Subtype)})
	}
	if a.Chan != st.Chan {
		ops = append(ops, Op{Kind: OpSetChannel, Data: uint16(a.Chan)})
	}
	if a.Num != st.Num {
		ops = append(ops, Op{Kind: OpSetNum, Data: signedField(a.Num)})
	}
	if len(a.Aux) > 0 {
		ops = append(ops, Op{Kind: OpSetAux, Aux: a.Aux})
	}

	st.Time = a.Time
	st.Chan = a.Chan
	st.Num = a.Num

	return ops, nil
}

// AppendStandard encodes a into the standard format and appends it to dst.
func AppendStandard(dst []byte, a format.Annotation, st *WriteState) ([]byte, error) {
	ops, err := EncodeOps(a, st)
	if err != nil {
		return dst, err
	}
	for _, op := range ops {
		dst = op.Append(dst)
	}

	return dst, nil
}

// AppendStandardEOF appends the end-of-stream sentinel.
func AppendStandardEOF(dst []byte) []byte {
	return section.EOFWord.Append(dst)
}

// StandardEncoder accumulates standard-format records in a pooled buffer.
//
// The owner drains the buffer with Bytes and Truncate after each record and calls
// Finish when the stream is closed.
//
// Note: The StandardEncoder is NOT thread-safe.
type StandardEncoder struct {
	state WriteState
	buf   *pool.ByteBuffer
	count int
}

var _ RecordEncoder = (*StandardEncoder)(nil)

// NewStandardEncoder creates an encoder for a fresh stream.
func NewStandardEncoder() *StandardEncoder {
	return &StandardEncoder{buf: pool.GetRecordBuffer()}
}

// Write encodes one annotation (time in on-disk units).
func (e *StandardEncoder) Write(a format.Annotation) error {
	out, err := AppendStandard(e.buf.B, a, &e.state)
	if err != nil {
		return err
	}
	e.buf.B = out
	e.count++

	return nil
}

// WriteEOF appends the end-of-stream sentinel.
func (e *StandardEncoder) WriteEOF() {
	e.buf.B = AppendStandardEOF(e.buf.B)
}

// State returns the write state after the last successful Write.
func (e *StandardEncoder) State() WriteState {
	return e.state
}

// Bytes returns the encoded bytes not yet truncated.
// The returned slice is valid until the next call to Write or Truncate.
func (e *StandardEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of records encoded.
func (e *StandardEncoder) Len() int {
	return e.count
}

// Size returns the number of pending bytes.
func (e *StandardEncoder) Size() int {
	return e.buf.Len()
}

// Truncate discards pending bytes but keeps the write state.
func (e *StandardEncoder) Truncate() {
	e.buf.Reset()
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *StandardEncoder) Finish() {
	if e.buf != nil {
		pool.PutRecordBuffer(e.buf)
		e.buf = nil
	}
}
