package encoding

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/annot/endian"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/section"
)

// StandardDecoder assembles standard-format ops into annotations.
//
// The decoder keeps the code word of the next record pending. A call to Next applies
// the pending word, then consumes the pseudo ops that follow it until the next code
// word, which becomes pending for the following call. Channel and num carry over
// from one record to the next.
//
// Note: The StandardDecoder is NOT thread-safe.
type StandardDecoder struct {
	r       io.Reader
	pending section.Word
	time    int64 // running time accumulator
	chn     uint8
	num     int8
	eof     bool  // sentinel reached
	trunc   bool  // reader ended before the sentinel
	err     error // reader failure, returned by every later call
	scratch [section.SkipSize]byte
}

var _ RecordDecoder = (*StandardDecoder)(nil)

// NewStandardDecoder creates a decoder reading from r. first is the stream's first
// word, already consumed from r by format detection.
func NewStandardDecoder(r io.Reader, first section.Word) *StandardDecoder {
	return &StandardDecoder{r: r, pending: first}
}

// Format returns format.Standard.
func (d *StandardDecoder) Format() format.WireFormat {
	return format.Standard
}

// Truncated reports whether the reader ended before the end-of-stream sentinel.
func (d *StandardDecoder) Truncated() bool {
	return d.trunc
}

// Next decodes the next annotation.
//
// Returns:
//   - format.Annotation: Decoded annotation with a freshly allocated Aux
//   - error: io.EOF at the sentinel, errs.ErrUnexpectedEOF if the reader ended first,
//     or the reader's error, which is sticky
func (d *StandardDecoder) Next() (format.Annotation, error) {
	if d.eof {
		return format.Annotation{}, io.EOF
	}
	if d.err != nil {
		return format.Annotation{}, d.err
	}
	if d.trunc {
		return format.Annotation{}, errs.ErrUnexpectedEOF
	}

	// pseudo words ahead of a code word: leading time skips, or inherited fields
	// preceding the first record
	for d.pending.IsPseudo() {
		op, err := d.readPayload(d.pending)
		if err != nil {
			return format.Annotation{}, err
		}
		d.applyInherited(op)
		if err := d.advance(); err != nil {
			return format.Annotation{}, err
		}
		if d.trunc {
			return format.Annotation{}, errs.ErrUnexpectedEOF
		}
	}

	if d.pending == section.EOFWord {
		d.eof = true
		return format.Annotation{}, io.EOF
	}

	d.time += int64(d.pending.Data())
	a := format.Annotation{
		Time: d.time,
		Type: d.pending.Code(),
		Chan: d.chn,
		Num:  d.num,
	}

	for {
		if err := d.advance(); err != nil {
			return format.Annotation{}, err
		}
		// the record is complete; the next call reports the truncation
		if d.trunc || !d.pending.IsPseudo() {
			return a, nil
		}

		op, err := d.readPayload(d.pending)
		if err != nil {
			// a time extension leads the next record, so this one is complete
			if d.trunc && op.Kind == OpTimeExtension {
				return a, nil
			}

			return format.Annotation{}, err
		}
		switch op.Kind {
		case OpSetSubtype:
			a.Subtype = fieldInt8(op.Data)
		case OpSetAux:
			a.Aux = op.Aux
		default:
			d.applyInherited(op)
			a.Chan = d.chn
			a.Num = d.num
		}
	}
}

// applyInherited applies ops that change decoder state rather than the record.
func (d *StandardDecoder) applyInherited(op Op) {
	switch op.Kind {
	case OpTimeExtension:
		d.time += int64(op.Skip)
	case OpSetChannel:
		d.chn = uint8(op.Data) //nolint:gosec
	case OpSetNum:
		d.num = fieldInt8(op.Data)
	default:
	}
}

// advance reads the next word into pending. A clean end of the reader sets trunc.
func (d *StandardDecoder) advance() error {
	_, err := io.ReadFull(d.r, d.scratch[:section.WordSize])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			d.trunc = true
			return nil
		}

		d.err = fmt.Errorf("read annotation word: %w", err)

		return d.err
	}
	d.pending = section.ParseWord(d.scratch[:])

	return nil
}

// readPayload builds the op introduced by pseudo word w, reading its payload.
func (d *StandardDecoder) readPayload(w section.Word) (Op, error) {
	op, n := pseudoOp(w)
	if n == 0 {
		return op, nil
	}

	var buf []byte
	if op.Kind == OpTimeExtension {
		buf = d.scratch[:n]
	} else {
		buf = make([]byte, n)
	}
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			d.trunc = true
			return op, fmt.Errorf("%s payload: %w", op.Kind, errs.ErrUnexpectedEOF)
		}

		d.err = fmt.Errorf("read %s payload: %w", op.Kind, err)

		return op, d.err
	}

	if op.Kind == OpTimeExtension {
		op.Skip = endian.PDP32(buf)
	} else {
		op.Aux = buf[:w.AuxLen()]
	}

	return op, nil
}

// pseudoOp maps a pseudo word to its op and returns the payload size that follows
// the word on the wire.
func pseudoOp(w section.Word) (Op, int) {
	switch w.Code() {
	case section.CodeSkip:
		return Op{Kind: OpTimeExtension}, section.SkipSize
	case section.CodeSub:
		return Op{Kind: OpSetSubtype, Data: w.Data()}, 0
	case section.CodeChan:
		return Op{Kind: OpSetChannel, Data: w.Data()}, 0
	case section.CodeNum:
		return Op{Kind: OpSetNum, Data: w.Data()}, 0
	default: // section.CodeAux
		n := w.AuxLen()
		return Op{Kind: OpSetAux}, n + n&1
	}
}

// ParseOps splits an in-memory standard-format stream into ops, up to and including
// the end-of-stream sentinel, which is returned as an OpEvent with Type 0 and Data 0.
//
// ParseOps is a debugging aid: it performs no record assembly and keeps no state.
func ParseOps(data []byte) ([]Op, error) {
	ops := make([]Op, 0, len(data)/section.WordSize)
	for off := 0; off < len(data); {
		if len(data)-off < section.WordSize {
			return ops, fmt.Errorf("word at offset %d: %w", off, errs.ErrUnexpectedEOF)
		}
		w := section.ParseWord(data[off:])
		off += section.WordSize

		if !w.IsPseudo() {
			ops = append(ops, Op{Kind: OpEvent, Type: w.Code(), Data: w.Data()})
			if w == section.EOFWord {
				return ops, nil
			}

			continue
		}

		op, n := pseudoOp(w)
		if len(data)-off < n {
			return ops, fmt.Errorf("%s payload at offset %d: %w", op.Kind, off, errs.ErrUnexpectedEOF)
		}
		switch op.Kind {
		case OpTimeExtension:
			op.Skip = endian.PDP32(data[off:])
		case OpSetAux:
			op.Aux = append([]byte(nil), data[off:off+w.AuxLen()]...)
		default:
		}
		off += n
		ops = append(ops, op)
	}

	return ops, nil
}
