package encoding

import (
	"errors"
	"io"
	"iter"

	"github.com/arloliu/annot/format"
)

// RecordEncoder encodes annotations of one output stream into its wire format.
type RecordEncoder interface {
	// Write encodes a single annotation. Its time must already be in on-disk units.
	//
	// A failed Write leaves the encoder state and the pending bytes unchanged.
	Write(a format.Annotation) error

	// WriteEOF appends the end-of-stream marker of the wire format.
	WriteEOF()

	// Bytes returns the encoded bytes not yet truncated.
	// The returned slice is valid until the next call to Write, WriteEOF or Truncate.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of annotations encoded since the encoder was created.
	Len() int

	// Size returns the number of pending bytes.
	Size() int

	// Truncate drops the pending bytes once the caller has written them out.
	// The encoder state (last time, channel, serial number) is kept.
	Truncate()

	// Finish returns buffer resources to the pool.
	//
	// After calling Finish(), the encoder is no longer usable. Use defer to ensure
	// it's called even in error paths:
	//
	//	enc := NewStandardEncoder()
	//	defer enc.Finish()
	Finish()
}

// RecordDecoder decodes annotations of one input stream.
type RecordDecoder interface {
	// Next decodes the next annotation. Times are in on-disk units.
	//
	// Next returns io.EOF once the end-of-stream marker is reached and
	// errs.ErrUnexpectedEOF when the underlying reader ends before it.
	Next() (format.Annotation, error)

	// Format returns the wire format the decoder reads.
	Format() format.WireFormat
}

// All returns an iterator over the remaining annotations of d.
//
// Iteration stops after the end-of-stream marker. Any other error is yielded once
// together with a zero annotation, and iteration stops.
func All(d RecordDecoder) iter.Seq2[format.Annotation, error] {
	return func(yield func(format.Annotation, error) bool) {
		for {
			a, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(a, err) || err != nil {
				return
			}
		}
	}
}
