// Package annot reads and writes annotation streams: time-ordered sequences of typed
// point events (beat labels, rhythm changes, comments) attached to long physiological
// recordings.
//
// Two on-disk wire formats are supported and detected automatically on input:
//
//   - Standard: variable-length 16-bit words with delta times and pseudo-tag escapes
//   - Alternate: fixed 16-byte records padded to 1024-byte blocks
//
// # Core Features
//
//   - Several input and output annotators per record, referred to by handles
//   - One-event pushback per input
//   - Custom type-code mnemonics carried in-band as modification labels
//   - Out-of-order detection on write, with automatic reordering at close
//   - Local, in-memory, compressed (zstd, s2, lz4) and HTTP transports
//
// # Basic Usage
//
// Writing an annotation file:
//
//	import "github.com/arloliu/annot"
//
//	s, _ := annot.NewSession("100", session.WithTransport(transport.NewFiles("/data")))
//	hs, _ := s.Open(annot.Output("qrs"))
//	_ = s.Write(hs[0], annot.Annotation{Time: 1200, Type: codes.NORMAL})
//	_ = s.CloseAll(ctx)
//
// Reading it back:
//
//	hs, _ := s.Open(annot.Input("qrs"))
//	for a, err := range annot.All(s, hs[0]) {
//	    ...
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the session package.
// For finer control use session, stream, encoding and transport directly.
package annot

import (
	"errors"
	"io"
	"iter"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/hash"
	"github.com/arloliu/annot/session"
)

// Annotation is one point event of an annotation stream.
type Annotation = format.Annotation

// NewSession creates a session for record.
//
// Without options the session uses the default configuration (search path ".",
// two inputs and two outputs, automatic sorting with sortann), the process-wide
// code table and a logger that discards everything.
//
// Parameters:
//   - record: Record name
//   - opts: Session options (session.WithConfig, session.WithTransport, ...)
//
// Returns:
//   - *session.Session: The created session
//   - error: An error if the record name or an option is invalid
//
// Example:
//
//	s, err := annot.NewSession("100", session.WithTimeScale(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewSession(record string, opts ...session.Option) (*session.Session, error) {
	return session.New(record, opts...)
}

// DefaultTable returns the process-wide type-code table.
//
// Sessions created without session.WithTable import labels into and export labels
// from this table.
func DefaultTable() *codes.Table {
	return codes.Default()
}

// Input describes an input annotator whose format is detected on open.
func Input(annotator string) format.StreamSpec {
	return format.StreamSpec{Name: annotator, Mode: format.Read}
}

// Output describes an output annotator written in the standard format.
func Output(annotator string) format.StreamSpec {
	return format.StreamSpec{Name: annotator, Mode: format.Write, Format: format.Standard}
}

// AlternateOutput describes an output annotator written in the alternate format.
func AlternateOutput(annotator string) format.StreamSpec {
	return format.StreamSpec{Name: annotator, Mode: format.Write, Format: format.Alternate}
}

// All iterates over the remaining annotations of the input h.
//
// Iteration stops at the end of the stream. Any other error is yielded once and ends
// the iteration.
//
// Example:
//
//	for a, err := range annot.All(s, h) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(a.Time, s.Table().Mnemonic(int(a.Type)))
//	}
func All(s *session.Session, h session.Handle) iter.Seq2[Annotation, error] {
	return func(yield func(Annotation, error) bool) {
		for {
			a, err := s.Read(h)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Annotation{}, err)
				return
			}
			if !yield(a, nil) {
				return
			}
		}
	}
}

// StreamID computes the 64-bit identifier of the annotation file of record and
// annotator. It equals Session.StreamKey for a handle of that file.
func StreamID(record, annotator string) uint64 {
	return hash.StreamKey(record, annotator)
}
