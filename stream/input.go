package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/arloliu/annot/encoding"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/internal/options"
	"github.com/arloliu/annot/section"
	"github.com/arloliu/annot/transport"
)

// State is the position of a stream in its lifecycle.
type State uint8

const (
	Active       State = iota + 1 // reading or writing
	LogicalEOF                    // end-of-stream marker seen
	PrematureEOF                  // transport ended before the end-of-stream marker
	Closed                        // handle released
)

func (s State) String() string {
	switch s {
	case Active:
		return "Active"
	case LogicalEOF:
		return "LogicalEOF"
	case PrematureEOF:
		return "PrematureEOF"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

const readBufferSize = 4096

// InputStream decodes annotations from one transport handle.
type InputStream struct {
	name   string
	handle transport.Handle
	br     *bufio.Reader
	dec    encoding.RecordDecoder
	format format.WireFormat
	state  State
	scale  int64
	logger *slog.Logger

	staged   format.Annotation
	hasStage bool

	decoded int   // annotations taken from the decoder since the last rewind
	header  int   // annotations to skip after a rewind
	last    int64 // time of the last decoded annotation, caller units
}

// OpenInput starts decoding h. The stream takes ownership of h.
//
// The wire format is detected from the first word. An empty file opens in the
// PrematureEOF state, so every Read reports errs.ErrUnexpectedEOF.
func OpenInput(h transport.Handle, opts ...Option) (*InputStream, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		_ = h.Close()
		return nil, err
	}

	s := &InputStream{
		name:   h.Name(),
		handle: h,
		br:     bufio.NewReaderSize(h, readBufferSize),
		scale:  cfg.scale,
		logger: cfg.logger.With(logging.String(logging.FieldStream, h.Name())),
	}
	if err := s.start(); err != nil {
		_ = h.Close()
		return nil, err
	}

	if cfg.expected != 0 && s.state == Active && cfg.expected != s.format {
		logging.WarnWithContext(s.logger, "annotation file format differs from the requested format",
			"format_mismatch",
			logging.String(logging.FieldFormat, s.format.String()),
			logging.String("requested", cfg.expected.String()),
			logging.String(logging.FieldImpact, "decoding with the detected format"),
		)
	}

	return s, nil
}

// start reads the first word and sets up the decoder for the detected format.
func (s *InputStream) start() error {
	var head [section.WordSize]byte
	if _, err := io.ReadFull(s.br, head[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.state = PrematureEOF
			s.format = format.Standard

			return nil
		}

		return fmt.Errorf("read %s: %w", s.name, err)
	}

	first := section.ParseWord(head[:])
	s.format = encoding.DetectFormat(first)
	s.state = Active

	switch s.format {
	case format.Alternate:
		dec := encoding.NewAlternateDecoder(s.br, first)
		dec.OnSerialMismatch(func(want, got uint16) {
			logging.WarnWithContext(s.logger, "unexpected serial number in annotation file", "serial_mismatch",
				logging.Int("expected", int(want)),
				logging.Int("found", int(got)),
				logging.String(logging.FieldImpact, "annotation delivered as read"),
			)
		})
		s.dec = dec
	default:
		s.dec = encoding.NewStandardDecoder(s.br, first)
	}

	return nil
}

// Name returns the name of the underlying handle.
func (s *InputStream) Name() string { return s.name }

// Format returns the detected wire format.
func (s *InputStream) Format() format.WireFormat { return s.format }

// State returns the current state.
func (s *InputStream) State() State { return s.state }

// Read returns the next annotation: the pushed-back one if any, otherwise the next
// decoded one.
//
// Returns:
//   - format.Annotation: Annotation with its time in caller units
//   - error: io.EOF after the end-of-stream marker, errs.ErrUnexpectedEOF after a
//     truncated file, errs.ErrStreamClosed after Close
func (s *InputStream) Read() (format.Annotation, error) {
	if s.state == Closed {
		return format.Annotation{}, fmt.Errorf("read %s: %w", s.name, errs.ErrStreamClosed)
	}
	if s.hasStage {
		s.hasStage = false
		a := s.staged
		s.staged = format.Annotation{}

		return a, nil
	}

	return s.next()
}

func (s *InputStream) next() (format.Annotation, error) {
	switch s.state {
	case LogicalEOF:
		return format.Annotation{}, io.EOF
	case PrematureEOF:
		return format.Annotation{}, fmt.Errorf("read %s: %w", s.name, errs.ErrUnexpectedEOF)
	case Closed:
		return format.Annotation{}, fmt.Errorf("read %s: %w", s.name, errs.ErrStreamClosed)
	default:
	}

	a, err := s.dec.Next()
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		s.state = LogicalEOF
		return format.Annotation{}, io.EOF
	case errors.Is(err, errs.ErrUnexpectedEOF):
		s.state = PrematureEOF
		return format.Annotation{}, fmt.Errorf("read %s: %w", s.name, err)
	default:
		return format.Annotation{}, fmt.Errorf("read %s: %w", s.name, err)
	}

	a.Time *= s.scale
	s.decoded++
	s.last = a.Time

	return a, nil
}

// Unread stages a so that the next Read returns it. Only one annotation can be
// staged at a time.
func (s *InputStream) Unread(a format.Annotation) error {
	if s.state == Closed {
		return fmt.Errorf("unread %s: %w", s.name, errs.ErrStreamClosed)
	}
	if s.hasStage {
		return fmt.Errorf("unread %s: %w", s.name, errs.ErrPushbackFull)
	}
	s.staged = a.Clone()
	s.hasStage = true

	return nil
}

// Staged reports whether an annotation is pushed back.
func (s *InputStream) Staged() bool { return s.hasStage }

// SetHeader marks the first n annotations of the file as header records (such as
// modification labels) that a rewind skips.
func (s *InputStream) SetHeader(n int) {
	s.header = n
}

// Decoded returns the number of annotations taken from the file since it was opened
// or last rewound.
func (s *InputStream) Decoded() int { return s.decoded }

// SeekTime positions the stream so that the next Read returns the first annotation
// at or after time t (caller units). A negative t is taken as its absolute value.
//
// Seeking backwards rewinds the transport and decodes the file again from the start.
// If no annotation is at or after t the stream ends up at its end.
func (s *InputStream) SeekTime(t int64) error {
	if s.state == Closed {
		return fmt.Errorf("seek %s: %w", s.name, errs.ErrStreamClosed)
	}
	if t < 0 {
		t = -t
	}

	if s.hasStage || s.decoded == 0 || s.last >= t || s.state != Active {
		if err := s.rewind(); err != nil {
			return err
		}
	}

	for {
		a, err := s.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if a.Time >= t {
			s.staged = a
			s.hasStage = true

			return nil
		}
	}
}

// rewind restarts decoding from the first byte of the file and skips the header.
func (s *InputStream) rewind() error {
	if _, err := s.handle.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", s.name, err)
	}
	s.br.Reset(s.handle)
	s.hasStage = false
	s.staged = format.Annotation{}
	s.decoded = 0
	s.last = 0

	if err := s.start(); err != nil {
		return err
	}
	for range s.header {
		if _, err := s.next(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}
	}

	return nil
}

// Close releases the transport handle. Closing twice is a no-op.
func (s *InputStream) Close() error {
	if s.state == Closed {
		return nil
	}
	s.state = Closed
	s.hasStage = false
	s.dec = nil

	if err := s.handle.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.name, err)
	}

	return nil
}
