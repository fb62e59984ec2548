package stream

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/annot/encoding"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/internal/options"
	"github.com/arloliu/annot/transport"
)

// OutputStream encodes annotations into one transport handle.
type OutputStream struct {
	name   string
	handle transport.Handle
	enc    encoding.RecordEncoder
	format format.WireFormat
	state  State
	scale  int64
	logger *slog.Logger

	written    bool
	lastTime   int64 // on-disk units
	lastChan   uint8
	outOfOrder bool
}

// OpenOutput starts encoding into h with the given wire format. The stream takes
// ownership of h.
func OpenOutput(h transport.Handle, f format.WireFormat, opts ...Option) (*OutputStream, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		_ = h.Close()
		return nil, err
	}

	s := &OutputStream{
		name:   h.Name(),
		handle: h,
		format: f,
		state:  Active,
		scale:  cfg.scale,
		logger: cfg.logger.With(logging.String(logging.FieldStream, h.Name())),
	}

	switch f {
	case format.Standard:
		s.enc = encoding.NewStandardEncoder()
	case format.Alternate:
		s.enc = encoding.NewAlternateEncoder()
	default:
		_ = h.Close()
		return nil, fmt.Errorf("open %s: wire format %d: %w", s.name, f, errs.ErrInvalidConfig)
	}

	return s, nil
}

// Name returns the name of the underlying handle.
func (s *OutputStream) Name() string { return s.name }

// Format returns the wire format being written.
func (s *OutputStream) Format() format.WireFormat { return s.format }

// State returns Active or Closed.
func (s *OutputStream) State() State { return s.state }

// OutOfOrder reports whether any annotation was written out of canonical order.
func (s *OutputStream) OutOfOrder() bool { return s.outOfOrder }

// ClearOutOfOrder resets the ordering flag once the file has been reordered.
func (s *OutputStream) ClearOutOfOrder() { s.outOfOrder = false }

// Count returns the number of annotations written.
func (s *OutputStream) Count() int {
	if s.enc == nil {
		return 0
	}

	return s.enc.Len()
}

// Write encodes a and writes it to the transport.
//
// The annotation key (time, channel) is compared with the previous one. A key that is
// not strictly greater sets the out-of-order flag, except on the first write and when
// both times are 0 (modification labels). The write succeeds either way.
//
// Returns:
//   - error: ErrStreamClosed, an encoding error (ErrIllegalCode, ErrAuxTooLong,
//     ErrTimeOutOfRange) or a transport write error
func (s *OutputStream) Write(a format.Annotation) error {
	if s.state == Closed {
		return fmt.Errorf("write %s: %w", s.name, errs.ErrStreamClosed)
	}

	a.Time /= s.scale
	if err := s.enc.Write(a); err != nil {
		return fmt.Errorf("write %s at %d: %w", s.name, a.Time, err)
	}

	if s.written && !(s.lastTime == 0 && a.Time == 0) && !s.greater(a) {
		s.outOfOrder = true
	}
	s.written = true
	s.lastTime = a.Time
	s.lastChan = a.Chan

	return s.drain()
}

// greater reports whether a's key is strictly greater than the last written key.
func (s *OutputStream) greater(a format.Annotation) bool {
	if a.Time != s.lastTime {
		return a.Time > s.lastTime
	}

	return a.Chan > s.lastChan
}

// drain writes the pending encoder bytes to the transport.
func (s *OutputStream) drain() error {
	if s.enc.Size() == 0 {
		return nil
	}
	_, err := s.handle.Write(s.enc.Bytes())
	s.enc.Truncate()
	if err != nil {
		return fmt.Errorf("write %s: %w", s.name, err)
	}

	return nil
}

// Flush makes written annotations visible to other readers when the transport
// supports it.
func (s *OutputStream) Flush() error {
	if s.state == Closed {
		return fmt.Errorf("flush %s: %w", s.name, errs.ErrStreamClosed)
	}
	if syncer, ok := s.handle.(transport.Syncer); ok {
		if err := syncer.Sync(); err != nil {
			return fmt.Errorf("flush %s: %w", s.name, err)
		}
	}

	return nil
}

// Close writes the end-of-stream marker (standard format) or the block padding
// (alternate format) and releases the handle. The handle is released even if the
// final write fails. Closing twice is a no-op.
func (s *OutputStream) Close() error {
	if s.state == Closed {
		return nil
	}
	s.state = Closed

	s.enc.WriteEOF()
	werr := s.drain()
	s.enc.Finish()

	var cerr error
	if err := s.handle.Close(); err != nil {
		cerr = fmt.Errorf("close %s: %w", s.name, err)
	}

	return errors.Join(werr, cerr)
}
