package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/config"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/collision"
	"github.com/arloliu/annot/internal/hash"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/internal/options"
	"github.com/arloliu/annot/remedy"
	"github.com/arloliu/annot/stream"
	"github.com/arloliu/annot/transport"
)

// Handle refers to one open stream of a session. The zero Handle is never valid, and a
// Handle becomes stale once its stream is closed, even if the slot is reused.
type Handle struct {
	slot int
	gen  uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("annotator#%d.%d", h.slot, h.gen)
}

type slot struct {
	gen      uint32
	spec     format.StreamSpec
	key      uint64
	in       *stream.InputStream
	out      *stream.OutputStream
	imported []uint8
}

func (s *slot) open() bool { return s.in != nil || s.out != nil }

// Session multiplexes the annotation streams of one record.
//
// A Session is not safe for concurrent use.
type Session struct {
	id         string
	record     string
	cfg        config.Config
	table      *codes.Table
	transport  transport.Transport
	remediator remedy.Remediator
	scale      int64
	logger     *slog.Logger

	slots      []slot
	writers    *collision.Tracker
	inputs     int
	outputs    int
	unresolved []remedy.Target
}

// New creates a session for record.
//
// Parameters:
//   - record: Record name, made of letters, digits, '_', '~', '-' and '/'
//   - opts: Collaborators and settings (WithConfig, WithTable, WithTransport, ...)
//
// Returns:
//   - *Session: Session with no open streams
//   - error: ErrIllegalName, ErrInvalidConfig or an option error
func New(record string, opts ...Option) (*Session, error) {
	if err := CheckName("record", record); err != nil {
		return nil, err
	}

	st := newSettings()
	if err := options.Apply(st, opts...); err != nil {
		return nil, err
	}
	if err := st.fill(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	return &Session{
		id:         id,
		record:     record,
		cfg:        st.cfg,
		table:      st.table,
		transport:  st.transport,
		remediator: st.remediator,
		scale:      st.scale,
		writers:    collision.NewTracker(),
		logger: logging.NewComponentLogger(st.logger, "session").With(
			logging.String(logging.FieldSessionID, id),
			logging.String(logging.FieldRecord, record),
		),
	}, nil
}

// ID returns the unique session identifier used in log records.
func (s *Session) ID() string { return s.id }

// Record returns the record name.
func (s *Session) Record() string { return s.record }

// Table returns the type-code table of the session.
func (s *Session) Table() *codes.Table { return s.table }

// Inputs returns the number of open input streams.
func (s *Session) Inputs() int { return s.inputs }

// Outputs returns the number of open output streams.
func (s *Session) Outputs() int { return s.outputs }

// Open opens one stream per StreamSpec and returns their handles in the same order.
//
// Inputs have their wire format detected; a format that differs from spec.Format is
// logged and decoding proceeds with the detected one. The modification labels at the
// head of an input are imported into the table. Outputs are written in spec.Format
// (Standard when unset) and start with one label per modified table entry.
//
// If any of them fails, the streams opened by this call are closed again and no handle is
// returned.
func (s *Session) Open(specs ...format.StreamSpec) ([]Handle, error) {
	handles := make([]Handle, 0, len(specs))

	for _, spec := range specs {
		h, err := s.open(spec)
		if err != nil {
			logging.ErrorWithContext(s.logger, "failed to open annotator", "open_failed",
				logging.String(logging.FieldAnnotator, spec.Name),
				logging.String(logging.FieldOperation, spec.Mode.String()),
				logging.Error(err),
			)

			var cerr error
			for _, opened := range handles {
				cerr = errors.Join(cerr, s.release(opened))
			}

			return nil, errors.Join(err, cerr)
		}
		handles = append(handles, h)
	}

	return handles, nil
}

func (s *Session) open(spec format.StreamSpec) (Handle, error) {
	if err := CheckName("annotator", spec.Name); err != nil {
		return Handle{}, err
	}

	switch spec.Mode {
	case format.Read:
		if s.inputs >= s.cfg.Streams.MaxInputs {
			return Handle{}, fmt.Errorf("open %s: %d inputs open: %w", spec.Name, s.inputs, errs.ErrTooManyStreams)
		}
	case format.Write:
		if s.outputs >= s.cfg.Streams.MaxOutputs {
			return Handle{}, fmt.Errorf("open %s: %d outputs open: %w", spec.Name, s.outputs, errs.ErrTooManyStreams)
		}
	default:
		return Handle{}, fmt.Errorf("open %s: %w", spec.Name, errs.ErrInvalidMode)
	}

	sl := slot{spec: spec, key: hash.StreamKey(s.record, spec.Name)}
	logger := s.logger.With(logging.String(logging.FieldAnnotator, spec.Name))

	name := transport.FileName(s.record, spec.Name, spec.Mode)
	if spec.Mode == format.Read {
		th, err := s.transport.Open(name, spec.Mode)
		if err != nil {
			return Handle{}, fmt.Errorf("open annotator %s for record %s: %w", spec.Name, s.record, err)
		}
		if err := s.openInput(&sl, th, logger); err != nil {
			return Handle{}, err
		}

		return s.register(sl), nil
	}

	if err := s.writers.Track(spec.Name, sl.key); err != nil {
		return Handle{}, fmt.Errorf("open annotator %s for record %s: %w", spec.Name, s.record, err)
	}
	th, err := s.transport.Open(name, spec.Mode)
	if err == nil {
		err = s.openOutput(&sl, th, logger)
	}
	if err != nil {
		s.writers.Release(spec.Name, sl.key)
		return Handle{}, fmt.Errorf("open annotator %s for record %s: %w", spec.Name, s.record, err)
	}

	return s.register(sl), nil
}

func (s *Session) openInput(sl *slot, th transport.Handle, logger *slog.Logger) error {
	in, err := stream.OpenInput(th,
		stream.WithLogger(logger),
		stream.WithTimeScale(s.scale),
		stream.WithExpectedFormat(sl.spec.Format),
	)
	if err != nil {
		return err
	}

	imported, err := stream.ImportLabels(in, s.table)
	if err != nil {
		return errors.Join(err, in.Close())
	}
	if len(imported) > 0 {
		logger.Debug("imported modification labels", logging.Int("count", len(imported)))
	}

	sl.in = in
	sl.imported = imported
	sl.spec.Format = in.Format()

	return nil
}

func (s *Session) openOutput(sl *slot, th transport.Handle, logger *slog.Logger) error {
	if sl.spec.Format == 0 {
		sl.spec.Format = format.Standard
	}

	out, err := stream.OpenOutput(th, sl.spec.Format,
		stream.WithLogger(logger),
		stream.WithTimeScale(s.scale),
	)
	if err != nil {
		return err
	}

	if _, err := stream.ExportLabels(out, s.table); err != nil {
		return errors.Join(err, out.Close())
	}
	sl.out = out

	return nil
}

// register stores sl in a free slot, or a new one, and returns its handle.
func (s *Session) register(sl slot) Handle {
	idx := -1
	for i := range s.slots {
		if !s.slots[i].open() {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.slots = append(s.slots, slot{})
		idx = len(s.slots) - 1
	}

	sl.gen = s.slots[idx].gen + 1
	s.slots[idx] = sl
	if sl.in != nil {
		s.inputs++
	} else {
		s.outputs++
	}

	return Handle{slot: idx, gen: sl.gen}
}

// lookup returns the open slot referred to by h.
func (s *Session) lookup(h Handle) (*slot, error) {
	if h.IsZero() || h.slot < 0 || h.slot >= len(s.slots) {
		return nil, fmt.Errorf("%s: %w", h, errs.ErrBadHandle)
	}

	sl := &s.slots[h.slot]
	if !sl.open() || sl.gen != h.gen {
		return nil, fmt.Errorf("%s: %w", h, errs.ErrBadHandle)
	}

	return sl, nil
}

func (s *Session) input(h Handle) (*stream.InputStream, error) {
	sl, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if sl.in == nil {
		return nil, fmt.Errorf("annotator %s is an output: %w", sl.spec.Name, errs.ErrWrongDirection)
	}

	return sl.in, nil
}

func (s *Session) output(h Handle) (*stream.OutputStream, error) {
	sl, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if sl.out == nil {
		return nil, fmt.Errorf("annotator %s is an input: %w", sl.spec.Name, errs.ErrWrongDirection)
	}

	return sl.out, nil
}

// Read returns the next annotation of the input h. See stream.InputStream.Read for the
// end-of-stream errors.
func (s *Session) Read(h Handle) (format.Annotation, error) {
	in, err := s.input(h)
	if err != nil {
		return format.Annotation{}, err
	}

	return in.Read()
}

// Unread pushes a back onto the input h.
func (s *Session) Unread(h Handle, a format.Annotation) error {
	in, err := s.input(h)
	if err != nil {
		return err
	}

	return in.Unread(a)
}

// Write appends a to the output h. Writing out of canonical order succeeds and sets
// the stream's out-of-order flag.
func (s *Session) Write(h Handle, a format.Annotation) error {
	out, err := s.output(h)
	if err != nil {
		return err
	}

	return out.Write(a)
}

// SeekTime positions every open input at the first annotation at or after t.
func (s *Session) SeekTime(t int64) error {
	var err error
	for i := range s.slots {
		if in := s.slots[i].in; in != nil {
			err = errors.Join(err, in.SeekTime(t))
		}
	}

	return err
}

// Flush flushes every open output.
func (s *Session) Flush() error {
	var err error
	for i := range s.slots {
		if out := s.slots[i].out; out != nil {
			err = errors.Join(err, out.Flush())
		}
	}

	return err
}

// Imported returns the codes whose labels were imported when the input h was opened.
func (s *Session) Imported(h Handle) ([]uint8, error) {
	sl, err := s.lookup(h)
	if err != nil {
		return nil, err
	}

	return sl.imported, nil
}

// OutOfOrder reports whether the output h has been written out of canonical order.
func (s *Session) OutOfOrder(h Handle) (bool, error) {
	out, err := s.output(h)
	if err != nil {
		return false, err
	}

	return out.OutOfOrder(), nil
}

// Format returns the wire format of h: detected for inputs, requested for outputs.
func (s *Session) Format(h Handle) (format.WireFormat, error) {
	sl, err := s.lookup(h)
	if err != nil {
		return 0, err
	}

	return sl.spec.Format, nil
}

// StreamKey returns a stable identifier of the annotation file behind h.
func (s *Session) StreamKey(h Handle) (uint64, error) {
	sl, err := s.lookup(h)
	if err != nil {
		return 0, err
	}

	return sl.key, nil
}

// Unresolved returns the outputs that were closed out of order and could not be
// reordered. Each still needs the command returned by the remediator.
func (s *Session) Unresolved() []remedy.Target {
	return s.unresolved
}

// Close finalizes the stream h and releases its handle. An output closed with its
// out-of-order flag set is reordered when automatic sorting is enabled; otherwise, or
// when reordering fails, a warning names the command that reorders it by hand.
func (s *Session) Close(ctx context.Context, h Handle) error {
	sl, err := s.lookup(h)
	if err != nil {
		return err
	}
	out := sl.out
	name := sl.spec.Name
	outOfOrder := out != nil && out.OutOfOrder()

	if err := s.release(h); err != nil {
		// the file may be incomplete, so it is reported but never rearranged
		if outOfOrder {
			s.reportOutOfOrder(remedy.Target{Record: s.record, Annotator: name})
		}

		return err
	}
	if outOfOrder {
		s.remediate(ctx, out, name)
	}

	return nil
}

// CloseAll closes every input, then every output.
func (s *Session) CloseAll(ctx context.Context) error {
	var err error
	for _, inputs := range []bool{true, false} {
		for i := range s.slots {
			sl := &s.slots[i]
			if !sl.open() || (sl.in != nil) != inputs {
				continue
			}
			err = errors.Join(err, s.Close(ctx, Handle{slot: i, gen: sl.gen}))
		}
	}

	return err
}

// release closes the stream of h and frees its slot without remediation.
func (s *Session) release(h Handle) error {
	sl := &s.slots[h.slot]

	var err error
	if sl.in != nil {
		err = sl.in.Close()
		s.inputs--
	} else {
		err = sl.out.Close()
		s.writers.Release(sl.spec.Name, sl.key)
		s.outputs--
	}
	*sl = slot{gen: sl.gen}

	if err != nil {
		return fmt.Errorf("close annotator: %w", err)
	}

	return nil
}

func (s *Session) remediate(ctx context.Context, out *stream.OutputStream, annotator string) {
	target := remedy.Target{Record: s.record, Annotator: annotator}
	logger := s.logger.With(logging.String(logging.FieldAnnotator, annotator))

	if s.cfg.Ordering.AutoSort {
		logger.Info("rearranging annotations", logging.String(logging.FieldStream, out.Name()))
		err := s.remediator.Remediate(ctx, target)
		if err == nil {
			out.ClearOutOfOrder()
			logger.Info("annotations rearranged", logging.String(logging.FieldStream, out.Name()))

			return
		}

		logging.WarnWithContext(logger, "annotations still need to be rearranged", "remediation_failed",
			logging.Error(err),
		)
	}

	s.reportOutOfOrder(target)
}

// reportOutOfOrder records target as unresolved and logs the manual command.
func (s *Session) reportOutOfOrder(target remedy.Target) {
	s.unresolved = append(s.unresolved, target)
	logger := s.logger.With(logging.String(logging.FieldAnnotator, target.Annotator))
	logging.WarnWithContext(logger, "annotations are out of order", "out_of_order",
		logging.String(logging.FieldCommand, s.remediator.Command(target)),
		logging.String(logging.FieldErrorHint, "run the command to rearrange annotations in the correct order"),
		logging.String(logging.FieldImpact, "readers will see annotations out of order"),
	)
}
