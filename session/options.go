package session

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/config"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/internal/options"
	"github.com/arloliu/annot/remedy"
	"github.com/arloliu/annot/transport"
)

// settings collects the collaborators of a session.
type settings struct {
	cfg        config.Config
	table      *codes.Table
	transport  transport.Transport
	remediator remedy.Remediator
	logger     *slog.Logger
	scale      int64
}

// Option configures a Session.
type Option = options.Option[*settings]

func newSettings() *settings {
	return &settings{
		cfg:    config.Default(),
		logger: logging.NewNop(),
		scale:  1,
	}
}

// WithConfig replaces the default configuration. The configuration is validated.
func WithConfig(cfg config.Config) Option {
	return options.New(func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.cfg = cfg

		return nil
	})
}

// WithTable sets the type-code table the session imports into and exports from.
// The default is codes.Default().
func WithTable(table *codes.Table) Option {
	return options.NoError(func(s *settings) {
		s.table = table
	})
}

// WithTransport sets the transport used to open annotation files. The default is built
// from the configured search path and compression.
func WithTransport(t transport.Transport) Option {
	return options.NoError(func(s *settings) {
		s.transport = t
	})
}

// WithRemediator sets the remediator run when an out-of-order output is closed. The
// default runs the configured sort command.
func WithRemediator(r remedy.Remediator) Option {
	return options.NoError(func(s *settings) {
		s.remediator = r
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithTimeScale sets the number of caller sample intervals per on-disk time unit.
func WithTimeScale(scale int64) Option {
	return options.New(func(s *settings) error {
		if scale < 1 {
			return fmt.Errorf("time scale %d: %w", scale, errs.ErrInvalidConfig)
		}
		s.scale = scale

		return nil
	})
}

// fill resolves the collaborators that were not given explicitly.
func (s *settings) fill() error {
	if s.table == nil {
		s.table = codes.Default()
	}
	if s.remediator == nil {
		s.remediator = remedy.NewCommand(s.cfg.Ordering.SortCommand, "")
	}
	if s.transport != nil {
		return nil
	}

	t, err := transport.FromConfig(s.cfg.Transport)
	if err != nil {
		return err
	}
	s.transport = t

	return nil
}
