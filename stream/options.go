package stream

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/internal/options"
)

// Config holds the settings shared by input and output streams.
type Config struct {
	logger   *slog.Logger
	scale    int64
	expected format.WireFormat
}

func newConfig() *Config {
	return &Config{logger: logging.NewNop(), scale: 1}
}

// Option configures a stream.
type Option = options.Option[*Config]

// WithLogger sets the logger that receives stream warnings.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithTimeScale sets the number of caller time units per on-disk time unit. Input
// times are multiplied by the scale, output times divided by it.
func WithTimeScale(scale int64) Option {
	return options.New(func(c *Config) error {
		if scale < 1 {
			return fmt.Errorf("time scale %d: %w", scale, errs.ErrInvalidConfig)
		}
		c.scale = scale

		return nil
	})
}

// WithExpectedFormat sets the wire format the caller expects an input stream to have.
// A different detected format is logged as a warning; decoding follows the detected
// format.
func WithExpectedFormat(f format.WireFormat) Option {
	return options.NoError(func(c *Config) {
		c.expected = f
	})
}
