package config

import (
	"fmt"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStreams(); err != nil {
		return err
	}
	if err := c.validateTransport(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w: %w", errs.ErrInvalidConfig, err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q: %w", c.Logging.Format, errs.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) validateStreams() error {
	if c.Streams.MaxInputs < 1 || c.Streams.MaxInputs > MaxStreamsLimit {
		return fmt.Errorf("streams.max_inputs must be between 1 and %d, got %d: %w",
			MaxStreamsLimit, c.Streams.MaxInputs, errs.ErrInvalidConfig)
	}
	if c.Streams.MaxOutputs < 1 || c.Streams.MaxOutputs > MaxStreamsLimit {
		return fmt.Errorf("streams.max_outputs must be between 1 and %d, got %d: %w",
			MaxStreamsLimit, c.Streams.MaxOutputs, errs.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) validateTransport() error {
	if _, ok := format.ParseCompression(c.Transport.Compression); !ok {
		return fmt.Errorf("transport.compression %q: %w", c.Transport.Compression, errs.ErrInvalidConfig)
	}
	if c.Transport.PageSize < 512 {
		return fmt.Errorf("transport.page_size must be at least 512, got %d: %w",
			c.Transport.PageSize, errs.ErrInvalidConfig)
	}
	if c.Transport.HTTPTimeout < 0 {
		return fmt.Errorf("transport.http_timeout must not be negative: %w", errs.ErrInvalidConfig)
	}
	return nil
}
