// Package cli holds the flag and configuration plumbing shared by the command-line
// tools.
package cli

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/arloliu/annot/config"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/transport"
)

// Context resolves the configuration of one command invocation.
type Context struct {
	configPath string
	logLevel   string
	searchPath []string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

// Bind registers the persistent --config, --log-level and --path flags on cmd.
func Bind(cmd *cobra.Command) *Context {
	c := &Context{}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Configuration file path")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringSliceVar(&c.searchPath, "path", nil, "Directories or URLs to search for annotation files")

	return c
}

// Config loads the configuration once and applies flag overrides.
func (c *Context) Config() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(c.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevel != "" {
			cfg.Logging.Level = c.logLevel
		}
		if len(c.searchPath) > 0 {
			cfg.Transport.SearchPath = c.searchPath
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})

	return c.config, c.configErr
}

// Logger builds the logger described by the configuration, writing to w.
func (c *Context) Logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}

	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: w,
	})
}

// Transport builds the transport described by the configuration.
func (c *Context) Transport() (transport.Transport, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}

	return transport.FromConfig(cfg.Transport)
}
