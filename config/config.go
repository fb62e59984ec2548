package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Streams bounds the number of annotators a session may keep open.
type Streams struct {
	MaxInputs  int `toml:"max_inputs"`
	MaxOutputs int `toml:"max_outputs"`
}

// Ordering controls what happens to output files written out of canonical order.
type Ordering struct {
	AutoSort    bool   `toml:"auto_sort"`
	SortCommand string `toml:"sort_command"`
}

// Transport configures where annotation files are looked up and how they are stored.
type Transport struct {
	SearchPath  []string `toml:"search_path"`
	Compression string   `toml:"compression"`
	PageSize    int      `toml:"page_size"`
	HTTPTimeout int      `toml:"http_timeout"` // seconds
}

// Logging configures the slog handler of the command-line tools.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the complete configuration.
type Config struct {
	Streams   Streams   `toml:"streams"`
	Ordering  Ordering  `toml:"ordering"`
	Transport Transport `toml:"transport"`
	Logging   Logging   `toml:"logging"`
}

// Load reads the configuration file at path, applies environment overrides and
// validates the result. An empty path, or a path that does not exist, yields the
// defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("open config: %w", err)
		default:
			defer file.Close()

			decoder := toml.NewDecoder(file)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Parse decodes a configuration document without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return data, nil
}
