package config

import "strings"

// Environment variables consulted by Load.
const (
	EnvNoSort     = "WFDBNOSORT"
	EnvSearchPath = "WFDB"
)

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if _, ok := lookup(EnvNoSort); ok {
		c.Ordering.AutoSort = false
	}
	if value, ok := lookup(EnvSearchPath); ok {
		if dirs := strings.Fields(value); len(dirs) > 0 {
			c.Transport.SearchPath = dirs
		}
	}
}

func (c *Config) normalize() {
	c.Ordering.SortCommand = strings.TrimSpace(c.Ordering.SortCommand)
	if c.Ordering.SortCommand == "" {
		c.Ordering.SortCommand = DefaultSortCommand
	}

	dirs := c.Transport.SearchPath[:0]
	for _, dir := range c.Transport.SearchPath {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		dirs = append(dirs, ".")
	}
	c.Transport.SearchPath = dirs

	c.Transport.Compression = strings.ToLower(strings.TrimSpace(c.Transport.Compression))
	if c.Transport.Compression == "" {
		c.Transport.Compression = "none"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}
