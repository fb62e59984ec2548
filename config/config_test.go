package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/errs"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 2, cfg.Streams.MaxInputs)
	require.Equal(t, 2, cfg.Streams.MaxOutputs)
	require.True(t, cfg.Ordering.AutoSort)
	require.Equal(t, "sortann", cfg.Ordering.SortCommand)
	require.Equal(t, []string{"."}, cfg.Transport.SearchPath)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[streams]
max_inputs = 8

[ordering]
auto_sort = false
sort_command = "  /usr/local/bin/sortann "

[transport]
search_path = ["/data/mitdb", " ", "https://physionet.org/files/mitdb/1.0.0"]
compression = "ZSTD"
`))
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Streams.MaxInputs)
	require.Equal(t, DefaultMaxStreams, cfg.Streams.MaxOutputs, "unset values keep their defaults")
	require.False(t, cfg.Ordering.AutoSort)
	require.Equal(t, "/usr/local/bin/sortann", cfg.Ordering.SortCommand)
	require.Equal(t, []string{"/data/mitdb", "https://physionet.org/files/mitdb/1.0.0"}, cfg.Transport.SearchPath)
	require.Equal(t, "zstd", cfg.Transport.Compression)
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no inputs", mutate: func(c *Config) { c.Streams.MaxInputs = 0 }},
		{name: "too many outputs", mutate: func(c *Config) { c.Streams.MaxOutputs = MaxStreamsLimit + 1 }},
		{name: "unknown compression", mutate: func(c *Config) { c.Transport.Compression = "brotli" }},
		{name: "tiny page", mutate: func(c *Config) { c.Transport.PageSize = 16 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Transport.HTTPTimeout = -1 }},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), errs.ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvSearchPath, "")
	os.Unsetenv(EnvSearchPath)
	t.Setenv(EnvNoSort, "")
	os.Unsetenv(EnvNoSort)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), *cfg)
}

func TestLoadAppliesEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annot.toml")
	require.NoError(t, os.WriteFile(path, []byte("[transport]\nsearch_path = [\"/from/file\"]\n"), 0o600))

	t.Setenv(EnvNoSort, "1")
	t.Setenv(EnvSearchPath, "/a  /b")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Ordering.AutoSort)
	require.Equal(t, []string{"/a", "/b"}, cfg.Transport.SearchPath)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annot.toml")
	require.NoError(t, os.WriteFile(path, []byte("[streams]\nmax_annotators = 3\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Streams.MaxInputs = 5
	cfg.Transport.Compression = "s2"

	data, err := cfg.Encode()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, cfg, *back)
}
