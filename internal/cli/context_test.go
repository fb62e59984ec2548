package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/transport"
)

func bind(t *testing.T, args ...string) *Context {
	t.Helper()

	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	ctx := Bind(cmd)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	return ctx
}

func TestContext_Overrides(t *testing.T) {
	dir := t.TempDir()
	ctx := bind(t, "--path", dir, "--log-level", "debug")

	cfg, err := ctx.Config()
	require.NoError(t, err)
	require.Equal(t, []string{dir}, cfg.Transport.SearchPath)
	require.Equal(t, "debug", cfg.Logging.Level)

	again, err := ctx.Config()
	require.NoError(t, err)
	require.Same(t, cfg, again, "the configuration is loaded once")

	var buf bytes.Buffer
	logger, err := ctx.Logger(&buf)
	require.NoError(t, err)
	logger.Debug("probe")
	require.Contains(t, buf.String(), "probe")

	tr, err := ctx.Transport()
	require.NoError(t, err)
	require.IsType(t, &transport.Mux{}, tr)
}

func TestContext_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annot.toml")
	require.NoError(t, os.WriteFile(path, []byte("[transport]\ncompression = \"lz4\"\n"), 0o600))

	tr, err := bind(t, "--config", path).Transport()
	require.NoError(t, err)
	require.IsType(t, &transport.Compressed{}, tr)

	_, err = bind(t, "--log-level", "loud").Config()
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}
