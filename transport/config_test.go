package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/config"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Transport
	cfg.SearchPath = []string{t.TempDir()}

	tr, err := FromConfig(cfg)
	require.NoError(t, err)
	require.IsType(t, &Mux{}, tr)

	cfg.Compression = "s2"
	tr, err = FromConfig(cfg)
	require.NoError(t, err)
	c, ok := tr.(*Compressed)
	require.True(t, ok)
	require.Equal(t, format.CompressionS2, c.Type)

	cfg.Compression = "brotli"
	_, err = FromConfig(cfg)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}
