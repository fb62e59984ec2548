package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBadScale = errors.New("time scale must be positive")

type streamSettings struct {
	scale     int64
	annotator string
	autoSort  bool
	last      string
}

func withScale(scale int64) Option[*streamSettings] {
	return New(func(s *streamSettings) error {
		if scale < 1 {
			return errBadScale
		}
		s.scale = scale
		s.last = "scale"

		return nil
	})
}

func withAnnotator(name string) Option[*streamSettings] {
	return NoError(func(s *streamSettings) {
		s.annotator = name
		s.last = "annotator"
	})
}

func withAutoSort(enabled bool) Option[*streamSettings] {
	return NoError(func(s *streamSettings) {
		s.autoSort = enabled
		s.last = "autosort"
	})
}

func TestNew(t *testing.T) {
	s := &streamSettings{}
	require.NoError(t, withScale(4).apply(s))
	require.Equal(t, int64(4), s.scale)

	require.ErrorIs(t, withScale(0).apply(s), errBadScale)
	require.Equal(t, int64(4), s.scale, "a rejected option leaves the target unchanged")
}

func TestNoError(t *testing.T) {
	s := &streamSettings{}
	require.NoError(t, withAnnotator("atr").apply(s))
	require.Equal(t, "atr", s.annotator)
}

func TestApply(t *testing.T) {
	t.Run("in order", func(t *testing.T) {
		s := &streamSettings{}
		require.NoError(t, Apply(s, withScale(2), withAnnotator("qrs"), withAutoSort(true)))
		require.Equal(t, int64(2), s.scale)
		require.Equal(t, "qrs", s.annotator)
		require.True(t, s.autoSort)
		require.Equal(t, "autosort", s.last)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		s := &streamSettings{}
		err := Apply(s, withAnnotator("atr"), withScale(-1), withAutoSort(true))
		require.ErrorIs(t, err, errBadScale)
		require.Equal(t, "atr", s.annotator)
		require.False(t, s.autoSort)
		require.Equal(t, "annotator", s.last)
	})

	t.Run("no options", func(t *testing.T) {
		s := &streamSettings{}
		require.NoError(t, Apply(s))
		require.Equal(t, streamSettings{}, *s)
	})

	t.Run("value targets", func(t *testing.T) {
		var scale int64
		var opt Option[*int64] = NoError(func(p *int64) { *p = 8 })
		require.NoError(t, Apply(&scale, opt))
		require.Equal(t, int64(8), scale)
	})
}
