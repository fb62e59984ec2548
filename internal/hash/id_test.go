package hash

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestStreamKey(t *testing.T) {
	require.Equal(t, StreamKey("100", "atr"), StreamKey("100", "atr"))
	require.NotEqual(t, StreamKey("100", "atr"), StreamKey("100", "qrs"))
	require.NotEqual(t, StreamKey("ab", "c"), StreamKey("a", "bc"))
}

func TestPageKey(t *testing.T) {
	const url = "https://physionet.org/files/mitdb/1.0.0/100.atr"

	require.Equal(t, PageKey(url, 3), PageKey(url, 3))
	require.NotEqual(t, PageKey(url, 0), PageKey(url, 1))
	require.NotEqual(t, PageKey(url, 0), PageKey(url+"x", 0))
}

func randString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range b {
		b[i] = letters[seededRand.Intn(len(letters))]
	}

	return string(b)
}

func BenchmarkStreamKey(b *testing.B) {
	record := randString(20)
	b.ResetTimer()
	for b.Loop() {
		StreamKey(record, "atr")
	}
}
