package transport

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
)

func writeAll(t *testing.T, tr Transport, name string, data []byte) {
	t.Helper()

	h, err := tr.Open(name, format.Write)
	require.NoError(t, err)
	_, err = h.Write(data)
	require.NoError(t, err)
	require.NoError(t, h.Close())
}

func readAll(t *testing.T, tr Transport, name string) []byte {
	t.Helper()

	h, err := tr.Open(name, format.Read)
	require.NoError(t, err)
	defer h.Close()

	data, err := io.ReadAll(h)
	require.NoError(t, err)

	return data
}

func TestFileName(t *testing.T) {
	require.Equal(t, "data/100.atr", FileName("data/100", "atr", format.Read))
	require.Equal(t, "100.atr", FileName("data/100", "atr", format.Write))
	require.Equal(t, "100.qrs", FileName("100", "qrs", format.Write))
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	_, err := m.Open("100.atr", format.Read)
	require.ErrorIs(t, err, errs.ErrOpenFailed)

	h, err := m.Open("100.atr", format.Write)
	require.NoError(t, err)
	_, err = h.Write([]byte("abcd"))
	require.NoError(t, err)

	// visible after Sync, before Close
	require.NoError(t, h.(Syncer).Sync())
	data, ok := m.Get("100.atr")
	require.True(t, ok)
	require.Equal(t, "abcd", string(data))

	_, err = h.Seek(1, io.SeekStart)
	require.NoError(t, err)
	_, err = h.Write([]byte("XY"))
	require.NoError(t, err)
	require.NoError(t, h.Close())
	require.NoError(t, h.Close(), "close is idempotent")

	require.Equal(t, "aXYd", string(readAll(t, m, "100.atr")))
	require.Equal(t, []string{"100.atr"}, m.Names())

	r, err := m.Open("100.atr", format.Read)
	require.NoError(t, err)
	_, err = r.Write([]byte("x"))
	require.ErrorIs(t, err, errs.ErrReadOnly)

	_, err = m.Open("100.atr", format.Mode(9))
	require.ErrorIs(t, err, errs.ErrInvalidMode)
}

func TestFiles_SearchPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "100.atr"), []byte("second"), 0o600))

	f := NewFiles(first, second)
	require.Equal(t, "second", string(readAll(t, f, "100.atr")))

	// writes go to the first directory and shadow later ones
	writeAll(t, f, "100.atr", []byte("first"))
	require.Equal(t, "first", string(readAll(t, f, "100.atr")))

	_, err := f.Open("missing.atr", format.Read)
	require.ErrorIs(t, err, errs.ErrOpenFailed)
}

func TestFiles_WriterLock(t *testing.T) {
	f := NewFiles(t.TempDir())

	h, err := f.Open("100.atr", format.Write)
	require.NoError(t, err)

	_, err = f.Open("100.atr", format.Write)
	require.ErrorIs(t, err, errs.ErrLocked)

	require.NoError(t, h.Close())

	h, err = f.Open("100.atr", format.Write)
	require.NoError(t, err, "lock is released on close")
	require.NoError(t, h.Close())
}

func TestCompressed(t *testing.T) {
	payload := bytes.Repeat([]byte{0x2A, 0x04}, 5000)

	for _, typ := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			inner := NewMemory()
			c, err := NewCompressed(inner, typ)
			require.NoError(t, err)

			writeAll(t, c, "100.atr", payload)

			stored := inner.Names()
			require.Len(t, stored, 1)
			require.True(t, strings.HasPrefix(stored[0], "100.atr"))
			require.Equal(t, typ, CompressionFor(stored[0]))

			require.Equal(t, payload, readAll(t, c, "100.atr"))
			// an explicit suffix selects the codec regardless of Type
			require.Equal(t, payload, readAll(t, &Compressed{Inner: inner}, stored[0]))
		})
	}

	_, err := NewCompressed(NewMemory(), format.CompressionType(42))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestCompressed_Seek(t *testing.T) {
	inner := NewMemory()
	c, err := NewCompressed(inner, format.CompressionZstd)
	require.NoError(t, err)
	writeAll(t, c, "100.atr", []byte("0123456789"))

	h, err := c.Open("100.atr", format.Read)
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Seek(4, io.SeekStart)
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = io.ReadFull(h, buf)
	require.NoError(t, err)
	require.Equal(t, "456", string(buf))
}

func newFileServer(t *testing.T, files map[string][]byte, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		data, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, r.URL.Path, time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestHTTP_PagedReads(t *testing.T) {
	data := make([]byte, 5000)
	for i := range data {
		data[i] = byte(i % 251)
	}
	var hits atomic.Int64
	srv := newFileServer(t, map[string][]byte{"mitdb/100.atr": data}, &hits)

	tr := NewHTTP(srv.URL, 1024, 5*time.Second)
	require.Equal(t, data, readAll(t, tr, "mitdb/100.atr"))
	require.Equal(t, int64(5), hits.Load(), "one request per page")
	require.Equal(t, 5, tr.Cache.Len())

	// a second read is served from the cache
	require.Equal(t, data, readAll(t, tr, "mitdb/100.atr"))
	require.Equal(t, int64(5), hits.Load())

	h, err := tr.Open("mitdb/100.atr", format.Read)
	require.NoError(t, err)
	pos, err := h.Seek(-10, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(4990), pos)
	tail, err := io.ReadAll(h)
	require.NoError(t, err)
	require.Equal(t, data[4990:], tail)

	_, err = h.Write([]byte("x"))
	require.ErrorIs(t, err, errs.ErrReadOnly)
	require.NoError(t, h.Close())
}

func TestHTTP_Errors(t *testing.T) {
	var hits atomic.Int64
	srv := newFileServer(t, map[string][]byte{}, &hits)
	tr := NewHTTP(srv.URL, 0, time.Second)

	_, err := tr.Open("100.atr", format.Read)
	require.ErrorIs(t, err, errs.ErrOpenFailed)
	require.ErrorIs(t, err, errs.ErrHTTPStatus)

	_, err = tr.Open("100.atr", format.Write)
	require.ErrorIs(t, err, errs.ErrReadOnly)
}

func TestContentRangeSize(t *testing.T) {
	require.Equal(t, int64(5000), contentRangeSize("bytes 0-1023/5000"))
	require.Equal(t, int64(12), contentRangeSize("bytes */12"))
	require.Equal(t, int64(-1), contentRangeSize("bytes 0-1023/*"))
	require.Equal(t, int64(-1), contentRangeSize(""))
}

func TestPageCache_Eviction(t *testing.T) {
	c := NewPageCache(2)
	c.Put(1, []byte("a"))
	c.Put(2, []byte("b"))
	_, ok := c.Get(1) // 1 becomes most recently used
	require.True(t, ok)
	c.Put(3, []byte("c"))

	_, ok = c.Get(2)
	require.False(t, ok, "least recently used page is evicted")
	data, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, "a", string(data))
	require.Equal(t, 2, c.Len())
}

func TestMux(t *testing.T) {
	var hits atomic.Int64
	srv := newFileServer(t, map[string][]byte{"200.atr": []byte("remote")}, &hits)
	dir := t.TempDir()

	m := NewMux([]string{srv.URL, dir}, 1024, time.Second)
	require.Equal(t, "remote", string(readAll(t, m, "200.atr")))

	writeAll(t, m, "100.atr", []byte("local"))
	require.FileExists(t, filepath.Join(dir, "100.atr"))
	require.Equal(t, "local", string(readAll(t, m, "100.atr")))

	_, err := m.Open("300.atr", format.Read)
	require.ErrorIs(t, err, errs.ErrOpenFailed)

	remoteOnly := NewMux([]string{srv.URL}, 1024, time.Second)
	_, err = remoteOnly.Open("100.atr", format.Write)
	require.ErrorIs(t, err, errs.ErrReadOnly)
}
