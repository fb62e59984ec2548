package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/hash"
)

// DefaultPageSize is the page size used when HTTP.PageSize is zero.
const DefaultPageSize = 32 * 1024

// HTTP reads annotation files from a web server with Range requests.
//
// Files are fetched one page at a time, and pages are kept in a PageCache shared by
// every handle of the transport, so reopening a file or seeking back to its start does
// not fetch it again. HTTP is read-only.
type HTTP struct {
	BaseURL  string
	PageSize int
	Client   *http.Client
	Cache    *PageCache

	sizes sync.Map // url -> int64 size, once known
}

var _ Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport rooted at baseURL.
func NewHTTP(baseURL string, pageSize int, timeout time.Duration) *HTTP {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &HTTP{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		PageSize: pageSize,
		Client:   &http.Client{Timeout: timeout},
		Cache:    NewPageCache(0),
	}
}

// IsURL reports whether a search path entry names a remote location.
func IsURL(entry string) bool {
	return strings.HasPrefix(entry, "http://") || strings.HasPrefix(entry, "https://")
}

// Open opens name for reading. The first page is fetched immediately so missing
// files fail at open time.
func (t *HTTP) Open(name string, mode format.Mode) (Handle, error) {
	if mode != format.Read {
		return nil, fmt.Errorf("open %s: %w", name, errs.ErrReadOnly)
	}
	if t.Cache == nil {
		t.Cache = NewPageCache(0)
	}
	if t.PageSize <= 0 {
		t.PageSize = DefaultPageSize
	}

	h := &httpHandle{t: t, url: t.BaseURL + "/" + strings.TrimLeft(name, "/")}
	if _, err := h.page(0); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailed, h.url, err)
	}

	return h, nil
}

func (t *HTTP) client() *http.Client {
	if t.Client == nil {
		return http.DefaultClient
	}

	return t.Client
}

// fetch downloads page idx of url. It returns the page bytes and the total file size
// if the server reported it, or -1.
func (t *HTTP) fetch(url string, idx int64) ([]byte, int64, error) {
	start := idx * int64(t.PageSize)
	end := start + int64(t.PageSize) - 1

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, -1, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	resp, err := t.client().Do(req)
	if err != nil {
		return nil, -1, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, -1, err
		}

		return data, contentRangeSize(resp.Header.Get("Content-Range")), nil
	case http.StatusOK:
		// the server ignored the range and sent the whole file
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, -1, err
		}
		size := int64(len(data))
		if start >= size {
			return nil, size, nil
		}

		return data[start:min(end+1, size)], size, nil
	case http.StatusRequestedRangeNotSatisfiable:
		return nil, contentRangeSize(resp.Header.Get("Content-Range")), nil
	default:
		return nil, -1, fmt.Errorf("GET %s: %d %s: %w", url, resp.StatusCode, http.StatusText(resp.StatusCode), errs.ErrHTTPStatus)
	}
}

// contentRangeSize extracts the complete length from "bytes a-b/size" or "bytes */size".
func contentRangeSize(header string) int64 {
	_, total, ok := strings.Cut(header, "/")
	if !ok || total == "*" {
		return -1
	}
	size, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return -1
	}

	return size
}

type httpHandle struct {
	t      *HTTP
	url    string
	off    int64
	closed bool
}

var _ Handle = (*httpHandle)(nil)

func (h *httpHandle) Name() string { return h.url }

func (h *httpHandle) page(idx int64) ([]byte, error) {
	key := hash.PageKey(h.url, idx)
	if data, ok := h.t.Cache.Get(key); ok {
		return data, nil
	}

	data, size, err := h.t.fetch(h.url, idx)
	if err != nil {
		return nil, err
	}
	if size < 0 && len(data) < h.t.PageSize {
		size = idx*int64(h.t.PageSize) + int64(len(data))
	}
	if size >= 0 {
		h.t.sizes.Store(h.url, size)
	}
	h.t.Cache.Put(key, data)

	return data, nil
}

func (h *httpHandle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, errs.ErrStreamClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	ps := int64(h.t.PageSize)
	idx := h.off / ps
	data, err := h.page(idx)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", h.url, err)
	}

	within := h.off - idx*ps
	if within >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[within:])
	h.off += int64(n)

	return n, nil
}

func (h *httpHandle) Write([]byte) (int, error) {
	return 0, fmt.Errorf("write %s: %w", h.url, errs.ErrReadOnly)
}

func (h *httpHandle) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = h.off + offset
	case io.SeekEnd:
		size, ok := h.t.sizes.Load(h.url)
		if !ok {
			return 0, errors.New("seek from end: remote size unknown")
		}
		abs = size.(int64) + offset //nolint:forcetypeassert
	default:
		return 0, fmt.Errorf("seek %s: invalid whence %d", h.url, whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("seek %s: negative position %d", h.url, abs)
	}
	h.off = abs

	return abs, nil
}

func (h *httpHandle) Close() error {
	h.closed = true
	return nil
}
