package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
)

// Mux resolves names against a search path that may mix local directories and URLs.
//
// Reads try each entry in order. Writes go to the first local directory; a search
// path made only of URLs cannot be written to.
type Mux struct {
	entries []Transport
	local   Transport
}

var _ Transport = (*Mux)(nil)

// NewMux builds a transport for searchPath. URL entries share one page cache.
func NewMux(searchPath []string, pageSize int, timeout time.Duration) *Mux {
	m := &Mux{}
	cache := NewPageCache(0)

	for _, entry := range searchPath {
		if IsURL(entry) {
			h := NewHTTP(entry, pageSize, timeout)
			h.Cache = cache
			m.entries = append(m.entries, h)

			continue
		}

		f := NewFiles(entry)
		if m.local == nil {
			m.local = f
		}
		m.entries = append(m.entries, f)
	}
	if len(m.entries) == 0 {
		m.local = NewFiles()
		m.entries = append(m.entries, m.local)
	}

	return m
}

// Open opens name.
func (m *Mux) Open(name string, mode format.Mode) (Handle, error) {
	if mode == format.Write {
		if m.local == nil {
			return nil, fmt.Errorf("open %s: no local directory in search path: %w", name, errs.ErrReadOnly)
		}

		return m.local.Open(name, mode)
	}

	var errList []error
	for _, t := range m.entries {
		h, err := t.Open(name, mode)
		if err == nil {
			return h, nil
		}
		errList = append(errList, err)
	}

	return nil, errors.Join(errList...)
}
