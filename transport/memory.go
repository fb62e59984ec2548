package transport

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
)

// Memory keeps annotation files in a map. It is used by tests and by programs that
// embed annotation streams in other containers.
//
// Written content becomes visible to readers on Sync and on Close.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ Transport = (*Memory)(nil)

// NewMemory creates an empty in-memory transport.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Put stores a copy of data under name.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = bytes.Clone(data)
}

// Get returns a copy of the content stored under name.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]

	return bytes.Clone(data), ok
}

// Names returns the stored file names in sorted order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Open opens name. Readers see a snapshot of the content at open time.
func (m *Memory) Open(name string, mode format.Mode) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch mode {
	case format.Read:
		data, ok := m.files[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errs.ErrOpenFailed, name)
		}

		return &memFile{name: name, mode: mode, data: bytes.Clone(data)}, nil
	case format.Write:
		m.files[name] = []byte{}
		store := func(data []byte) error {
			m.Put(name, data)
			return nil
		}

		return &memFile{name: name, mode: mode, onSync: store, onClose: store}, nil
	default:
		return nil, fmt.Errorf("open %s: %w", name, errs.ErrInvalidMode)
	}
}
