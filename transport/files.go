package transport

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
)

// Files opens annotation files on the local file system.
//
// Reads try each directory of SearchPath in order. Writes go to the first directory
// and hold an exclusive advisory lock on the file until the handle is closed, so two
// writers cannot interleave output into the same annotation file.
type Files struct {
	SearchPath []string
}

var _ Transport = (*Files)(nil)

// NewFiles creates a file transport. An empty search path means the current directory.
func NewFiles(searchPath ...string) *Files {
	if len(searchPath) == 0 {
		searchPath = []string{"."}
	}

	return &Files{SearchPath: searchPath}
}

// Open opens name for reading or writing.
func (f *Files) Open(name string, mode format.Mode) (Handle, error) {
	switch mode {
	case format.Read:
		return f.openRead(name)
	case format.Write:
		return f.openWrite(name)
	default:
		return nil, fmt.Errorf("open %s: %w", name, errs.ErrInvalidMode)
	}
}

func (f *Files) dirs() []string {
	if len(f.SearchPath) == 0 {
		return []string{"."}
	}

	return f.SearchPath
}

func (f *Files) openRead(name string) (Handle, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = candidates[:0]
		for _, dir := range f.dirs() {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	var lastErr error
	for _, path := range candidates {
		file, err := os.Open(path)
		if err == nil {
			return &fileHandle{File: file}, nil
		}
		lastErr = err
		if !errors.Is(err, fs.ErrNotExist) {
			break
		}
	}

	return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailed, name, lastErr)
}

func (f *Files) openWrite(name string) (Handle, error) {
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(f.dirs()[0], name)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %w", errs.ErrOpenFailed, path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, errs.ErrLocked)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailed, path, err)
	}

	return &fileHandle{File: file, lock: lock}, nil
}

// fileHandle is an os.File that releases its writer lock on Close.
type fileHandle struct {
	*os.File
	lock   *flock.Flock
	closed bool
}

var (
	_ Handle = (*fileHandle)(nil)
	_ Syncer = (*fileHandle)(nil)
)

func (h *fileHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	err := h.File.Close()
	if h.lock != nil {
		if uerr := h.lock.Unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("unlock %s: %w", h.Name(), uerr)
		}
	}

	return err
}
