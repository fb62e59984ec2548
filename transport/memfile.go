package transport

import (
	"fmt"
	"io"

	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
)

// memFile is a seekable in-memory handle. Write handles hand their content to onSync
// on Sync and to onClose on Close.
type memFile struct {
	name    string
	mode    format.Mode
	data    []byte
	off     int64
	closed  bool
	onSync  func([]byte) error
	onClose func([]byte) error
}

var (
	_ Handle = (*memFile)(nil)
	_ Syncer = (*memFile)(nil)
)

func (f *memFile) Name() string { return f.name }

func (f *memFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errs.ErrStreamClosed
	}
	if f.off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += int64(n)

	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errs.ErrStreamClosed
	}
	if f.mode != format.Write {
		return 0, fmt.Errorf("write %s: %w", f.name, errs.ErrReadOnly)
	}

	end := f.off + int64(len(p))
	if end > int64(len(f.data)) {
		f.data = append(f.data, make([]byte, end-int64(len(f.data)))...)
	}
	copy(f.data[f.off:end], p)
	f.off = end

	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.off + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, fmt.Errorf("seek %s: invalid whence %d", f.name, whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("seek %s: negative position %d", f.name, abs)
	}
	f.off = abs

	return abs, nil
}

func (f *memFile) Sync() error {
	if f.closed || f.onSync == nil {
		return nil
	}

	return f.onSync(f.data)
}

func (f *memFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.onClose == nil {
		return nil
	}

	return f.onClose(f.data)
}
