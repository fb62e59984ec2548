// Package transport opens the byte streams behind annotation files.
//
// The annotation core never sees whether a handle is a local file, a compressed
// file decoded in memory, or a remote file fetched page by page. It only needs
// Transport.Open and the Handle methods.
package transport

import (
	"io"
	"path/filepath"

	"github.com/arloliu/annot/format"
)

// Handle is an open annotation file.
type Handle interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Name returns the name the handle was opened with, resolved against the search path.
	Name() string
}

// Syncer is implemented by handles that can make written bytes durable or visible
// before Close.
type Syncer interface {
	Sync() error
}

// Transport opens annotation files by name.
type Transport interface {
	// Open opens name for reading or writing. Opening for write creates or truncates
	// the file.
	Open(name string, mode format.Mode) (Handle, error)
}

// FileName returns the file name of the annotator's file for a record.
//
// Input files keep the record's directory part, which is resolved against the
// search path. Output files are always created from the record's base name, so
// writing annotations for "data/100" creates "100.atr" in the output directory.
func FileName(record, annotator string, mode format.Mode) string {
	if mode == format.Write {
		record = filepath.Base(record)
	}

	return record + "." + annotator
}
