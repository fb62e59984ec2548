// Package hash derives 64-bit identifiers with xxHash64.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// StreamKey identifies the annotation file of a record and annotator pair. The
// separator byte keeps ("ab", "c") and ("a", "bc") apart.
func StreamKey(record, annotator string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(record)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(annotator)

	return d.Sum64()
}

// PageKey identifies one fixed-size page of a remote file.
func PageKey(url string, page int64) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(url)

	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(page)) //nolint:gosec
	_, _ = d.Write(idx[:])

	return d.Sum64()
}
