package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/annot/endian"
	"github.com/arloliu/annot/errs"
)

// AltRecord is the fixed 16-byte record of the alternate wire format.
type AltRecord struct {
	Tag     byte            // byte offset 1: legacy type tag
	Time    int32           // byte offset 2-5: absolute time, PDP-11 order
	Serial  uint16          // byte offset 6-7: serial number, starts at 1
	Subtype int8            // byte offset 8
	Chan    uint8           // byte offset 9
	Aux     [AltAuxLen]byte // byte offset 10-15: zero first byte means no aux
}

// Parse parses the record from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the record (must be exactly 16 bytes)
//
// Returns:
//   - error: ErrBadRecord if data has the wrong size
func (r *AltRecord) Parse(data []byte) error {
	if len(data) != AltRecSize {
		return fmt.Errorf("alternate record of %d bytes: %w", len(data), errs.ErrBadRecord)
	}

	r.Tag = data[1]
	r.Time = endian.PDP32(data[2:6])
	r.Serial = binary.LittleEndian.Uint16(data[6:8])
	r.Subtype = int8(data[8]) //nolint:gosec
	r.Chan = data[9]
	copy(r.Aux[:], data[10:16])

	return nil
}

// Append serializes the record and appends it to b.
func (r *AltRecord) Append(b []byte) []byte {
	b = append(b, 0x00, r.Tag)
	b = endian.AppendPDP32(b, r.Time)
	b = binary.LittleEndian.AppendUint16(b, r.Serial)
	b = append(b, byte(r.Subtype), r.Chan)

	return append(b, r.Aux[:]...)
}

// Bytes serializes the record into a new 16-byte slice.
func (r *AltRecord) Bytes() []byte {
	return r.Append(make([]byte, 0, AltRecSize))
}

// HasAux reports whether the aux field is significant.
func (r *AltRecord) HasAux() bool {
	return r.Aux[0] != 0
}

// IsAltEOF reports whether the first byte of a record position marks the end of an
// alternate-format stream.
func IsAltEOF(first byte) bool {
	return first == AltFiller
}

// AltPadding returns the number of filler bytes that end a stream whose size is
// offset. A stream already on a block boundary receives a full block of filler, so
// the end marker is always present.
func AltPadding(offset int64) int {
	return AltBlockSize - int(offset%AltBlockSize)
}
