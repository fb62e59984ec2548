package section

import "encoding/binary"

// Word is one 16-bit unit of a standard-format stream.
type Word uint16

// EOFWord is the logical end-of-stream sentinel.
const EOFWord Word = 0

// MakeWord packs a code and data field. Data bits beyond the field are dropped.
func MakeWord(code uint8, data uint16) Word {
	return Word(uint16(code)<<CodeShift | data&DataMask)
}

// ParseWord reads a little-endian word from b[0:2].
func ParseWord(b []byte) Word {
	return Word(binary.LittleEndian.Uint16(b))
}

// Code returns the code field.
func (w Word) Code() uint8 {
	return uint8((uint16(w) & CodeMask) >> CodeShift) //nolint:gosec
}

// Data returns the data field.
func (w Word) Data() uint16 {
	return uint16(w) & DataMask
}

// IsPseudo reports whether the word carries a pseudo tag.
func (w Word) IsPseudo() bool {
	return w.Code() >= PseudoMin
}

// AuxLen returns the payload length of an AUX word.
func (w Word) AuxLen() int {
	return int(uint16(w) & AuxLenMask)
}

// LowByte and HighByte expose the raw byte view used by format detection: on disk
// the low byte comes first.
func (w Word) LowByte() byte  { return byte(w) }
func (w Word) HighByte() byte { return byte(w >> 8) }

// Append appends the little-endian encoding of w to b.
func (w Word) Append(b []byte) []byte {
	return binary.LittleEndian.AppendUint16(b, uint16(w))
}
