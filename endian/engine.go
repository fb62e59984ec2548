// Package endian provides the byte order helpers used by the annotation wire formats.
//
// Both wire formats store 16-bit quantities low byte first, so the little-endian
// engine covers them. Wide (32-bit) quantities use the PDP-11 "middle-endian"
// convention instead: the high 16-bit half is written first, then the low half, and
// each half is itself little-endian. The value 0x11223344 is therefore stored as the
// bytes 22 11 44 33.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint16(buf, word)
//	buf = endian.AppendPDP32(buf, int32(delta))
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// PDP32 decodes a signed 32-bit value stored in PDP-11 order from b[0:4].
func PDP32(b []byte) int32 {
	_ = b[3] // bounds check hint to compiler
	hi := binary.LittleEndian.Uint16(b[0:2])
	lo := binary.LittleEndian.Uint16(b[2:4])

	return int32(uint32(hi)<<16 | uint32(lo)) //nolint:gosec
}

// PutPDP32 stores v into b[0:4] in PDP-11 order.
func PutPDP32(b []byte, v int32) {
	_ = b[3]
	u := uint32(v) //nolint:gosec
	binary.LittleEndian.PutUint16(b[0:2], uint16(u>>16))
	binary.LittleEndian.PutUint16(b[2:4], uint16(u))
}

// AppendPDP32 appends v to b in PDP-11 order.
func AppendPDP32(b []byte, v int32) []byte {
	u := uint32(v) //nolint:gosec
	b = binary.LittleEndian.AppendUint16(b, uint16(u>>16))

	return binary.LittleEndian.AppendUint16(b, uint16(u))
}
