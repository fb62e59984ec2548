// Package section defines the low-level binary layout of the two annotation wire formats.
//
// The package is deliberately free of stream state: it only knows how a single word or
// record is laid out in bytes. The encoding package builds the stateful codecs on top.
//
// # Standard Format
//
// A standard stream is a sequence of 16-bit little-endian words:
//
//	 15          10 9                     0
//	┌──────────────┬───────────────────────┐
//	│  code (6 b)  │      data (10 b)      │
//	└──────────────┴───────────────────────┘
//
// Codes 0 through MaxCode are annotation types and the data field holds the time
// elapsed since the previous annotation (0 through MaxDelta). Codes from PseudoMin up
// are pseudo tags that modify the record in progress:
//
//	SKIP (59)  followed by a 32-bit PDP-11 interval added to the running time
//	NUM  (60)  data field carries the new num value
//	SUB  (61)  data field carries the subtype
//	CHN  (62)  data field carries the new channel
//	AUX  (63)  low byte of data is a length L, followed by L bytes and a pad byte if L is odd
//
// A word whose value is zero ends the stream.
//
// # Alternate Format
//
// An alternate stream is a sequence of fixed 16-byte records:
//
//	┌──────┬─────┬────────────┬────────┬─────┬──────┬──────────────┐
//	│ 0x00 │ tag │ time (4 B) │ serial │ sub │ chan │   aux (6 B)  │
//	└──────┴─────┴────────────┴────────┴─────┴──────┴──────────────┘
//
// The time is absolute and stored in PDP-11 order, the serial number is little-endian
// and starts at 1. The stream ends with AltFiller bytes padding it to the next
// AltBlockSize boundary.
package section
