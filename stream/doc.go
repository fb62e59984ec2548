// Package stream implements the per-stream state machines of annotation files.
//
// An InputStream decodes one annotation file. It detects the wire format from the
// first word, converts times to the caller's unit, and holds at most one pushed-back
// annotation:
//
//	Active ──sentinel──▶ LogicalEOF      Read returns io.EOF
//	   └────transport EOF──▶ PrematureEOF  Read returns errs.ErrUnexpectedEOF
//
// An OutputStream encodes annotations into one file and records whether they were
// written in canonical (time, channel) order. Close writes the end-of-stream marker
// and releases the transport handle:
//
//	Active ──Close──▶ Closed   Write returns errs.ErrStreamClosed
//
// Streams own exactly one transport handle each and release it exactly once.
// Neither type is safe for concurrent use.
package stream
