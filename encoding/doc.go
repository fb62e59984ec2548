// Package encoding translates annotations to and from the two annotation wire formats.
//
// # Standard format
//
// A standard-format stream is a sequence of 16-bit little-endian words. A record
// starts with a code word holding the annotation type and the interval since the
// previous record. Pseudo words may follow it to set the subtype, change the inherited
// channel or num, attach auxiliary data, or extend the time of the next record:
//
//	[SKIP interval] code|delta [SUB subtype] [CHN chan] [NUM num] [AUX len bytes pad]
//
// The encoder works on the tagged variant Op. EncodeOps computes the ops of a record,
// Op.Append serializes them:
//
//	var st encoding.WriteState
//	ops, err := encoding.EncodeOps(a, &st)
//	if err != nil {
//	    return err
//	}
//	for _, op := range ops {
//	    buf = op.Append(buf)
//	}
//
// StandardEncoder wraps the same steps around a pooled buffer. StandardDecoder reads
// words from an io.Reader and assembles them back into annotations, one record per
// call to Next.
//
// # Alternate format
//
// The alternate format stores every annotation in a fixed 16-byte record with an
// absolute time and a legacy one-byte type tag (see section.AltRecord). The stream
// ends with filler bytes up to a 1024-byte boundary. AppendAlternate and
// DecodeAlternate do the per-record mapping, AlternateEncoder and AlternateDecoder
// handle serial numbers and the end of the stream.
//
// # Detection
//
// DetectFormat classifies an input stream from its first word. Callers consume the
// word first and hand it to the decoder constructor:
//
//	first := section.ParseWord(head)
//	switch encoding.DetectFormat(first) {
//	case format.Standard:
//	    dec = encoding.NewStandardDecoder(r, first)
//	case format.Alternate:
//	    dec = encoding.NewAlternateDecoder(r, first)
//	}
//
// Times handled by this package are always in the stream's on-disk unit.
package encoding
