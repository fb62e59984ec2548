// Package format defines the data model shared by the annotation codec packages:
// the Annotation record, the two wire formats, stream modes and the compression
// types understood by the transport layer.
package format

import (
	"bytes"
	"fmt"
)

// Annotation is one point event in an annotation stream.
//
// Time is measured in sample intervals from the beginning of the recording. Chan and
// Num are inherited from the previous annotation of the same stream when a record does
// not change them, so decoders always fill them in.
//
// Aux is owned by the annotation. It may contain embedded zero bytes and holds at most
// 255 bytes in the standard format and 6 bytes in the alternate format.
type Annotation struct {
	Time    int64
	Type    uint8
	Subtype int8
	Chan    uint8
	Num     int8
	Aux     []byte
}

// HasAux reports whether the annotation carries auxiliary data.
func (a Annotation) HasAux() bool {
	return len(a.Aux) > 0
}

// Clone returns a deep copy of the annotation.
func (a Annotation) Clone() Annotation {
	if a.Aux != nil {
		a.Aux = bytes.Clone(a.Aux)
	}

	return a
}

// Equal reports whether two annotations have identical fields. A nil Aux and an empty
// Aux compare equal.
func (a Annotation) Equal(b Annotation) bool {
	return a.Time == b.Time && a.Type == b.Type && a.Subtype == b.Subtype &&
		a.Chan == b.Chan && a.Num == b.Num && bytes.Equal(a.Aux, b.Aux)
}

// Less orders annotations canonically: time first, then channel.
func (a Annotation) Less(b Annotation) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}

	return a.Chan < b.Chan
}

func (a Annotation) String() string {
	return fmt.Sprintf("{t=%d type=%d sub=%d chan=%d num=%d aux=%q}",
		a.Time, a.Type, a.Subtype, a.Chan, a.Num, a.Aux)
}

// StreamSpec names one stream to open in a session: the annotator name, the direction
// and the expected (input) or requested (output) wire format.
type StreamSpec struct {
	Name   string
	Mode   Mode
	Format WireFormat
}
