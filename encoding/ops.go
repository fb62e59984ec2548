package encoding

import (
	"fmt"

	"github.com/arloliu/annot/endian"
	"github.com/arloliu/annot/section"
)

// OpKind identifies the variant held by an Op.
type OpKind uint8

const (
	// OpEvent is the code word that starts a record: a type code and a short interval.
	OpEvent OpKind = iota + 1
	// OpTimeExtension adds a signed 32-bit interval to the running time (SKIP).
	OpTimeExtension
	// OpSetSubtype sets the subtype of the record in progress.
	OpSetSubtype
	// OpSetChannel changes the channel; later records inherit it.
	OpSetChannel
	// OpSetNum changes the num field; later records inherit it.
	OpSetNum
	// OpSetAux attaches auxiliary bytes to the record in progress.
	OpSetAux
)

func (k OpKind) String() string {
	switch k {
	case OpEvent:
		return "Event"
	case OpTimeExtension:
		return "TimeExtension"
	case OpSetSubtype:
		return "SetSubtype"
	case OpSetChannel:
		return "SetChannel"
	case OpSetNum:
		return "SetNum"
	case OpSetAux:
		return "SetAux"
	default:
		return "Unknown"
	}
}

// Op is one decoded or to-be-encoded unit of the standard format.
//
// Only the fields relevant to Kind are meaningful:
//   - OpEvent: Type and Data (the interval, 0..MaxDelta)
//   - OpTimeExtension: Skip
//   - OpSetSubtype, OpSetChannel, OpSetNum: Data (the raw 10-bit field)
//   - OpSetAux: Aux
type Op struct {
	Kind OpKind
	Type uint8
	Data uint16
	Skip int32
	Aux  []byte
}

// Size returns the number of bytes the op occupies on the wire.
func (op Op) Size() int {
	switch op.Kind {
	case OpTimeExtension:
		return section.WordSize + section.SkipSize
	case OpSetAux:
		n := len(op.Aux)
		return section.WordSize + n + n&1
	default:
		return section.WordSize
	}
}

// Append serializes the op and appends it to b.
func (op Op) Append(b []byte) []byte {
	switch op.Kind {
	case OpEvent:
		return section.MakeWord(op.Type, op.Data).Append(b)
	case OpTimeExtension:
		b = section.MakeWord(section.CodeSkip, 0).Append(b)
		return endian.AppendPDP32(b, op.Skip)
	case OpSetSubtype:
		return section.MakeWord(section.CodeSub, op.Data).Append(b)
	case OpSetChannel:
		return section.MakeWord(section.CodeChan, op.Data).Append(b)
	case OpSetNum:
		return section.MakeWord(section.CodeNum, op.Data).Append(b)
	case OpSetAux:
		n := len(op.Aux)
		b = section.MakeWord(section.CodeAux, uint16(n)).Append(b) //nolint:gosec
		b = append(b, op.Aux...)
		if n&1 == 1 {
			b = append(b, 0)
		}

		return b
	default:
		return b
	}
}

func (op Op) String() string {
	switch op.Kind {
	case OpEvent:
		return fmt.Sprintf("Event(type=%d, delta=%d)", op.Type, op.Data)
	case OpTimeExtension:
		return fmt.Sprintf("TimeExtension(%d)", op.Skip)
	case OpSetAux:
		return fmt.Sprintf("SetAux(%q)", op.Aux)
	default:
		return fmt.Sprintf("%s(%d)", op.Kind, op.Data)
	}
}

// signedField packs a signed byte-sized value into a 10-bit data field.
func signedField(v int8) uint16 {
	return uint16(int16(v)) & section.DataMask //nolint:gosec
}

// fieldInt8 recovers a signed byte-sized value from a data field by sign-extending
// its low byte.
func fieldInt8(data uint16) int8 {
	return int8(uint8(data)) //nolint:gosec
}
