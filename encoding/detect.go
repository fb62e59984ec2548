package encoding

import (
	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/section"
)

// DetectFormat classifies a stream by its first word.
//
// An alternate-format record starts with a zero byte followed by a legacy tag. The
// stream is classified as standard when the low byte is non-zero, when the high byte
// is not a legacy tag, or when it is one of the bracket tags, which a standard word
// can also produce.
func DetectFormat(first section.Word) format.WireFormat {
	if first.LowByte() != 0 {
		return format.Standard
	}

	tag := first.HighByte()
	if _, ok := codes.FromLegacy(tag); !ok || codes.IsBracketTag(tag) {
		return format.Standard
	}

	return format.Alternate
}
