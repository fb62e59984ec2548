package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/section"
)

func TestDetectFormat_MinimalStreams(t *testing.T) {
	ann := format.Annotation{Time: 42, Type: codes.NORMAL}

	std := encodeStandard(t, []format.Annotation{ann})
	require.Equal(t, format.Standard, DetectFormat(section.ParseWord(std)))

	alt := encodeAlternate(t, []format.Annotation{ann})
	require.Equal(t, format.Alternate, DetectFormat(section.ParseWord(alt)))

	// detection does not depend on what the caller expected: each stream decodes
	// under its detected format
	for _, data := range [][]byte{std, alt} {
		first := section.ParseWord(data)
		var dec RecordDecoder
		if DetectFormat(first) == format.Standard {
			dec = newStandardDecoder(t, data)
		} else {
			dec = newAlternateDecoder(data)
		}
		got, err := dec.Next()
		require.NoError(t, err)
		require.True(t, ann.Equal(got), "%s: got %s", dec.Format(), got)
	}
}

func TestDetectFormat_Rules(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		want  format.WireFormat
	}{
		{name: "sentinel only", bytes: []byte{0x00, 0x00}, want: format.Standard},
		{name: "non-zero low byte", bytes: []byte{0x01, 'N'}, want: format.Standard},
		{name: "high byte not a tag", bytes: []byte{0x00, 0x04}, want: format.Standard},
		{name: "unused tag", bytes: []byte{0x00, 'Z'}, want: format.Standard},
		{name: "bracket open", bytes: []byte{0x00, '['}, want: format.Standard},
		{name: "bracket close", bytes: []byte{0x00, ']'}, want: format.Standard},
		{name: "normal tag", bytes: []byte{0x00, 'N'}, want: format.Alternate},
		{name: "noise tag", bytes: []byte{0x00, 'U'}, want: format.Alternate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DetectFormat(section.ParseWord(tt.bytes)))
		})
	}
}
