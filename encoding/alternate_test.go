package encoding

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/section"
)

func encodeAlternate(t *testing.T, anns []format.Annotation) []byte {
	t.Helper()

	enc := NewAlternateEncoder()
	defer enc.Finish()

	for _, a := range anns {
		require.NoError(t, enc.Write(a))
	}
	enc.WriteEOF()

	return bytes.Clone(enc.Bytes())
}

func newAlternateDecoder(data []byte) *AlternateDecoder {
	return NewAlternateDecoder(bytes.NewReader(data[section.WordSize:]), section.ParseWord(data))
}

func TestAlternate_RoundTrip(t *testing.T) {
	anns := []format.Annotation{
		{Time: 100, Type: codes.NORMAL},
		{Time: 250, Type: codes.PVC, Chan: 1},
		{Time: 250, Type: codes.NOTE, Aux: []byte("AFIB")},
		{Time: 90000, Type: codes.NOISE, Subtype: -1},
		{Time: 1 << 30, Type: codes.VFON, Subtype: 3, Chan: 2, Aux: []byte("abcdef")},
	}

	data := encodeAlternate(t, anns)
	require.Zero(t, len(data)%section.AltBlockSize)
	require.Len(t, data, section.AltBlockSize)

	for i := range anns {
		rec := data[i*section.AltRecSize:]
		require.Equal(t, byte(0), rec[0])
		require.Equal(t, uint16(i+1), uint16(rec[6])|uint16(rec[7])<<8, "serial numbers start at 1")
	}
	for _, b := range data[len(anns)*section.AltRecSize:] {
		require.Equal(t, byte(section.AltFiller), b)
	}

	var got []format.Annotation
	for a, err := range All(newAlternateDecoder(data)) {
		require.NoError(t, err)
		got = append(got, a)
	}
	requireSameAnnotations(t, anns, got)
}

func TestAlternate_FieldMapping(t *testing.T) {
	tests := []struct {
		name string
		in   format.Annotation
		want format.Annotation
	}{
		{
			name: "num is dropped",
			in:   format.Annotation{Time: 1, Type: codes.NORMAL, Num: 4},
			want: format.Annotation{Time: 1, Type: codes.NORMAL},
		},
		{
			name: "aux is cut to six bytes",
			in:   format.Annotation{Time: 1, Type: codes.NOTE, Aux: []byte("abcdefgh")},
			want: format.Annotation{Time: 1, Type: codes.NOTE, Aux: []byte("abcdef")},
		},
		{
			name: "beat classes collapse to normal",
			in:   format.Annotation{Time: 1, Type: codes.LBBB},
			want: format.Annotation{Time: 1, Type: codes.NORMAL},
		},
		{
			name: "unmapped code becomes a comment",
			in:   format.Annotation{Time: 1, Type: codes.MaxCode},
			want: format.Annotation{Time: 1, Type: codes.NOTE},
		},
		{
			name: "readable noise becomes a comment",
			in:   format.Annotation{Time: 1, Type: codes.NOISE, Subtype: 2},
			want: format.Annotation{Time: 1, Type: codes.NOTE, Subtype: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := AppendAlternate(nil, tt.in, 1)
			require.NoError(t, err)

			var ar section.AltRecord
			require.NoError(t, ar.Parse(rec))
			got := DecodeAlternate(&ar)
			require.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDecodeAlternate_NoiseSubtype(t *testing.T) {
	ar := section.AltRecord{Tag: codes.LegacyNoise, Time: 5, Serial: 1}
	a := DecodeAlternate(&ar)
	require.Equal(t, codes.NOISE, a.Type)
	require.Equal(t, int8(-1), a.Subtype)

	ar.Tag = 'Z' // no type code
	require.Equal(t, codes.NOTQRS, DecodeAlternate(&ar).Type)
}

func TestAlternate_FullBlockPadding(t *testing.T) {
	anns := make([]format.Annotation, section.AltBlockSize/section.AltRecSize)
	for i := range anns {
		anns[i] = format.Annotation{Time: int64(i), Type: codes.NORMAL}
	}

	data := encodeAlternate(t, anns)
	require.Len(t, data, 2*section.AltBlockSize, "an aligned stream gets a whole block of filler")

	empty := encodeAlternate(t, nil)
	require.Len(t, empty, section.AltBlockSize)
}

func TestAlternateEncoder_Errors(t *testing.T) {
	enc := NewAlternateEncoder()
	defer enc.Finish()

	require.ErrorIs(t, enc.Write(format.Annotation{Time: math.MaxInt32 + 1}), errs.ErrTimeOutOfRange)
	require.ErrorIs(t, enc.Write(format.Annotation{Type: codes.MaxCode + 1}), errs.ErrIllegalCode)
	require.Zero(t, enc.Serial(), "failed writes do not consume serial numbers")
	require.Zero(t, enc.Size())
}

func TestAlternateDecoder_SerialMismatch(t *testing.T) {
	var data []byte
	var err error
	for _, serial := range []uint16{1, 2, 5} {
		data, err = AppendAlternate(data, format.Annotation{Time: int64(serial), Type: codes.NORMAL}, serial)
		require.NoError(t, err)
	}
	data = append(data, bytes.Repeat([]byte{section.AltFiller}, section.AltPadding(int64(len(data))))...)

	type mismatch struct{ want, got uint16 }
	var seen []mismatch

	dec := newAlternateDecoder(data)
	dec.OnSerialMismatch(func(want, got uint16) {
		seen = append(seen, mismatch{want, got})
	})

	n := 0
	for _, err := range All(dec) {
		require.NoError(t, err)
		n++
	}
	require.Equal(t, 3, n, "records with unexpected serial numbers are still delivered")
	require.Equal(t, []mismatch{{want: 3, got: 5}}, seen)
	require.Equal(t, uint16(5), dec.LastSerial())
}

func TestAlternateDecoder_Truncated(t *testing.T) {
	rec, err := AppendAlternate(nil, format.Annotation{Time: 7, Type: codes.PVC}, 1)
	require.NoError(t, err)

	dec := newAlternateDecoder(rec)
	a, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, codes.PVC, a.Type)

	_, err = dec.Next()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
	require.True(t, dec.Truncated())

	// a partial record is also truncation
	dec = newAlternateDecoder(rec[:10])
	_, err = dec.Next()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestAlternateDecoder_ShortFiller(t *testing.T) {
	rec, err := AppendAlternate(nil, format.Annotation{Time: 7, Type: codes.PVC}, 1)
	require.NoError(t, err)
	rec = append(rec, section.AltFiller, section.AltFiller)

	dec := newAlternateDecoder(rec)
	_, err = dec.Next()
	require.NoError(t, err)
	_, err = dec.Next()
	require.ErrorIs(t, err, io.EOF)
	_, err = dec.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestAlternateDecoder_ReaderErrorIsSticky(t *testing.T) {
	data := encodeAlternate(t, []format.Annotation{
		{Time: 100, Type: codes.NORMAL},
		{Time: 200, Type: codes.NORMAL},
	})
	errDisk := errors.New("disk failure")
	r := &flakyReader{r: bytes.NewReader(data[section.WordSize:]), fails: 1, err: errDisk}
	dec := NewAlternateDecoder(r, section.ParseWord(data))

	for range 2 {
		_, err := dec.Next()
		require.ErrorIs(t, err, errDisk)
	}
	require.Zero(t, r.fails)
}
