package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/section"
)

// commentPrefix marks a zero-time comment that is never a modification label.
const commentPrefix = '#'

// ParseModificationLabel reports whether a is a modification label: a zero-time
// comment whose aux text reads "<code> <mnemonic> [<description>]".
func ParseModificationLabel(a format.Annotation) (code int, mnemonic, description string, ok bool) {
	if a.Time != 0 || a.Type != codes.NOTE || len(a.Aux) == 0 || a.Aux[0] == commentPrefix {
		return 0, "", "", false
	}

	return codes.ParseLabel(string(a.Aux))
}

// ModificationLabel returns the zero-time comment that exports code from table.
func ModificationLabel(table *codes.Table, code uint8) format.Annotation {
	return format.Annotation{
		Type: codes.NOTE,
		Aux:  []byte(table.Label(int(code))),
	}
}

// ImportLabels reads the modification labels at the head of in and defines each one
// in table without marking it modified. The first annotation that is not a label is
// pushed back, and the labels become the stream header that SeekTime skips.
//
// A stream that ends, or is truncated, inside the labels is not an error here; the
// following Read reports the end of the stream.
//
// Returns:
//   - []uint8: Imported codes in file order
//   - error: A transport or decoding error other than the end of the stream
func ImportLabels(in *InputStream, table *codes.Table) ([]uint8, error) {
	var imported []uint8
	defer func() { in.SetHeader(len(imported)) }()

	for {
		a, err := in.Read()
		if errors.Is(err, io.EOF) || errors.Is(err, errs.ErrUnexpectedEOF) {
			return imported, nil
		}
		if err != nil {
			return imported, fmt.Errorf("import labels: %w", err)
		}

		code, mnemonic, description, ok := ParseModificationLabel(a)
		if ok && table.Define(code, mnemonic, description) == nil {
			imported = append(imported, uint8(code)) //nolint:gosec

			continue
		}

		if err := in.Unread(a); err != nil {
			return imported, fmt.Errorf("import labels: %w", err)
		}

		return imported, nil
	}
}

// ExportLabels writes one modification label per modified entry of table.
//
// Alternate-format aux holds only a few bytes. A label that does not fit is written
// without its description, and dropped with a warning when even that does not fit,
// so a reader never imports a cut mnemonic or description.
//
// Returns:
//   - int: Number of labels written
//   - error: The first write error
func ExportLabels(out *OutputStream, table *codes.Table) (int, error) {
	n := 0
	for _, code := range table.Modified() {
		a := ModificationLabel(table, code)
		if out.Format() == format.Alternate && len(a.Aux) > section.AltAuxLen {
			a.Aux = fmt.Appendf(nil, "%d %s", code, table.Mnemonic(int(code)))
			if len(a.Aux) > section.AltAuxLen {
				logging.WarnWithContext(out.logger, "modification label does not fit", "label_dropped",
					logging.Int("code", int(code)),
					logging.String("mnemonic", table.Mnemonic(int(code))),
				)

				continue
			}
		}
		if err := out.Write(a); err != nil {
			return n, fmt.Errorf("export label for code %d: %w", code, err)
		}
		n++
	}

	return n, nil
}
