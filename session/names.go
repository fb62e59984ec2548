package session

import (
	"fmt"

	"github.com/arloliu/annot/errs"
)

// CheckName reports whether name may be used as an annotator or record name: it must
// be non-empty and made of letters, digits, '_', '~', '-' and '/'.
func CheckName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("empty %s name: %w", kind, errs.ErrIllegalName)
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '_', c == '~', c == '-', c == '/':
		default:
			return fmt.Errorf("%s %q: %q: %w", kind, name, c, errs.ErrIllegalName)
		}
	}

	return nil
}
