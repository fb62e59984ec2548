package transport

import (
	"fmt"

	"github.com/arloliu/annot/compress"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/pool"
)

// Compressed stores annotation files compressed on top of another transport.
//
// Reading decompresses the whole file into memory. Writing buffers the stream and
// writes the compressed file when the handle is closed. The codec of a read is chosen
// by the file name suffix when the name has one, otherwise by Type. Writes always use
// Type and append its suffix to the name.
type Compressed struct {
	Inner Transport
	Type  format.CompressionType
}

var _ Transport = (*Compressed)(nil)

// NewCompressed wraps inner with the given compression type.
func NewCompressed(inner Transport, typ format.CompressionType) (*Compressed, error) {
	if _, err := compress.GetCodec(typ); err != nil {
		return nil, fmt.Errorf("compressed transport: %w: %w", errs.ErrInvalidConfig, err)
	}

	return &Compressed{Inner: inner, Type: typ}, nil
}

// CompressionFor returns the compression type implied by name's suffix.
func CompressionFor(name string) format.CompressionType {
	return compress.TypeForName(name)
}

// Open opens name through the inner transport.
func (c *Compressed) Open(name string, mode format.Mode) (Handle, error) {
	switch mode {
	case format.Read:
		return c.openRead(name)
	case format.Write:
		return c.openWrite(name)
	default:
		return nil, fmt.Errorf("open %s: %w", name, errs.ErrInvalidMode)
	}
}

func (c *Compressed) openRead(name string) (Handle, error) {
	typ := CompressionFor(name)
	if typ == format.CompressionNone {
		typ = c.Type
		name += compress.Suffix(typ)
	}
	codec, err := compress.GetCodec(typ)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailed, name, err)
	}

	inner, err := c.Inner.Open(name, format.Read)
	if err != nil {
		return nil, err
	}
	defer inner.Close()

	raw := pool.GetFileBuffer()
	defer pool.PutFileBuffer(raw)

	if _, err := raw.ReadFrom(inner); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	data, err := codec.Decompress(raw.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailed, name, err)
	}

	return &memFile{name: inner.Name(), mode: format.Read, data: data}, nil
}

func (c *Compressed) openWrite(name string) (Handle, error) {
	codec, err := compress.GetCodec(c.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailed, name, err)
	}
	if CompressionFor(name) == format.CompressionNone {
		name += compress.Suffix(c.Type)
	}

	inner, err := c.Inner.Open(name, format.Write)
	if err != nil {
		return nil, err
	}

	return &memFile{
		name: inner.Name(),
		mode: format.Write,
		onClose: func(data []byte) error {
			defer inner.Close()

			packed, err := codec.Compress(data)
			if err != nil {
				return fmt.Errorf("compress %s: %w", inner.Name(), err)
			}
			if _, err := inner.Write(packed); err != nil {
				return fmt.Errorf("write %s: %w", inner.Name(), err)
			}

			return inner.Close()
		},
	}, nil
}
