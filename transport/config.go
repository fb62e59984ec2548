package transport

import (
	"fmt"
	"time"

	"github.com/arloliu/annot/config"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
)

// FromConfig builds the transport described by cfg: a Mux over the search path,
// wrapped in Compressed unless compression is "none".
func FromConfig(cfg config.Transport) (Transport, error) {
	mux := NewMux(cfg.SearchPath, cfg.PageSize, time.Duration(cfg.HTTPTimeout)*time.Second)

	ct, ok := format.ParseCompression(cfg.Compression)
	if !ok {
		return nil, fmt.Errorf("compression %q: %w", cfg.Compression, errs.ErrInvalidConfig)
	}
	if ct == format.CompressionNone {
		return mux, nil
	}

	compressed, err := NewCompressed(mux, ct)
	if err != nil {
		return nil, err
	}

	return compressed, nil
}
