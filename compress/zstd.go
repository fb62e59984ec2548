package compress

// ZstdCompressor provides Zstandard compression of annotation files.
//
// The default build uses the pure Go klauspost/compress/zstd implementation. Building
// with the gozstd tag (and cgo) switches to the valyala/gozstd bindings. Both produce
// standard zstd frames, so files written by one are read by the other.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
