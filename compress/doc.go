// Package compress provides whole-file codecs for compressed annotation files.
//
// Annotation files are small and written once, so the codecs work on complete
// byte slices: a compressed transport reads the whole file, decompresses it, and
// serves the decoder from memory. On write it buffers the stream and compresses
// it when the file is closed.
//
// Supported algorithms, selected by format.CompressionType:
//   - None: bytes are stored as they are
//   - Zstd: zstd frames (klauspost/compress, or valyala/gozstd with the gozstd build tag)
//   - S2: S2 stream format (klauspost/compress/s2)
//   - LZ4: LZ4 frame format (pierrec/lz4/v4)
//
// Every format is self-delimiting, so files can also be handled by the standard
// command-line tools of each algorithm. TypeForName maps the usual file suffixes
// back to a compression type:
//
//	codec, err := compress.GetCodec(compress.TypeForName("100.atr.zst"))
//	if err != nil {
//	    return err
//	}
//	plain, err := codec.Decompress(data)
package compress
