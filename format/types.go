package format

type (
	WireFormat      uint8
	Mode            uint8
	CompressionType uint8
)

const (
	Standard  WireFormat = 0x1 // Standard is the variable-length 16-bit word format with pseudo tags.
	Alternate WireFormat = 0x2 // Alternate is the fixed-field, block-padded legacy format.

	Read  Mode = 0x1 // Read opens an input annotation stream.
	Write Mode = 0x2 // Write opens an output annotation stream.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (f WireFormat) String() string {
	switch f {
	case Standard:
		return "Standard"
	case Alternate:
		return "Alternate"
	default:
		return "Unknown"
	}
}

func (m Mode) String() string {
	switch m {
	case Read:
		return "Read"
	case Write:
		return "Write"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a configuration name ("none", "zstd", "s2", "lz4") to a CompressionType.
// An empty name selects CompressionNone.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
