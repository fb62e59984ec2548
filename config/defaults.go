package config

// Default values.
const (
	DefaultMaxStreams  = 2
	DefaultSortCommand = "sortann"
	DefaultPageSize    = 32 * 1024
	DefaultHTTPTimeout = 30
	MaxStreamsLimit    = 256
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Streams: Streams{
			MaxInputs:  DefaultMaxStreams,
			MaxOutputs: DefaultMaxStreams,
		},
		Ordering: Ordering{
			AutoSort:    true,
			SortCommand: DefaultSortCommand,
		},
		Transport: Transport{
			SearchPath:  []string{"."},
			Compression: "none",
			PageSize:    DefaultPageSize,
			HTTPTimeout: DefaultHTTPTimeout,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}
