package section

const (
	// Bit masks of a standard-format word
	CodeMask  = 0xFC00 // Mask for the code field (bits 10-15)
	DataMask  = 0x03FF // Mask for the data field (bits 0-9)
	CodeShift = 10     // Number of places the code field is shifted

	// MaxDelta is the longest interval that fits the data field of an annotation word.
	MaxDelta = DataMask

	// Pseudo tag codes (code field values)
	CodeSkip = 59 // CodeSkip is followed by a 32-bit interval (long null annotation).
	CodeNum  = 60 // CodeNum changes the num field.
	CodeSub  = 61 // CodeSub sets the subtype.
	CodeChan = 62 // CodeChan changes the chan field.
	CodeAux  = 63 // CodeAux introduces auxiliary data.

	// PseudoMin is the smallest pseudo tag code.
	PseudoMin = CodeSkip

	// AuxLenMask extracts the auxiliary length from the data field of an AUX word.
	AuxLenMask = 0x00FF
)

// offset and section sizes of the fixed-size units
const (
	WordSize     = 2    // size of a standard-format word in bytes
	SkipSize     = 4    // size of the interval following a SKIP word
	MaxAuxLen    = 255  // maximum auxiliary payload of a standard record
	AltRecSize   = 16   // fixed alternate-format record size in bytes
	AltAuxLen    = 6    // fixed alternate-format auxiliary field size
	AltBlockSize = 1024 // alternate-format files are padded to this boundary
	AltFiller    = 0xFF // padding byte marking the end of an alternate-format file
)
