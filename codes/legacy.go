package codes

// Legacy tags used by the alternate (AHA) wire format.
const (
	LegacyNormal  byte = 'N'
	LegacyPVC     byte = 'V'
	LegacyFusion  byte = 'F'
	LegacyRonT    byte = 'R'
	LegacyEscape  byte = 'E'
	LegacyPaced   byte = 'P'
	LegacyUnknown byte = 'Q'
	LegacyNoise   byte = 'U'
	LegacyOther   byte = 'O'
	LegacyVFOn    byte = '['
	LegacyVFOff   byte = ']'
)

// fromLegacy maps legacy tags 'E' through ']' to type codes. NOTQRS marks an unused tag.
var fromLegacy = [...]uint8{
	VESC,    // 'E'
	FUSION,  // 'F'
	NOTQRS,  // 'G'
	NOTQRS,  // 'H'
	NOTQRS,  // 'I'
	NOTQRS,  // 'J'
	NOTQRS,  // 'K'
	NOTQRS,  // 'L'
	NOTQRS,  // 'M'
	NORMAL,  // 'N'
	NOTE,    // 'O'
	PACE,    // 'P'
	UNKNOWN, // 'Q'
	RONT,    // 'R'
	NOTQRS,  // 'S'
	NOTQRS,  // 'T'
	NOISE,   // 'U'
	PVC,     // 'V'
	NOTQRS,  // 'W'
	NOTQRS,  // 'X'
	NOTQRS,  // 'Y'
	NOTQRS,  // 'Z'
	VFON,    // '['
	NOTQRS,  // '\\'
	VFOFF,   // ']'
}

// toLegacy maps type codes to legacy tags.
var toLegacy = [NumCodes]byte{
	'O', // NOTQRS
	'N', // NORMAL
	'N', // LBBB
	'N', // RBBB
	'N', // ABERR
	'V', // PVC
	'F', // FUSION
	'N', // NPC
	'N', // APC
	'N', // SVPB
	'E', // VESC
	'N', // NESC
	'P', // PACE
	'Q', // UNKNOWN
	'U', // NOISE
	'O', // 15
	'O', // ARFCT
	'O', // 17
	'O', // STCH
	'O', // TCH
	'O', // SYSTOLE
	'O', // DIASTOLE
	'O', // NOTE
	'O', // MEASURE
	'O', // PWAVE
	'N', // BBB
	'O', // PACESP
	'O', // TWAVE
	'O', // RHYTHM
	'O', // UWAVE
	'Q', // LEARN
	'O', // FLWAV
	'[', // VFON
	']', // VFOFF
	'N', // AESC
	'N', // SVESC
	'O', // LINK
	'O', // NAPC
	'P', // PFUS
	'O', // WFON
	'O', // WFOFF
	'R', // RONT
	'O', 'O', 'O', 'O', 'O', 'O', 'O', 'O', // 42 - 49
}

// FromLegacy maps a legacy tag to a type code. It reports false for tags that have
// no type code.
func FromLegacy(tag byte) (uint8, bool) {
	if tag < 'E' || tag > ']' {
		return NOTQRS, false
	}
	code := fromLegacy[tag-'E']

	return code, code != NOTQRS
}

// ToLegacy maps a type code and subtype to a legacy tag. Noise annotations keep the
// 'U' tag only for subtype -1 (unreadable); other noise and every unmapped code
// become 'O'.
func ToLegacy(code uint8, subtype int8) byte {
	if !Valid(int(code)) {
		return LegacyOther
	}
	if code == NOISE && subtype != -1 {
		return LegacyOther
	}

	return toLegacy[code]
}

// IsBracketTag reports whether tag is one of the reserved ventricular flutter bracket
// tags. A stream starting with a bracket tag is never classified as alternate format.
func IsBracketTag(tag byte) bool {
	return tag == LegacyVFOn || tag == LegacyVFOff
}
