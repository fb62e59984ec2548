// Package codes holds the annotation type-code tables: the built-in code constants,
// the mutable mnemonic and description tables, and the mapping between type codes and
// the one-byte tags of the alternate (AHA) wire format.
//
// A Table is an ordinary value with its own lifetime. Sessions receive one by
// injection; Default returns the process-wide table for callers that want the
// historical shared behavior.
//
// Tables are not safe for concurrent mutation. Like the rest of the annotation core
// they assume a single goroutine or external synchronization.
package codes

// Built-in annotation type codes.
const (
	NOTQRS   uint8 = 0  // not-QRS (not a getann/putann code)
	NORMAL   uint8 = 1  // normal beat
	LBBB     uint8 = 2  // left bundle branch block beat
	RBBB     uint8 = 3  // right bundle branch block beat
	ABERR    uint8 = 4  // aberrated atrial premature beat
	PVC      uint8 = 5  // premature ventricular contraction
	FUSION   uint8 = 6  // fusion of ventricular and normal beat
	NPC      uint8 = 7  // nodal (junctional) premature beat
	APC      uint8 = 8  // atrial premature contraction
	SVPB     uint8 = 9  // premature or ectopic supraventricular beat
	VESC     uint8 = 10 // ventricular escape beat
	NESC     uint8 = 11 // nodal (junctional) escape beat
	PACE     uint8 = 12 // paced beat
	UNKNOWN  uint8 = 13 // unclassifiable beat
	NOISE    uint8 = 14 // signal quality change
	ARFCT    uint8 = 16 // isolated QRS-like artifact
	STCH     uint8 = 18 // ST change
	TCH      uint8 = 19 // T-wave change
	SYSTOLE  uint8 = 20 // systole
	DIASTOLE uint8 = 21 // diastole
	NOTE     uint8 = 22 // comment annotation
	MEASURE  uint8 = 23 // measurement annotation
	PWAVE    uint8 = 24 // P-wave peak
	BBB      uint8 = 25 // left or right bundle branch block
	PACESP   uint8 = 26 // non-conducted pacer spike
	TWAVE    uint8 = 27 // T-wave peak
	RHYTHM   uint8 = 28 // rhythm change
	UWAVE    uint8 = 29 // U-wave peak
	LEARN    uint8 = 30 // learning
	FLWAV    uint8 = 31 // ventricular flutter wave
	VFON     uint8 = 32 // start of ventricular flutter/fibrillation
	VFOFF    uint8 = 33 // end of ventricular flutter/fibrillation
	AESC     uint8 = 34 // atrial escape beat
	SVESC    uint8 = 35 // supraventricular escape beat
	LINK     uint8 = 36 // link to external data (aux contains URL)
	NAPC     uint8 = 37 // non-conducted P-wave (blocked APB)
	PFUS     uint8 = 38 // fusion of paced and normal beat
	WFON     uint8 = 39 // waveform onset
	WFOFF    uint8 = 40 // waveform end
	RONT     uint8 = 41 // R-on-T premature ventricular contraction

	// MaxCode is the largest annotation type code the tables can describe.
	MaxCode uint8 = 49
)

// NumCodes is the number of entries in a Table.
const NumCodes = int(MaxCode) + 1

// Valid reports whether code can be written to an annotation stream.
func Valid(code int) bool {
	return 0 <= code && code <= int(MaxCode)
}
