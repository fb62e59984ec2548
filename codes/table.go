package codes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/annot/errs"
)

var defaultMnemonics = [NumCodes]string{
	" ", "N", "L", "R", "a", // 0 - 4
	"V", "F", "J", "A", "S", // 5 - 9
	"E", "j", "/", "Q", "~", // 10 - 14
	"[15]", "|", "[17]", "s", "T", // 15 - 19
	"*", "D", "\"", "=", "p", // 20 - 24
	"B", "^", "t", "+", "u", // 25 - 29
	"?", "!", "[", "]", "e", // 30 - 34
	"n", "@", "x", "f", "(", // 35 - 39
	")", "r", "[42]", "[43]", "[44]", // 40 - 44
	"[45]", "[46]", "[47]", "[48]", "[49]", // 45 - 49
}

var defaultDescriptions = [NumCodes]string{
	"",
	"Normal beat",
	"Left bundle branch block beat",
	"Right bundle branch block beat",
	"Aberrated atrial premature beat",
	"Premature ventricular contraction",
	"Fusion of ventricular and normal beat",
	"Nodal (junctional) premature beat",
	"Atrial premature beat",
	"Supraventricular premature or ectopic beat",
	"Ventricular escape beat",
	"Nodal (junctional) escape beat",
	"Paced beat",
	"Unclassifiable beat",
	"Change in signal quality",
	"",
	"Isolated QRS-like artifact",
	"",
	"ST segment change",
	"T-wave change",
	"Systole",
	"Diastole",
	"Comment annotation",
	"Measurement annotation",
	"P-wave peak",
	"Bundle branch block beat (unspecified)",
	"(Non-captured) pacemaker artifact",
	"T-wave peak",
	"Rhythm change",
	"U-wave peak",
	"Beat not classified during learning",
	"Ventricular flutter wave",
	"Start of ventricular flutter/fibrillation",
	"End of ventricular flutter/fibrillation",
	"Atrial escape beat",
	"Supraventricular escape beat",
	"Link to external data (aux contains URL)",
	"Non-conducted P-wave (blocked APC)",
	"Fusion of paced and normal beat",
	"Waveform onset",
	"Waveform end",
	"R-on-T premature ventricular contraction",
}

type entry struct {
	mnemonic    string
	description string
	modified    bool
}

// Table maps annotation type codes to mnemonics and descriptions.
//
// Entries changed through SetMnemonic or SetDescription are flagged as modified. An
// output session exports modified entries in-band so that readers without prior
// knowledge of the custom codes can interpret the stream.
type Table struct {
	entries [NumCodes]entry
}

// NewTable returns a table initialized with the built-in definitions.
func NewTable() *Table {
	t := &Table{}
	t.Reset()

	return t
}

var defaultTable = NewTable()

// Default returns the process-wide table.
func Default() *Table {
	return defaultTable
}

// Reset restores the built-in definitions and clears every modified flag.
func (t *Table) Reset() {
	for i := range t.entries {
		t.entries[i] = entry{
			mnemonic:    defaultMnemonics[i],
			description: defaultDescriptions[i],
		}
	}
}

// Mnemonic returns the mnemonic for code. Codes outside the table render as "[code]".
func (t *Table) Mnemonic(code int) string {
	if !Valid(code) {
		return fmt.Sprintf("[%d]", code)
	}

	return t.entries[code].mnemonic
}

// Code returns the type code whose mnemonic is s. Code 0 is never matched.
func (t *Table) Code(s string) (uint8, bool) {
	for code := 1; code < NumCodes; code++ {
		if t.entries[code].mnemonic == s {
			return uint8(code), true //nolint:gosec
		}
	}

	return NOTQRS, false
}

// Description returns the human-readable description of code.
func (t *Table) Description(code int) string {
	if !Valid(code) {
		return "illegal annotation code"
	}

	return t.entries[code].description
}

// SetMnemonic redefines the mnemonic of code and marks the entry modified.
func (t *Table) SetMnemonic(code int, mnemonic string) error {
	if err := checkSettable(code); err != nil {
		return fmt.Errorf("set mnemonic: %w", err)
	}
	if err := checkMnemonic(mnemonic); err != nil {
		return fmt.Errorf("set mnemonic for code %d: %w", code, err)
	}

	t.entries[code].mnemonic = mnemonic
	t.entries[code].modified = true

	return nil
}

// SetDescription redefines the description of code and marks the entry modified.
func (t *Table) SetDescription(code int, description string) error {
	if err := checkSettable(code); err != nil {
		return fmt.Errorf("set description: %w", err)
	}

	t.entries[code].description = description
	t.entries[code].modified = true

	return nil
}

// Define sets the mnemonic, and the description when it is non-empty, without
// marking the entry modified. Definitions read from an input stream use it so that
// they are not exported again by outputs of the same process.
func (t *Table) Define(code int, mnemonic, description string) error {
	if !Valid(code) {
		return fmt.Errorf("define code %d: %w", code, errs.ErrIllegalCode)
	}
	if err := checkMnemonic(mnemonic); err != nil {
		return fmt.Errorf("define code %d: %w", code, err)
	}

	t.entries[code].mnemonic = mnemonic
	if description != "" {
		t.entries[code].description = description
	}
	t.entries[code].modified = false

	return nil
}

// IsModified reports whether code has been redefined since the last reset.
func (t *Table) IsModified(code int) bool {
	return Valid(code) && t.entries[code].modified
}

// Modified returns the modified codes in ascending order.
func (t *Table) Modified() []uint8 {
	var out []uint8
	for code := range t.entries {
		if t.entries[code].modified {
			out = append(out, uint8(code)) //nolint:gosec
		}
	}

	return out
}

// MarkModified flags the given codes as modified. Invalid codes are ignored.
func (t *Table) MarkModified(codes ...uint8) {
	for _, code := range codes {
		if Valid(int(code)) {
			t.entries[code].modified = true
		}
	}
}

// ResetModified clears every modified flag but keeps the current definitions.
func (t *Table) ResetModified() {
	for i := range t.entries {
		t.entries[i].modified = false
	}
}

// Label formats the self-description text for code: "<code> <mnemonic> <description>".
// The trailing description is omitted when it is empty.
func (t *Table) Label(code int) string {
	desc := t.Description(code)
	if desc == "" {
		return fmt.Sprintf("%d %s", code, t.Mnemonic(code))
	}

	return fmt.Sprintf("%d %s %s", code, t.Mnemonic(code), desc)
}

// ParseLabel splits self-description text into its code, mnemonic and optional
// description. It reports false when the text does not have that shape.
func ParseLabel(text string) (code int, mnemonic, description string, ok bool) {
	text = strings.TrimLeft(text, " \t")
	codeStr, rest, found := cutSpace(text)
	if !found {
		return 0, "", "", false
	}

	code, err := strconv.Atoi(codeStr)
	if err != nil || !Valid(code) {
		return 0, "", "", false
	}

	rest = strings.TrimLeft(rest, " \t")
	mnemonic, description, _ = cutSpace(rest)
	if mnemonic == "" {
		return 0, "", "", false
	}

	return code, mnemonic, description, true
}

func cutSpace(s string) (before, after string, found bool) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, "", false
	}

	return s[:i], s[i+1:], true
}

func checkSettable(code int) error {
	if code <= 0 || code > int(MaxCode) {
		return fmt.Errorf("code %d: %w", code, errs.ErrIllegalCode)
	}

	return nil
}

func checkMnemonic(s string) error {
	if s == "" || strings.ContainsAny(s, " \t\r\n\x00") {
		return fmt.Errorf("%q: %w", s, errs.ErrIllegalMnemonic)
	}

	return nil
}
