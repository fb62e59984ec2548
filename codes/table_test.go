package codes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/errs"
)

func TestTable_Defaults(t *testing.T) {
	tbl := NewTable()

	require.Equal(t, "N", tbl.Mnemonic(int(NORMAL)))
	require.Equal(t, "V", tbl.Mnemonic(int(PVC)))
	require.Equal(t, "\"", tbl.Mnemonic(int(NOTE)))
	require.Equal(t, "Comment annotation", tbl.Description(int(NOTE)))
	require.Equal(t, "R-on-T premature ventricular contraction", tbl.Description(int(RONT)))
	require.Equal(t, "[45]", tbl.Mnemonic(45))
	require.Empty(t, tbl.Description(45))
	require.Empty(t, tbl.Modified())
}

func TestTable_OutOfRange(t *testing.T) {
	tbl := NewTable()

	require.Equal(t, "[50]", tbl.Mnemonic(50))
	require.Equal(t, "[-3]", tbl.Mnemonic(-3))
	require.Equal(t, "illegal annotation code", tbl.Description(99))
	require.False(t, tbl.IsModified(99))
}

func TestTable_Code(t *testing.T) {
	tbl := NewTable()

	code, ok := tbl.Code("V")
	require.True(t, ok)
	require.Equal(t, PVC, code)

	// code 0 (" ") is never returned by reverse lookup
	code, ok = tbl.Code(" ")
	require.False(t, ok)
	require.Equal(t, NOTQRS, code)

	_, ok = tbl.Code("no-such-mnemonic")
	require.False(t, ok)
}

func TestTable_Setters(t *testing.T) {
	t.Run("set mnemonic marks modified", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.SetMnemonic(42, "X"))
		require.Equal(t, "X", tbl.Mnemonic(42))
		require.True(t, tbl.IsModified(42))

		code, ok := tbl.Code("X")
		require.True(t, ok)
		require.Equal(t, uint8(42), code)
	})

	t.Run("set description marks modified", func(t *testing.T) {
		tbl := NewTable()
		require.NoError(t, tbl.SetDescription(43, "Custom event"))
		require.Equal(t, "Custom event", tbl.Description(43))
		require.Equal(t, []uint8{43}, tbl.Modified())
	})

	t.Run("illegal codes", func(t *testing.T) {
		tbl := NewTable()
		require.ErrorIs(t, tbl.SetMnemonic(0, "Z"), errs.ErrIllegalCode)
		require.ErrorIs(t, tbl.SetMnemonic(50, "Z"), errs.ErrIllegalCode)
		require.ErrorIs(t, tbl.SetDescription(-1, "Z"), errs.ErrIllegalCode)
		require.Empty(t, tbl.Modified())
	})

	t.Run("illegal mnemonic", func(t *testing.T) {
		tbl := NewTable()
		require.ErrorIs(t, tbl.SetMnemonic(42, ""), errs.ErrIllegalMnemonic)
		require.ErrorIs(t, tbl.SetMnemonic(42, "two words"), errs.ErrIllegalMnemonic)
	})
}

func TestTable_DefineDoesNotMarkModified(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.SetMnemonic(44, "old"))

	require.NoError(t, tbl.Define(44, "new", ""))
	require.Equal(t, "new", tbl.Mnemonic(44))
	require.Empty(t, tbl.Description(44), "empty description leaves the old one")
	require.False(t, tbl.IsModified(44))

	require.NoError(t, tbl.Define(44, "new", "With description"))
	require.Equal(t, "With description", tbl.Description(44))
}

func TestTable_ResetAndMarks(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.SetMnemonic(42, "X"))
	require.NoError(t, tbl.SetMnemonic(46, "Y"))
	require.Equal(t, []uint8{42, 46}, tbl.Modified())

	tbl.ResetModified()
	require.Empty(t, tbl.Modified())
	require.Equal(t, "X", tbl.Mnemonic(42))

	tbl.MarkModified(46, 200)
	require.Equal(t, []uint8{46}, tbl.Modified())

	tbl.Reset()
	require.Equal(t, "[42]", tbl.Mnemonic(42))
	require.Empty(t, tbl.Modified())
}

func TestLabel_RoundTrip(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.SetMnemonic(42, "X"))
	require.NoError(t, tbl.SetDescription(42, "Custom beat with spaces"))

	label := tbl.Label(42)
	require.Equal(t, "42 X Custom beat with spaces", label)

	code, mnemonic, desc, ok := ParseLabel(label)
	require.True(t, ok)
	require.Equal(t, 42, code)
	require.Equal(t, "X", mnemonic)
	require.Equal(t, "Custom beat with spaces", desc)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		ok       bool
		code     int
		mnemonic string
		desc     string
	}{
		{"full", "43 Q2 Second class", true, 43, "Q2", "Second class"},
		{"no description", "44 M", true, 44, "M", ""},
		{"tab separated", "45\tT\tTabbed", true, 45, "T", "Tabbed"},
		{"code only", "45", false, 0, "", ""},
		{"not a number", "abc X", false, 0, "", ""},
		{"comment", "# free text", false, 0, "", ""},
		{"code out of range", "77 X y", false, 0, "", ""},
		{"empty", "", false, 0, "", ""},
		{"plain comment", "hello world", false, 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, mnemonic, desc, ok := ParseLabel(tt.text)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.mnemonic, mnemonic)
			require.Equal(t, tt.desc, desc)
		})
	}
}
