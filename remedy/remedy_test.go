package remedy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/stream"
	"github.com/arloliu/annot/transport"
)

var target = Target{Record: "100", Annotator: "atr"}

func TestCommandLine(t *testing.T) {
	require.Equal(t, "sortann -r 100 -a atr", CommandLine("", target))
	require.Equal(t, "/opt/wfdb/sortann -r data/100 -a qrs",
		CommandLine("/opt/wfdb/sortann", Target{Record: "data/100", Annotator: "qrs"}))
	require.Equal(t, "100.atr", target.String())
}

func TestNoop(t *testing.T) {
	var r Remediator = Noop{}
	require.ErrorIs(t, r.Remediate(context.Background(), target), errs.ErrRemediationUnavailable)
	require.Equal(t, "sortann -r 100 -a atr", r.Command(target))
}

func withHelperProcess(t *testing.T, mode string, args *[]string) {
	t.Helper()

	original := commandContext
	commandContext = func(ctx context.Context, name string, a ...string) *exec.Cmd {
		*args = append([]string{name}, a...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "SORTANN_HELPER_MODE="+mode)

		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestCommand_Remediate(t *testing.T) {
	var args []string
	withHelperProcess(t, "success", &args)

	c := NewCommand("", t.TempDir())
	require.Equal(t, DefaultProgram, c.Program())
	require.NoError(t, c.Remediate(context.Background(), target))
	require.Equal(t, []string{"sortann", "-r", "100", "-a", "atr"}, args)
}

func TestCommand_RemediateFailure(t *testing.T) {
	var args []string
	withHelperProcess(t, "failure", &args)

	c := NewCommand("mysort", "")
	err := c.Remediate(context.Background(), target)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mysort -r 100 -a atr")
	require.Contains(t, err.Error(), "annotations corrupted")
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("SORTANN_HELPER_MODE") {
	case "failure":
		fmt.Fprintln(os.Stderr, "annotations corrupted")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

func writeFile(t *testing.T, mem *transport.Memory, f format.WireFormat, table *codes.Table, anns []format.Annotation) {
	t.Helper()

	h, err := mem.Open("100.atr", format.Write)
	require.NoError(t, err)
	out, err := stream.OpenOutput(h, f)
	require.NoError(t, err)
	if table != nil {
		_, err = stream.ExportLabels(out, table)
		require.NoError(t, err)
	}
	for _, a := range anns {
		require.NoError(t, out.Write(a))
	}
	require.NoError(t, out.Close())
}

func readFile(t *testing.T, mem *transport.Memory, table *codes.Table) (format.WireFormat, []format.Annotation) {
	t.Helper()

	h, err := mem.Open("100.atr", format.Read)
	require.NoError(t, err)
	in, err := stream.OpenInput(h)
	require.NoError(t, err)
	defer in.Close()

	_, err = stream.ImportLabels(in, table)
	require.NoError(t, err)

	var anns []format.Annotation
	for {
		a, err := in.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		anns = append(anns, a)
	}

	return in.Format(), anns
}

func TestSorter_Remediate(t *testing.T) {
	for _, f := range []format.WireFormat{format.Standard, format.Alternate} {
		t.Run(f.String(), func(t *testing.T) {
			mem := transport.NewMemory()
			writeFile(t, mem, f, nil, []format.Annotation{
				{Time: 300, Type: codes.NORMAL},
				{Time: 100, Type: codes.PVC, Chan: 1},
				{Time: 100, Type: codes.NORMAL, Chan: 0},
				{Time: 200, Type: codes.NOTE, Aux: []byte("x")},
			})

			s := NewSorter(mem, nil)
			require.Equal(t, "sortann -r 100 -a atr", s.Command(target))
			require.NoError(t, s.Remediate(context.Background(), target))

			got, anns := readFile(t, mem, codes.NewTable())
			require.Equal(t, f, got, "the wire format is preserved")
			require.Len(t, anns, 4)
			for i := 1; i < len(anns); i++ {
				require.Equal(t, -1, compareKey(anns[i-1], anns[i]), "out of order at %d", i)
			}
			require.Equal(t, codes.NORMAL, anns[0].Type)
			require.Equal(t, "x", string(anns[2].Aux))
		})
	}
}

func TestSorter_KeepsLabels(t *testing.T) {
	src := codes.NewTable()
	require.NoError(t, src.SetMnemonic(45, "Z"))
	require.NoError(t, src.SetDescription(45, "Zebra beat"))

	mem := transport.NewMemory()
	writeFile(t, mem, format.Standard, src, []format.Annotation{
		{Time: 50, Type: 45},
		{Time: 10, Type: codes.NORMAL},
	})

	require.NoError(t, NewSorter(mem, nil).Remediate(context.Background(), target))

	dst := codes.NewTable()
	_, anns := readFile(t, mem, dst)
	require.Equal(t, "Z", dst.Mnemonic(45))
	require.Equal(t, "Zebra beat", dst.Description(45))
	require.Len(t, anns, 2)
	require.Equal(t, int64(10), anns[0].Time)
	require.Equal(t, uint8(45), anns[1].Type)
}

func TestSorter_Errors(t *testing.T) {
	mem := transport.NewMemory()
	s := NewSorter(mem, nil)

	require.ErrorIs(t, s.Remediate(context.Background(), target), errs.ErrOpenFailed)

	writeFile(t, mem, format.Standard, nil, []format.Annotation{
		{Time: 30, Type: codes.NORMAL},
		{Time: 10, Type: codes.NORMAL},
	})
	data, _ := mem.Get("100.atr")
	mem.Put("100.atr", data[:len(data)-2])

	require.ErrorIs(t, s.Remediate(context.Background(), target), errs.ErrUnexpectedEOF)
	after, _ := mem.Get("100.atr")
	require.Equal(t, data[:len(data)-2], after, "a truncated file is left untouched")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mem.Put("100.atr", data)
	require.ErrorIs(t, s.Remediate(ctx, target), context.Canceled)
}
