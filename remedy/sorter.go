package remedy

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/stream"
	"github.com/arloliu/annot/transport"
)

// Sorter reorders annotation files in process.
//
// The file is read completely with a private code table, sorted stably by (time,
// channel) and written back in the wire format it was read in. Modification labels
// found at the head of the file are written back at the head of the new file.
type Sorter struct {
	transport transport.Transport
	logger    *slog.Logger
	program   string
}

var _ Remediator = (*Sorter)(nil)

// NewSorter returns a Sorter that reads and writes files through t.
func NewSorter(t transport.Transport, logger *slog.Logger) *Sorter {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Sorter{
		transport: t,
		logger:    logging.NewComponentLogger(logger, "sorter"),
		program:   DefaultProgram,
	}
}

// Remediate rewrites the output file of target in canonical order. A truncated file is
// left untouched.
func (s *Sorter) Remediate(ctx context.Context, target Target) error {
	name := transport.FileName(target.Record, target.Annotator, format.Write)

	table := codes.NewTable()
	f, anns, err := s.load(ctx, name, table)
	if err != nil {
		return fmt.Errorf("reorder %s: %w", target, err)
	}

	slices.SortStableFunc(anns, compareKey)

	if err := s.store(name, f, table, anns); err != nil {
		return fmt.Errorf("reorder %s: %w", target, err)
	}

	s.logger.Debug("annotations reordered",
		logging.String(logging.FieldStream, name),
		logging.Int("count", len(anns)),
		logging.String(logging.FieldFormat, f.String()),
	)

	return nil
}

func (s *Sorter) Command(target Target) string {
	return CommandLine(s.program, target)
}

func compareKey(a, b format.Annotation) int {
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}

	return cmp.Compare(a.Chan, b.Chan)
}

// load reads every annotation of name. Imported labels are marked modified in table so
// that store exports them again.
func (s *Sorter) load(ctx context.Context, name string, table *codes.Table) (format.WireFormat, []format.Annotation, error) {
	h, err := s.transport.Open(name, format.Read)
	if err != nil {
		return 0, nil, err
	}

	in, err := stream.OpenInput(h, stream.WithLogger(s.logger))
	if err != nil {
		return 0, nil, err
	}
	defer in.Close()

	imported, err := stream.ImportLabels(in, table)
	if err != nil {
		return 0, nil, err
	}
	table.MarkModified(imported...)

	var anns []format.Annotation
	for {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}

		a, err := in.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, nil, err
		}
		anns = append(anns, a)
	}

	return in.Format(), anns, nil
}

func (s *Sorter) store(name string, f format.WireFormat, table *codes.Table, anns []format.Annotation) error {
	h, err := s.transport.Open(name, format.Write)
	if err != nil {
		return err
	}

	out, err := stream.OpenOutput(h, f, stream.WithLogger(s.logger))
	if err != nil {
		return err
	}

	if _, err := stream.ExportLabels(out, table); err != nil {
		return errors.Join(err, out.Close())
	}
	for _, a := range anns {
		if err := out.Write(a); err != nil {
			return errors.Join(err, out.Close())
		}
	}

	return out.Close()
}
