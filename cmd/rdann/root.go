package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/annot/codes"
	"github.com/arloliu/annot/errs"
	"github.com/arloliu/annot/format"
	"github.com/arloliu/annot/internal/cli"
	"github.com/arloliu/annot/remedy"
	"github.com/arloliu/annot/session"
)

type readOptions struct {
	record    string
	annotator string
	from      int64
	to        int64
	types     []string
	tsv       bool
}

func newRootCommand() *cobra.Command {
	var opts readOptions

	rootCmd := &cobra.Command{
		Use:           "rdann -r record -a annotator",
		Short:         "Print the annotations of a record",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	ctx := cli.Bind(rootCmd)

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.record, "record", "r", "", "Record name")
	flags.StringVarP(&opts.annotator, "annotator", "a", "", "Annotator name")
	flags.Int64VarP(&opts.from, "from", "f", 0, "First sample to print")
	flags.Int64VarP(&opts.to, "to", "t", 0, "Stop before this sample (0 prints to the end)")
	flags.StringSliceVarP(&opts.types, "type", "p", nil, "Print only these annotation mnemonics")
	flags.BoolVar(&opts.tsv, "tsv", false, "Print tab-separated values even on a terminal")
	_ = rootCmd.MarkFlagRequired("record")
	_ = rootCmd.MarkFlagRequired("annotator")

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := ctx.Config()
		if err != nil {
			return err
		}
		logger, err := ctx.Logger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		tr, err := ctx.Transport()
		if err != nil {
			return err
		}

		s, err := session.New(opts.record,
			session.WithConfig(*cfg),
			session.WithTransport(tr),
			session.WithTable(codes.NewTable()),
			session.WithRemediator(remedy.Noop{}),
			session.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		defer s.CloseAll(cmd.Context()) //nolint:errcheck

		rows, err := readRows(s, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !opts.tsv && isTerminal(out) {
			_, err = fmt.Fprintln(out, renderTable(rows))
		} else {
			_, err = io.WriteString(out, renderTSV(rows))
		}

		return err
	}

	return rootCmd
}

// readRows reads the annotations selected by opts.
func readRows(s *session.Session, opts readOptions) ([][]string, error) {
	hs, err := s.Open(format.StreamSpec{Name: opts.annotator, Mode: format.Read})
	if err != nil {
		return nil, err
	}
	h := hs[0]

	keep, err := typeFilter(s.Table(), opts.types)
	if err != nil {
		return nil, err
	}
	if opts.from > 0 {
		if err := s.SeekTime(opts.from); err != nil {
			return nil, err
		}
	}

	var rows [][]string
	for {
		a, err := s.Read(h)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if opts.to > 0 && a.Time >= opts.to {
			return rows, nil
		}
		if keep != nil && !keep[a.Type] {
			continue
		}
		rows = append(rows, row(s.Table(), a))
	}
}

// typeFilter maps mnemonics to the set of codes to keep. No mnemonics keeps all.
func typeFilter(table *codes.Table, mnemonics []string) (map[uint8]bool, error) {
	if len(mnemonics) == 0 {
		return nil, nil //nolint:nilnil
	}

	keep := make(map[uint8]bool, len(mnemonics))
	for _, m := range mnemonics {
		code, ok := table.Code(strings.TrimSpace(m))
		if !ok {
			return nil, fmt.Errorf("annotation type %q: %w", m, errs.ErrIllegalMnemonic)
		}
		keep[code] = true
	}

	return keep, nil
}
