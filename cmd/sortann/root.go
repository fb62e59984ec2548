package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/annot/internal/cli"
	"github.com/arloliu/annot/internal/logging"
	"github.com/arloliu/annot/remedy"
	"github.com/arloliu/annot/session"
)

func newRootCommand() *cobra.Command {
	var record, annotator string

	rootCmd := &cobra.Command{
		Use:           "sortann -r record -a annotator",
		Short:         "Rearrange annotations in canonical order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	ctx := cli.Bind(rootCmd)

	rootCmd.Flags().StringVarP(&record, "record", "r", "", "Record name")
	rootCmd.Flags().StringVarP(&annotator, "annotator", "a", "", "Annotator name")
	_ = rootCmd.MarkFlagRequired("record")
	_ = rootCmd.MarkFlagRequired("annotator")

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := session.CheckName("record", record); err != nil {
			return err
		}
		if err := session.CheckName("annotator", annotator); err != nil {
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

		target := remedy.Target{Record: record, Annotator: annotator}
		if err := remedy.NewSorter(tr, logger).Remediate(cmd.Context(), target); err != nil {
			logging.ErrorWithContext(logger, "failed to rearrange annotations", "sort_failed",
				logging.String(logging.FieldRecord, record),
				logging.String(logging.FieldAnnotator, annotator),
				logging.Error(err),
			)

			return fmt.Errorf("sortann: %w", err)
		}

		return nil
	}

	return rootCmd
}
