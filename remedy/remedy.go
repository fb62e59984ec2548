// Package remedy reorders annotation files that were written out of canonical
// (time, channel) order.
//
// A session calls its Remediator when it closes an output stream whose ordering flag
// is set. Three implementations are provided:
//
//   - Noop never reorders; the session reports the manual command instead.
//   - Command runs an external program (sortann by default).
//   - Sorter reorders the file in process through a transport.
package remedy

import (
	"context"
	"fmt"

	"github.com/arloliu/annot/errs"
)

// DefaultProgram is the reordering utility named in manual remediation messages.
const DefaultProgram = "sortann"

// Target identifies the annotation file to reorder.
type Target struct {
	Record    string
	Annotator string
}

func (t Target) String() string {
	return t.Record + "." + t.Annotator
}

// Remediator reorders a finalized annotation file.
type Remediator interface {
	// Remediate rewrites the file identified by target in canonical order.
	Remediate(ctx context.Context, target Target) error
	// Command returns the shell command an operator can run to do the same by hand.
	Command(target Target) string
}

// CommandLine formats the invocation of program for target.
func CommandLine(program string, target Target) string {
	if program == "" {
		program = DefaultProgram
	}

	return fmt.Sprintf("%s -r %s -a %s", program, target.Record, target.Annotator)
}

// Noop is a Remediator that never reorders.
type Noop struct {
	// Program is named in the manual command. Empty means DefaultProgram.
	Program string
}

var _ Remediator = Noop{}

func (n Noop) Remediate(_ context.Context, target Target) error {
	return fmt.Errorf("reorder %s: %w", target, errs.ErrRemediationUnavailable)
}

func (n Noop) Command(target Target) string {
	return CommandLine(n.Program, target)
}
