package remedy

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

var commandContext = exec.CommandContext

// Command runs an external reordering program as "<program> -r <record> -a <annotator>".
type Command struct {
	program string
	dir     string
}

var _ Remediator = (*Command)(nil)

// NewCommand returns a Command that runs program in the working directory dir. An
// empty program selects DefaultProgram; an empty dir uses the current directory.
func NewCommand(program, dir string) *Command {
	if program == "" {
		program = DefaultProgram
	}

	return &Command{program: program, dir: dir}
}

// Program returns the program name.
func (c *Command) Program() string { return c.program }

// Remediate runs the program and waits for it. A missing program or a non-zero exit
// status is an error carrying the program's combined output.
func (c *Command) Remediate(ctx context.Context, target Target) error {
	cmd := commandContext(ctx, c.program, "-r", target.Record, "-a", target.Annotator) //nolint:gosec
	cmd.Dir = c.dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(output); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", c.Command(target), err, msg)
		}

		return fmt.Errorf("%s: %w", c.Command(target), err)
	}

	return nil
}

func (c *Command) Command(target Target) string {
	return CommandLine(c.program, target)
}
