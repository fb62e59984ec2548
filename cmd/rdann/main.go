// Command rdann prints the annotations of a record.
//
//	rdann -r 100 -a atr [-f from] [-t to] [-p N,V]
//
// Output is a table on a terminal and tab-separated values otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
