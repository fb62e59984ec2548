// Command sortann rewrites an annotation file in canonical (time, channel) order.
//
//	sortann -r 100 -a atr
//
// The file is rewritten in place, in the wire format it was read in, keeping the
// modification labels at its head.
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
