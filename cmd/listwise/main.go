package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"listwise/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintf(os.Stderr, "hint: %s\n", services.Hint(err))
		}
		os.Exit(1)
	}
}
