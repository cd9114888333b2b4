package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		// Interrupted mid-session: exit quietly with the usual
		// SIGINT status.
		os.Exit(130)
	}
	fmt.Fprintln(os.Stderr, "modq:", err)
	os.Exit(1)
}
