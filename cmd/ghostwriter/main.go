// Command ghostwriter watches an e-ink tablet for a corner tap, sends the
// screen to a vision model and writes or draws the answer back.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Ctrl-C / SIGTERM interrupt the trigger wait; a cycle in progress finishes its strokes first.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
