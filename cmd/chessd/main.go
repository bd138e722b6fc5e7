// chessd serves chess games over HTTP and WebSocket, plays them in the
// terminal and checks the move generator with perft.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

const programVersion = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
