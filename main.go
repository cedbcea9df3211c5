// ABOUTME: Entry point for the chime clip player
// ABOUTME: Runs the CLI until it finishes or a shutdown signal arrives
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/chime-audio/chime/internal/cli"
)

func main() {
	// Stop playback cleanly on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		log.Error("chime failed", "err", err)
		stop()
		os.Exit(1)
	}
}
