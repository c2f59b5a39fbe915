package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kasalog/internal/cli"
	"kasalog/internal/util/logx"
)

func main() {
	logx.SetLevelFromEnv()

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx)
	cancel()
	os.Exit(code)
}
