package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk2023060901/ai-translator-backend/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.CreateRootCommand(cli.NewFlags())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
