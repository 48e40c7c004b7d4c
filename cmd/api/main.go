package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"formkit/internal/app"
	"formkit/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	if err := app.RunServer(ctx, cfg); err != nil {
		slog.Error("run server", "error", err)
		os.Exit(1)
	}
}
