package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/zach-snell/obsidian-go-mcp/internal/config"
	"github.com/zach-snell/obsidian-go-mcp/internal/gateway"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	opts := []gateway.Option{
		gateway.WithConfig(cfg),
	}

	if err := gateway.Run(context.Background(), opts...); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
