package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zach-snell/obsidian-go-mcp/internal/discovery"
	"github.com/zach-snell/obsidian-go-mcp/internal/resources"
	"github.com/zach-snell/obsidian-go-mcp/internal/rpcserver"
	"github.com/zach-snell/obsidian-go-mcp/internal/tools"
	"github.com/zach-snell/obsidian-go-mcp/internal/vaultclient"
)

const serverName = "obsidian-go-mcp"
const serverVersion = "1.0.0"

// Run builds the gateway from the given options and serves it until ctx
// is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("http_address", cfg.HTTPAddr),
		slog.String("upstream_base_url", cfg.UpstreamBaseURL),
		slog.String("vault_root_path", cfg.VaultRootPath),
		slog.String("tool_prefix", cfg.ToolPrefix))

	client := vaultclient.New(cfg.UpstreamBaseURL, cfg.UpstreamCredential)
	caches := discovery.NewCaches(cfg.TTLStructure, cfg.TTLNotes)
	discoverer := discovery.New(client, cfg.VaultRootPath, cfg.BatchSize, cfg.SearchSnippetRadius, caches)

	deps := &tools.Deps{
		Client:     client,
		Discoverer: discoverer,
		Caches:     caches,
		Logger:     logger,
	}
	registry := tools.NewRegistry(cfg.ToolPrefix, deps)
	router := resources.New(discoverer)

	rpc := rpcserver.New(registry, router, rpcserver.ServerInfo{Name: serverName, Version: serverVersion}, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rpc.Mux(),
		ReadHeaderTimeout: 30 * time.Second,
	}

	logger.Info("server starting", slog.String("http_address", cfg.HTTPAddr), slog.Int("tool_count", registry.Count()))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped successfully")
	return nil
}
