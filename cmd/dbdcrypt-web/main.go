package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/udisondev/dbdcrypt/internal/app"
	"github.com/udisondev/dbdcrypt/internal/config"
	"github.com/udisondev/dbdcrypt/internal/web"
)

const ConfigPath = "config/dbdcrypt.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("DBDCRYPT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadCrypter(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Info("dbdcrypt web starting", "addr", cfg.Web.Addr(), "feed", cfg.KeyFeed.Enabled, "cache", cfg.Database.Enabled)

	gin.SetMode(gin.ReleaseMode)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	defer a.Close()

	server := web.NewServer(a.Codec, a.Keys)

	if err := server.Run(ctx, cfg.Web.Addr()); err != nil {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}
