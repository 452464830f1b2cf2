package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/follow-rotator/cliparse"
	"github.com/danielhkuo/follow-rotator/db"
	"github.com/danielhkuo/follow-rotator/platform"
	"github.com/danielhkuo/follow-rotator/router"
)

func main() {
	var err error

	// .env is for local development only
	if err := cliparse.LoadEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Platform registry, optionally extended from YAML
	registry := platform.Default()
	if cfg.PlatformsFile != "" {
		registry, err = platform.LoadFile(cfg.PlatformsFile)
		if err != nil {
			slog.Error("failed to load platforms", "file", cfg.PlatformsFile, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Platforms ready", "count", registry.Len(), "strict", cfg.StrictPlatforms)

	// Stats database is optional
	var store *db.Store
	if cfg.StatsEnabled() {
		store, err = db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("stats database unavailable", "type", cfg.DatabaseType, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		slog.Info("Database schema ready", "type", cfg.DatabaseType)
	} else {
		slog.Info("Link stats disabled (no DATABASE_URL)")
	}

	// Create router
	handler := router.NewRouter(store, cfg, registry)

	// Overlay streams end when this context is cancelled on shutdown
	baseCtx, cancelStreams := context.WithCancel(context.Background())

	// Create server
	server := http.Server{
		Handler:      handler,
		Addr:         ":" + strconv.Itoa(cfg.Port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelStreams)

	// Start server
	go func() {
		slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server closed", "error", err)
			os.Exit(1)
		}
	}()

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	// Wait for Ctrl-C signal, then drain in-flight requests
	<-ctrlc
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
		server.Close()
	}
	slog.Info("Server closed")
}
