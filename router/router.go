// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/follow-rotator/cliparse"
	"github.com/danielhkuo/follow-rotator/db"
	"github.com/danielhkuo/follow-rotator/handlers"
	"github.com/danielhkuo/follow-rotator/middleware"
	"github.com/danielhkuo/follow-rotator/platform"
	"github.com/danielhkuo/follow-rotator/resolver"
	"github.com/danielhkuo/follow-rotator/token"
)

// NewRouter wires all routes behind the CORS middleware. store is nil when
// stats are disabled.
func NewRouter(store *db.Store, cfg cliparse.Config, registry *platform.Registry) http.Handler {
	mux := http.NewServeMux()

	var opts []token.Option
	if cfg.StrictPlatforms {
		opts = append(opts, token.WithStrictPlatforms())
	}
	codec := token.NewCodec(registry, opts...)
	res := resolver.New(codec)

	// Initialize handlers
	overlayHandler := handlers.NewOverlayHandler(res, registry, store)
	linkHandler := handlers.NewLinkHandler(codec, store, cfg)
	platformHandler := handlers.NewPlatformHandler(registry)
	statsHandler := handlers.NewStatsHandler(store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Overlay (bad input never errors, it falls back to defaults)
	mux.HandleFunc("GET /overlay", middleware.WithLogging(overlayHandler.Page))
	mux.HandleFunc("GET /overlay/config", middleware.WithLogging(overlayHandler.Config))
	mux.HandleFunc("GET /overlay/events", middleware.WithLogging(overlayHandler.Events))

	// Settings editor backend
	mux.HandleFunc("GET /platforms", middleware.WithLogging(platformHandler.List))
	mux.HandleFunc("POST /links", middleware.WithLogging(linkHandler.CreateLink))
	mux.HandleFunc("POST /links/decode", middleware.WithLogging(linkHandler.DecodeLink))

	// Link statistics (404 when no database is configured)
	mux.HandleFunc("GET /stats", middleware.WithLogging(statsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("follow-rotator v1"))
	})

	return middleware.CORS(mux)
}
