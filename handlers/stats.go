// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/follow-rotator/db"
	"github.com/danielhkuo/follow-rotator/middleware"
)

type StatsHandler struct {
	store *db.Store
}

// NewStatsHandler creates the stats handler. A nil store disables stats.
func NewStatsHandler(store *db.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "stats are disabled")
		return
	}

	stats, err := h.store.Summary(r.Context())
	if err != nil {
		slog.Error("failed to summarize stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
