// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/danielhkuo/follow-rotator/cliparse"
	"github.com/danielhkuo/follow-rotator/db"
	"github.com/danielhkuo/follow-rotator/middleware"
	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/resolver"
	"github.com/danielhkuo/follow-rotator/token"
)

type LinkHandler struct {
	codec *token.Codec
	store *db.Store
	cfg   cliparse.Config
}

// NewLinkHandler creates the settings editor backend. store may be nil.
func NewLinkHandler(codec *token.Codec, store *db.Store, cfg cliparse.Config) *LinkHandler {
	return &LinkHandler{codec: codec, store: store, cfg: cfg}
}

// CreateLink handles POST /links
// Encodes the editor settings and reports how much shorter the link is
// than the equivalent data/hold/animIn/animOut URL
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLinkRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	items := models.AssembleItems(req.Platforms)
	if len(items) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "please select at least one platform")
		return
	}

	for _, v := range []*int{req.HoldMs, req.AnimInMs, req.AnimOutMs} {
		if v == nil {
			continue
		}
		if *v < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "timings must be non-negative")
			return
		}
		if int64(*v) > models.MaxTimingMs {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("timings must be at most %d ms", models.MaxTimingMs))
			return
		}
	}

	cfg := models.Configuration{
		Items: items,
		Timing: models.DefaultTiming().Merge(models.TimingOverride{
			HoldMs:    req.HoldMs,
			AnimInMs:  req.AnimInMs,
			AnimOutMs: req.AnimOutMs,
		}),
	}

	var tok string
	var err error
	kind := db.KindFull
	if req.Compact {
		kind = db.KindCompact
		tok, err = h.codec.Compress(cfg)
	} else {
		tok, err = h.codec.Encode(cfg)
	}
	if errors.Is(err, token.ErrUnknownPlatform) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to encode token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	link := h.ShareURL(tok)
	fullLength, err := resolver.FullURLLength(h.overlayURL(), cfg)
	if err != nil {
		slog.Error("failed to measure full URL", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	resp := models.CreateLinkResponse{
		Token:         tok,
		URL:           link,
		Compact:       req.Compact,
		TokenLength:   len(tok),
		URLLength:     len(link),
		FullURLLength: fullLength,
		SavedChars:    fullLength - len(link),
	}
	if fullLength > 0 {
		resp.SavedPercent = int(math.Round(float64(resp.SavedChars) / float64(fullLength) * 100))
	}

	if h.store != nil {
		err := h.store.RecordLink(r.Context(), db.LinkEvent{
			Kind:          kind,
			ItemCount:     len(items),
			TokenLength:   resp.TokenLength,
			URLLength:     resp.URLLength,
			FullURLLength: resp.FullURLLength,
		})
		if err != nil {
			slog.Error("failed to record link", "error", err)
		}
	}

	slog.Info("link generated", "items", len(items), "compact", req.Compact, "token_length", resp.TokenLength)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// DecodeLink handles POST /links/decode
// Loads editor settings back from a full or compact token
func (h *LinkHandler) DecodeLink(w http.ResponseWriter, r *http.Request) {
	var req models.DecodeLinkRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tok := strings.TrimSpace(req.Token)
	if tok == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "please enter a token")
		return
	}

	settings, compact, err := h.codec.DecodeAny(tok)
	if err != nil {
		slog.Debug("token rejected", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid token format")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DecodeLinkResponse{
		Configuration: settings.Configuration(),
		Compact:       compact,
	})
}

func (h *LinkHandler) overlayURL() string {
	return h.cfg.BaseURL + "/overlay"
}

// ShareURL returns the overlay link for tok
func (h *LinkHandler) ShareURL(tok string) string {
	return h.overlayURL() + "?" + resolver.ParamToken + "=" + tok
}
