// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/follow-rotator/middleware"
	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
	"github.com/danielhkuo/follow-rotator/token"
)

type PlatformHandler struct {
	registry *platform.Registry
}

func NewPlatformHandler(registry *platform.Registry) *PlatformHandler {
	return &PlatformHandler{registry: registry}
}

// List handles GET /platforms
func (h *PlatformHandler) List(w http.ResponseWriter, r *http.Request) {
	platforms := []models.PlatformInfo{}
	for _, p := range h.registry.All() {
		platforms = append(platforms, models.PlatformInfo{Platform: p, Code: token.CodeFor(p.ID)})
	}

	middleware.JSONResponse(w, http.StatusOK, models.PlatformsResponse{Platforms: platforms})
}
