// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/follow-rotator/clock"
	"github.com/danielhkuo/follow-rotator/db"
	"github.com/danielhkuo/follow-rotator/middleware"
	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
	"github.com/danielhkuo/follow-rotator/resolver"
	"github.com/danielhkuo/follow-rotator/rotation"
)

// Overlay presentation classes (Tailwind + animate.css)
const (
	BaseClass    = "flex items-center gap-2 p-1 px-2 rounded-md shadow-lg animate__animated"
	CTABoxClass  = "flex gap-2 items-center justify-center ml-auto px-3 py-1.5 rounded-md text-sm font-medium"
	AnimInClass  = "animate__bounceIn"
	AnimOutClass = "animate__bounceOut"
)

//go:embed templates/overlay.html
var templateFS embed.FS

var overlayTemplate = template.Must(template.ParseFS(templateFS, "templates/overlay.html"))

type OverlayHandler struct {
	resolver *resolver.Resolver
	registry *platform.Registry
	store    *db.Store
	clock    clock.Clock
}

// NewOverlayHandler creates the overlay handler. store may be nil.
func NewOverlayHandler(res *resolver.Resolver, registry *platform.Registry, store *db.Store) *OverlayHandler {
	return &OverlayHandler{resolver: res, registry: registry, store: store, clock: clock.Real{}}
}

type overlayPage struct {
	BaseClass     string
	CTABoxClass   string
	AnimIn        string
	AnimOut       string
	EventsURL     string
	Text          string
	Icon          string
	Background    string
	CTAText       string
	CTAIcon       string
	CTABackground string
}

// Page handles GET /overlay
// Renders the first item server-side; the page then follows /overlay/events
func (h *OverlayHandler) Page(w http.ResponseWriter, r *http.Request) {
	cfg, source := h.resolver.Explain(r.URL.Query())
	h.recordLoad(r, source, len(cfg.Items))

	page := overlayPage{
		BaseClass:   BaseClass,
		CTABoxClass: CTABoxClass,
		AnimIn:      AnimInClass,
		AnimOut:     AnimOutClass,
		EventsURL:   "/overlay/events",
	}
	if r.URL.RawQuery != "" {
		page.EventsURL += "?" + r.URL.RawQuery
	}

	// Unknown platforms leave the card empty until a known item arrives
	first := cfg.Items[0]
	if p, ok := h.registry.Lookup(first.Platform); ok {
		page.Text = first.Text
		page.Icon = p.Icon
		page.Background = p.Background
		page.CTAText = p.CTA.Text
		page.CTAIcon = p.CTA.Icon
		page.CTABackground = p.CTA.Background
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := overlayTemplate.Execute(w, page); err != nil {
		slog.Error("failed to render overlay", "error", err)
	}
}

// Config handles GET /overlay/config
func (h *OverlayHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg, source := h.resolver.Explain(r.URL.Query())

	middleware.JSONResponse(w, http.StatusOK, models.OverlayConfigResponse{
		Source:     source,
		Items:      cfg.Items,
		Timing:     cfg.Timing,
		IntervalMs: int(rotation.IntervalFor(cfg.Timing).Milliseconds()),
	})
}

// Events handles GET /overlay/events
// Streams the rotation as Server-Sent Events until the client goes away
func (h *OverlayHandler) Events(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	cfg, source := h.resolver.Explain(r.URL.Query())
	streamID := uuid.NewString()

	stream := newEventStream()
	engine, err := rotation.New(cfg, h.registry, stream, rotation.WithClock(h.clock))
	if err != nil {
		slog.Error("failed to create rotation engine", "error", err, "stream", streamID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start rotation")
		return
	}

	// The stream outlives the server's WriteTimeout
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Warn("failed to clear write deadline", "error", err, "stream", streamID)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := engine.Start(); err != nil {
		slog.Error("failed to start rotation engine", "error", err, "stream", streamID)
		return
	}
	defer engine.Stop()

	slog.Info("overlay stream opened", "stream", streamID, "source", source, "items", len(cfg.Items))
	defer slog.Info("overlay stream closed", "stream", streamID)

	ctx := r.Context()
	for {
		// Write whatever is queued, starting with the initial paint
		for _, ev := range stream.drain() {
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			slog.Error("overlay stream cannot flush", "error", err, "stream", streamID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-stream.ready:
		}
	}
}

func (h *OverlayHandler) recordLoad(r *http.Request, source string, items int) {
	if h.store == nil {
		return
	}
	if err := h.store.RecordOverlayLoad(r.Context(), source, items); err != nil {
		slog.Error("failed to record overlay load", "error", err)
	}
}

type sseEvent struct {
	name string
	data []byte
}

// eventStream is a rotation.Renderer that queues events for the SSE loop.
// It never blocks the engine.
type eventStream struct {
	mu    sync.Mutex
	queue []sseEvent
	ready chan struct{}
}

func newEventStream() *eventStream {
	return &eventStream{ready: make(chan struct{}, 1)}
}

func (s *eventStream) push(name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode overlay event", "event", name, "error", err)
		return
	}

	s.mu.Lock()
	s.queue = append(s.queue, sseEvent{name: name, data: data})
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *eventStream) drain() []sseEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queue
	s.queue = nil
	return out
}

func (s *eventStream) UpdateContent(index int, item models.RotationItem, p platform.Platform) {
	s.push(models.EventContent, models.ContentEvent{
		Index:         index,
		Platform:      string(item.Platform),
		Text:          item.Text,
		Icon:          p.Icon,
		CTAText:       p.CTA.Text,
		CTAIcon:       p.CTA.Icon,
		CTABackground: p.CTA.Background,
	})
}

func (s *eventStream) UpdateBackground(index int, _ models.RotationItem, p platform.Platform) {
	s.push(models.EventBackground, models.BackgroundEvent{Index: index, Background: p.Background})
}

func (s *eventStream) AnimateOut(index int) {
	s.push(models.EventAnimateOut, models.AnimationEvent{Index: index, Class: AnimOutClass})
}

func (s *eventStream) AnimateIn(index int) {
	s.push(models.EventAnimateIn, models.AnimationEvent{Index: index, Class: AnimInClass})
}
