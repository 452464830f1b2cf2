package models

import (
	"math"
	"strings"
	"time"

	"github.com/danielhkuo/follow-rotator/platform"
)

// Default timings in milliseconds
const (
	DefaultHoldMs    = 9000
	DefaultAnimInMs  = 1000
	DefaultAnimOutMs = 1000
)

// MaxTimingMs is the largest accepted timing value. A full cycle of three
// maximal values still fits in a time.Duration.
const MaxTimingMs = math.MaxInt64 / int64(time.Millisecond) / 3

// Configuration sources reported by the resolver
const (
	SourceToken   = "token"
	SourceData    = "data"
	SourceDefault = "default"
)

// Domain types

type RotationItem struct {
	Platform platform.ID `json:"platform"`
	Text     string      `json:"text"`
}

type TimingConfig struct {
	HoldMs    int `json:"hold_ms"`
	AnimInMs  int `json:"anim_in_ms"`
	AnimOutMs int `json:"anim_out_ms"`
}

// TimingOverride holds the timing fields that were explicitly given.
// Nil fields keep whatever they are merged over.
type TimingOverride struct {
	HoldMs    *int
	AnimInMs  *int
	AnimOutMs *int
}

type Configuration struct {
	Items  []RotationItem `json:"items"`
	Timing TimingConfig   `json:"timing"`
}

// DefaultTiming returns the built-in timing
func DefaultTiming() TimingConfig {
	return TimingConfig{
		HoldMs:    DefaultHoldMs,
		AnimInMs:  DefaultAnimInMs,
		AnimOutMs: DefaultAnimOutMs,
	}
}

// Merge replaces only the fields set in o
func (t TimingConfig) Merge(o TimingOverride) TimingConfig {
	if o.HoldMs != nil {
		t.HoldMs = *o.HoldMs
	}
	if o.AnimInMs != nil {
		t.AnimInMs = *o.AnimInMs
	}
	if o.AnimOutMs != nil {
		t.AnimOutMs = *o.AnimOutMs
	}
	return t
}

// InRange reports whether v is an acceptable timing value
func InRange(v int) bool {
	return v >= 0 && int64(v) <= MaxTimingMs
}

// Empty reports whether no field is set
func (o TimingOverride) Empty() bool {
	return o.HoldMs == nil && o.AnimInMs == nil && o.AnimOutMs == nil
}

// CycleMs is the time between two successive content swaps
func (t TimingConfig) CycleMs() int {
	return t.HoldMs + t.AnimInMs + t.AnimOutMs
}

// AssembleItems trims every text and drops items left empty
func AssembleItems(items []RotationItem) []RotationItem {
	out := make([]RotationItem, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		out = append(out, RotationItem{Platform: item.Platform, Text: text})
	}
	return out
}

// Wire types (token payloads). Field order is part of the token format.

// Settings is the full token payload
type Settings struct {
	Platforms   []RotationItem `json:"platforms"`
	HoldTime    *int           `json:"holdTime,omitempty"`
	AnimInTime  *int           `json:"animInTime,omitempty"`
	AnimOutTime *int           `json:"animOutTime,omitempty"`
}

type CompactItem struct {
	Code string `json:"t"`
	Text string `json:"v"`
}

// CompactSettings is the shortened token payload
type CompactSettings struct {
	Platforms []CompactItem `json:"p"`
	Hold      *int          `json:"h,omitempty"`
	AnimIn    *int          `json:"i,omitempty"`
	AnimOut   *int          `json:"o,omitempty"`
}

// SettingsFrom builds the wire form of cfg with every timing field set
func SettingsFrom(cfg Configuration) Settings {
	hold, in, out := cfg.Timing.HoldMs, cfg.Timing.AnimInMs, cfg.Timing.AnimOutMs
	return Settings{
		Platforms:   cfg.Items,
		HoldTime:    &hold,
		AnimInTime:  &in,
		AnimOutTime: &out,
	}
}

// Override returns the timing fields present in the payload
func (s Settings) Override() TimingOverride {
	return TimingOverride{HoldMs: s.HoldTime, AnimInMs: s.AnimInTime, AnimOutMs: s.AnimOutTime}
}

// Configuration converts the payload, filling absent timing from defaults
func (s Settings) Configuration() Configuration {
	return Configuration{
		Items:  s.Platforms,
		Timing: DefaultTiming().Merge(s.Override()),
	}
}

// Request types

// CreateLinkRequest mirrors the settings editor form
type CreateLinkRequest struct {
	Platforms []RotationItem `json:"platforms"`
	HoldMs    *int           `json:"hold_ms,omitempty"`
	AnimInMs  *int           `json:"anim_in_ms,omitempty"`
	AnimOutMs *int           `json:"anim_out_ms,omitempty"`
	Compact   bool           `json:"compact"`
}

type DecodeLinkRequest struct {
	Token string `json:"token"`
}

// Response types

type CreateLinkResponse struct {
	Token         string `json:"token"`
	URL           string `json:"url"`
	Compact       bool   `json:"compact"`
	TokenLength   int    `json:"token_length"`
	URLLength     int    `json:"url_length"`
	FullURLLength int    `json:"full_url_length"`
	SavedChars    int    `json:"saved_chars"`
	SavedPercent  int    `json:"saved_percent"`
}

type DecodeLinkResponse struct {
	Configuration Configuration `json:"configuration"`
	Compact       bool          `json:"compact"`
}

type OverlayConfigResponse struct {
	Source     string         `json:"source"`
	Items      []RotationItem `json:"items"`
	Timing     TimingConfig   `json:"timing"`
	IntervalMs int            `json:"interval_ms"`
}

type PlatformInfo struct {
	platform.Platform
	Code string `json:"code"`
}

type PlatformsResponse struct {
	Platforms []PlatformInfo `json:"platforms"`
}

// Overlay stream events

// Event names on the overlay stream
const (
	EventContent    = "content"
	EventBackground = "background"
	EventAnimateOut = "animate_out"
	EventAnimateIn  = "animate_in"
)

type ContentEvent struct {
	Index         int    `json:"index"`
	Platform      string `json:"platform"`
	Text          string `json:"text"`
	Icon          string `json:"icon"`
	CTAText       string `json:"cta_text"`
	CTAIcon       string `json:"cta_icon"`
	CTABackground string `json:"cta_background"`
}

type BackgroundEvent struct {
	Index      int    `json:"index"`
	Background string `json:"background"`
}

type AnimationEvent struct {
	Index int    `json:"index"`
	Class string `json:"class"`
}

// Stats types

type LinkStats struct {
	Total           int64            `json:"total"`
	ByKind          map[string]int64 `json:"by_kind"`
	AvgTokenLength  float64          `json:"avg_token_length"`
	AvgSavedPercent float64          `json:"avg_saved_percent"`
	OverlayLoads    map[string]int64 `json:"overlay_loads"`
	LastLinkAt      *int64           `json:"last_link_at,omitempty"`
	LastLinkHuman   string           `json:"last_link_human,omitempty"`
	TotalTokenBytes int64            `json:"total_token_bytes"`
	TotalTokenHuman string           `json:"total_token_human"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
