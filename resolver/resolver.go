// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
	"github.com/danielhkuo/follow-rotator/token"
)

// Query parameter names
const (
	ParamToken   = "t"
	ParamData    = "data"
	ParamHold    = "hold"
	ParamAnimIn  = "animIn"
	ParamAnimOut = "animOut"
)

var ErrBadInteger = errors.New("timing parameter is not an integer in range")

// DefaultItems returns the items shown when the query carries no usable items
func DefaultItems() []models.RotationItem {
	return []models.RotationItem{
		{Platform: platform.TikTok, Text: "@nguyennhatlinh.official"},
		{Platform: platform.Discord, Text: "discord.gg/xunAChFVkc"},
		{Platform: platform.YouTube, Text: "@chokernguyen"},
	}
}

// Resolver turns overlay query parameters into a Configuration.
// It never fails: bad input degrades to defaults.
type Resolver struct {
	codec         *token.Codec
	defaultItems  []models.RotationItem
	defaultTiming models.TimingConfig
}

type Option func(*Resolver)

func WithDefaultItems(items []models.RotationItem) Option {
	return func(r *Resolver) {
		if assembled := models.AssembleItems(items); len(assembled) > 0 {
			r.defaultItems = assembled
		}
	}
}

func WithDefaultTiming(timing models.TimingConfig) Option {
	return func(r *Resolver) { r.defaultTiming = timing }
}

func New(codec *token.Codec, opts ...Option) *Resolver {
	r := &Resolver{
		codec:         codec,
		defaultItems:  DefaultItems(),
		defaultTiming: models.DefaultTiming(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the effective configuration for the query
func (r *Resolver) Resolve(q url.Values) models.Configuration {
	cfg, _ := r.Explain(q)
	return cfg
}

// Explain is Resolve plus the source the items came from.
//
// Precedence: a decodable token wins over every other parameter. Without
// one, items come from data and timing from hold/animIn/animOut. Missing
// items fall back to the defaults; missing timing fields keep theirs.
func (r *Resolver) Explain(q url.Values) (models.Configuration, string) {
	if tok := q.Get(ParamToken); tok != "" {
		s, compact, err := r.codec.DecodeAny(tok)
		if err == nil {
			slog.Debug("configuration from token", "compact", compact, "items", len(s.Platforms))
			return r.assemble(s.Platforms, s.Override(), models.SourceToken)
		}
		slog.Warn("invalid token, ignoring", "error", err)
	}

	var items []models.RotationItem
	source := models.SourceDefault
	if raw := q.Get(ParamData); raw != "" {
		parsed, err := parseData(raw)
		if err != nil {
			slog.Warn("failed to parse data param", "error", err)
		} else {
			items = parsed
			source = models.SourceData
		}
	}

	override := models.TimingOverride{
		HoldMs:    parseTiming(q, ParamHold),
		AnimInMs:  parseTiming(q, ParamAnimIn),
		AnimOutMs: parseTiming(q, ParamAnimOut),
	}

	return r.assemble(items, override, source)
}

// assemble applies the item and timing fallbacks
func (r *Resolver) assemble(items []models.RotationItem, override models.TimingOverride, source string) (models.Configuration, string) {
	assembled := models.AssembleItems(items)
	if len(assembled) == 0 {
		if source != models.SourceDefault {
			slog.Warn("no usable items, using defaults", "source", source)
		}
		assembled = slices.Clone(r.defaultItems)
		// Token timing still applies; a data param without items is just absent
		if source == models.SourceData {
			source = models.SourceDefault
		}
	}

	return models.Configuration{
		Items:  assembled,
		Timing: r.defaultTiming.Merge(override),
	}, source
}

// parseData parses the data param as a JSON array of items
func parseData(raw string) ([]models.RotationItem, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, errors.New("data param is not a JSON array")
	}
	var items []models.RotationItem
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// parseTiming returns nil when the param is absent or invalid
func parseTiming(q url.Values, name string) *int {
	raw := q.Get(name)
	if raw == "" {
		return nil
	}
	v, err := ParseMillis(raw)
	if err != nil {
		slog.Warn("ignoring timing param", "param", name, "value", raw, "error", err)
		return nil
	}
	return &v
}

// ParseMillis parses a decimal integer between 0 and models.MaxTimingMs
func ParseMillis(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadInteger, raw)
	}
	if !models.InRange(v) {
		return 0, fmt.Errorf("%w: %d", ErrBadInteger, v)
	}
	return v, nil
}
