// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package token

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
)

// Compact codes for the built-in platforms. Codes are stable across
// versions; new platforms without a code are written verbatim.
var compactCodes = map[platform.ID]string{
	platform.TikTok:    "ti",
	platform.Discord:   "di",
	platform.YouTube:   "yo",
	platform.Twitch:    "tw",
	platform.Facebook:  "fa",
	platform.Instagram: "in",
	platform.X:         "x",
}

var compactIDs = func() map[string]platform.ID {
	m := make(map[string]platform.ID, len(compactCodes))
	for id, code := range compactCodes {
		m[code] = id
	}
	return m
}()

// CodeFor returns the compact code for id, or id itself when it has none
func CodeFor(id platform.ID) string {
	if code, ok := compactCodes[id]; ok {
		return code
	}
	return string(id)
}

// IDFor maps a compact code back to a platform ID.
// Unknown codes pass through unchanged.
func IDFor(code string) platform.ID {
	if id, ok := compactIDs[code]; ok {
		return id
	}
	return platform.ID(code)
}

// Compress encodes cfg using the compact payload. The result is never
// longer than Encode's token for the same configuration.
func (c *Codec) Compress(cfg models.Configuration) (string, error) {
	hold, in, out := cfg.Timing.HoldMs, cfg.Timing.AnimInMs, cfg.Timing.AnimOutMs
	if err := checkTiming(&hold, &in, &out); err != nil {
		return "", err
	}
	if err := c.checkPlatforms(cfg.Items); err != nil {
		return "", err
	}

	compact := models.CompactSettings{
		Platforms: make([]models.CompactItem, len(cfg.Items)),
		Hold:      &hold,
		AnimIn:    &in,
		AnimOut:   &out,
	}
	for i, item := range cfg.Items {
		compact.Platforms[i] = models.CompactItem{Code: CodeFor(item.Platform), Text: item.Text}
	}

	return encodeJSON(compact)
}

// Decompress reverses Compress
func (c *Codec) Decompress(tok string) (models.Configuration, error) {
	s, err := c.DecompressSettings(tok)
	if err != nil {
		return models.Configuration{}, err
	}
	return s.Configuration(), nil
}

// DecompressSettings reverses Compress, keeping absent timing fields nil
func (c *Codec) DecompressSettings(tok string) (models.Settings, error) {
	data, err := decodeBase64(tok)
	if err != nil {
		return models.Settings{}, err
	}

	var raw struct {
		Platforms json.RawMessage `json:"p"`
	}
	if err := unmarshalObject(data, &raw); err != nil {
		return models.Settings{}, err
	}
	if !isNonEmptyArray(raw.Platforms) {
		return models.Settings{}, ErrInvalidSchema
	}

	var compact models.CompactSettings
	if err := json.Unmarshal(data, &compact); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := checkTiming(compact.Hold, compact.AnimIn, compact.AnimOut); err != nil {
		return models.Settings{}, err
	}

	s := models.Settings{
		Platforms:   make([]models.RotationItem, len(compact.Platforms)),
		HoldTime:    compact.Hold,
		AnimInTime:  compact.AnimIn,
		AnimOutTime: compact.AnimOut,
	}
	for i, item := range compact.Platforms {
		s.Platforms[i] = models.RotationItem{Platform: IDFor(item.Code), Text: item.Text}
	}

	if err := c.checkPlatforms(s.Platforms); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

// DecodeAny accepts both full and compact tokens. compact reports which
// form the token was in.
func (c *Codec) DecodeAny(tok string) (s models.Settings, compact bool, err error) {
	s, err = c.DecodeSettings(tok)
	if err == nil || !errors.Is(err, ErrInvalidSchema) || errors.Is(err, ErrUnknownPlatform) {
		return s, false, err
	}

	cs, cerr := c.DecompressSettings(tok)
	if cerr != nil {
		// Report the full-form error unless the token really was compact
		if errors.Is(cerr, ErrUnknownPlatform) {
			return models.Settings{}, true, cerr
		}
		return models.Settings{}, false, err
	}
	return cs, true, nil
}
