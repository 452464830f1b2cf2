// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
)

var (
	ErrMalformed       = errors.New("malformed token")
	ErrInvalidSchema   = errors.New("token has no platform list")
	ErrUnknownPlatform = fmt.Errorf("%w: unknown platform", ErrInvalidSchema)
)

// Codec encodes configurations into URL-safe tokens and back.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	registry *platform.Registry
	strict   bool
}

type Option func(*Codec)

// WithStrictPlatforms rejects platform IDs missing from the registry,
// including unknown compact codes.
func WithStrictPlatforms() Option {
	return func(c *Codec) { c.strict = true }
}

func NewCodec(registry *platform.Registry, opts ...Option) *Codec {
	c := &Codec{registry: registry}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Strict reports whether unknown platforms are rejected
func (c *Codec) Strict() bool {
	return c.strict
}

// Encode serializes cfg to a URL-safe token
func (c *Codec) Encode(cfg models.Configuration) (string, error) {
	s := models.SettingsFrom(cfg)
	if err := checkTiming(s.HoldTime, s.AnimInTime, s.AnimOutTime); err != nil {
		return "", err
	}
	if err := c.checkPlatforms(cfg.Items); err != nil {
		return "", err
	}
	return encodeJSON(s)
}

// Decode parses a token produced by Encode.
// Timing fields missing from the token are filled from defaults.
func (c *Codec) Decode(tok string) (models.Configuration, error) {
	s, err := c.DecodeSettings(tok)
	if err != nil {
		return models.Configuration{}, err
	}
	return s.Configuration(), nil
}

// DecodeSettings parses a token but keeps absent timing fields nil
func (c *Codec) DecodeSettings(tok string) (models.Settings, error) {
	data, err := decodeBase64(tok)
	if err != nil {
		return models.Settings{}, err
	}

	var raw struct {
		Platforms json.RawMessage `json:"platforms"`
	}
	if err := unmarshalObject(data, &raw); err != nil {
		return models.Settings{}, err
	}
	if !isNonEmptyArray(raw.Platforms) {
		return models.Settings{}, ErrInvalidSchema
	}

	var s models.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := checkTiming(s.HoldTime, s.AnimInTime, s.AnimOutTime); err != nil {
		return models.Settings{}, err
	}
	if err := c.checkPlatforms(s.Platforms); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

// IsValid reports whether tok decodes to a non-empty platform list
func (c *Codec) IsValid(tok string) bool {
	if tok == "" {
		return false
	}
	_, err := c.DecodeSettings(tok)
	return err == nil
}

// encodeJSON writes v without HTML escaping so the bytes match what a
// browser's JSON.stringify produces, then base64url-encodes it unpadded.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	payload := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// decodeBase64 restores the standard alphabet and padding before decoding
func decodeBase64(tok string) ([]byte, error) {
	if tok == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformed)
	}

	b64 := strings.NewReplacer("-", "+", "_", "/").Replace(tok)
	for len(b64)%4 != 0 {
		b64 += "="
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: payload is not JSON", ErrMalformed)
	}
	return data, nil
}

// unmarshalObject requires data to be a JSON object
func unmarshalObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: payload is not an object", ErrInvalidSchema)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return nil
}

func isNonEmptyArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return false
	}
	return len(elems) > 0
}

func checkTiming(values ...*int) error {
	for _, v := range values {
		if v != nil && !models.InRange(*v) {
			return fmt.Errorf("%w: timing %d out of range", ErrInvalidSchema, *v)
		}
	}
	return nil
}

func (c *Codec) checkPlatforms(items []models.RotationItem) error {
	if !c.strict {
		return nil
	}
	for _, item := range items {
		if !c.registry.Known(item.Platform) {
			return fmt.Errorf("%w %q", ErrUnknownPlatform, item.Platform)
		}
	}
	return nil
}
