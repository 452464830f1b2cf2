// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, wire, request and response types.

# Domain Types

  - RotationItem: one (platform, text) pair shown for one cycle
  - TimingConfig: hold, enter and exit durations in milliseconds
  - TimingOverride: optional timing fields, merged over defaults
  - Configuration: ordered items plus timing

AssembleItems trims item text and drops items left empty. TimingConfig.Merge
only replaces the fields present in the override:

	timing := models.DefaultTiming().Merge(models.TimingOverride{HoldMs: &hold})

# Wire Types

Token payloads. The JSON field order of these structs is part of the token
format and must not change:

  - Settings: {"platforms":[...],"holdTime":..,"animInTime":..,"animOutTime":..}
  - CompactSettings: {"p":[{"t":code,"v":text}],"h":..,"i":..,"o":..}

# Request Types

  - CreateLinkRequest: platforms, hold_ms, anim_in_ms, anim_out_ms, compact
  - DecodeLinkRequest: token

# Response Types

  - CreateLinkResponse: token, url and length comparison
  - DecodeLinkResponse: configuration, compact
  - OverlayConfigResponse: source, items, timing, interval_ms
  - PlatformsResponse: registry listing with compact codes
  - LinkStats: link generation and overlay load statistics
  - ErrorResponse: error, message

# Constants

Default timing:

	DefaultHoldMs    = 9000
	DefaultAnimInMs  = 1000
	DefaultAnimOutMs = 1000

Configuration sources:

	SourceToken   = "token"
	SourceData    = "data"
	SourceDefault = "default"
*/
package models
