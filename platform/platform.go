// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package platform

import (
	"slices"
)

// ID identifies a social platform, e.g. "tiktok"
type ID string

// Built-in platform IDs
const (
	TikTok    ID = "tiktok"
	Discord   ID = "discord"
	YouTube   ID = "youtube"
	Twitch    ID = "twitch"
	Facebook  ID = "facebook"
	Instagram ID = "instagram"
	X         ID = "x"
)

const heartIcon = "/assets/icons8-heart-90-white.png"

// CTA is the call-to-action box shown next to the handle
type CTA struct {
	Text       string `json:"text" yaml:"text"`
	Background string `json:"background" yaml:"background"`
	Icon       string `json:"icon" yaml:"icon"`
}

// Platform holds the display metadata for one platform
type Platform struct {
	ID         ID     `json:"id" yaml:"-"`
	Name       string `json:"name" yaml:"name"`
	Icon       string `json:"icon" yaml:"icon"`
	Background string `json:"background" yaml:"background"`
	CTA        CTA    `json:"cta" yaml:"cta"`
}

// Registry is a read-only lookup table of platforms.
// The zero value is an empty registry.
type Registry struct {
	order     []ID
	platforms map[ID]Platform
}

// NewRegistry builds a registry from the given platforms, keeping their order.
// A later entry with the same ID replaces the earlier one in place.
func NewRegistry(platforms ...Platform) *Registry {
	r := &Registry{platforms: make(map[ID]Platform, len(platforms))}
	for _, p := range platforms {
		if _, exists := r.platforms[p.ID]; !exists {
			r.order = append(r.order, p.ID)
		}
		r.platforms[p.ID] = p
	}
	return r
}

// Lookup returns the platform for id
func (r *Registry) Lookup(id ID) (Platform, bool) {
	if r == nil {
		return Platform{}, false
	}
	p, ok := r.platforms[id]
	return p, ok
}

// Known reports whether id is in the registry
func (r *Registry) Known(id ID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// IDs returns the registered IDs in registration order
func (r *Registry) IDs() []ID {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// All returns every platform in registration order
func (r *Registry) All() []Platform {
	if r == nil {
		return nil
	}
	out := make([]Platform, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.platforms[id])
	}
	return out
}

// Len returns the number of registered platforms
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// With returns a new registry with extra platforms merged over r.
// r itself is left untouched.
func (r *Registry) With(extra ...Platform) *Registry {
	return NewRegistry(append(r.All(), extra...)...)
}

// Default returns a fresh registry holding the built-in platforms
func Default() *Registry {
	return NewRegistry(
		Platform{
			ID:         TikTok,
			Name:       "TikTok",
			Icon:       "/assets/icons8-tiktok-480.png",
			Background: "border bg-black/40 border-white/20 text-white backdrop-blur-md",
			CTA: CTA{
				Text:       "Follow",
				Background: "border bg-black/40 border-white/20 text-white backdrop-blur-md",
				Icon:       heartIcon,
			},
		},
		Platform{
			ID:         Discord,
			Name:       "Discord",
			Icon:       "/assets/icons8-discord-480.png",
			Background: "bg-white text-black",
			CTA:        CTA{Text: "Join", Background: "bg-[#5865F2] text-white", Icon: heartIcon},
		},
		Platform{
			ID:         YouTube,
			Name:       "YouTube",
			Icon:       "/assets/icons8-youtube-480.png",
			Background: "bg-white text-black",
			CTA:        CTA{Text: "Subscribe", Background: "bg-red-600 text-white", Icon: heartIcon},
		},
		Platform{
			ID:         Twitch,
			Name:       "Twitch",
			Icon:       "/assets/icons8-twitch-480.png",
			Background: "bg-white text-black",
			CTA:        CTA{Text: "Follow", Background: "bg-[#9146FF] text-white", Icon: heartIcon},
		},
		Platform{
			ID:         Facebook,
			Name:       "Facebook",
			Icon:       "/assets/icons8-facebook-480.png",
			Background: "bg-white text-black",
			CTA:        CTA{Text: "Follow", Background: "bg-[#1877F2] text-white", Icon: heartIcon},
		},
		Platform{
			ID:         Instagram,
			Name:       "Instagram",
			Icon:       "/assets/icons8-instagram-480.png",
			Background: "bg-white text-black",
			CTA: CTA{
				Text:       "Follow",
				Background: "bg-gradient-to-r from-pink-500 to-purple-600 text-white",
				Icon:       heartIcon,
			},
		},
		Platform{
			ID:         X,
			Name:       "X",
			Icon:       "/assets/icons8-x-480.png",
			Background: "bg-white text-black",
			CTA:        CTA{Text: "Follow", Background: "bg-black text-white", Icon: heartIcon},
		},
	)
}
