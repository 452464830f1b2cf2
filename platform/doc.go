// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package platform holds the registry of social platforms the overlay can show.

# Registry

A Registry maps a platform ID to its display metadata (name, icon, background
classes and call-to-action). It is immutable once built and is passed to the
codec, resolver and rotation engine explicitly:

	reg := platform.Default()
	p, ok := reg.Lookup(platform.TikTok)

# Overrides

Extra platforms, or restyled built-ins, can be loaded from YAML:

	reg, err := platform.LoadFile("platforms.yaml")

	platforms:
	  kick:
	    name: Kick
	    icon: /assets/kick.png
	    background: bg-white text-black
	    cta: {text: Follow, background: bg-green-500 text-black, icon: /assets/heart.png}
*/
package platform
