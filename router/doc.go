// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the follow rotator.

# Route Registration

NewRouter returns an http.Handler serving all endpoints behind
middleware.CORS, so a settings editor on another origin can POST /links:

	handler := router.NewRouter(store, cfg, registry)

store may be nil, which disables /stats. cfg.StrictPlatforms switches the
token codec to strict mode.

# Endpoints

Health:

	GET /health

Overlay (query: t, or data/hold/animIn/animOut):

	GET /overlay        - HTML overlay, first item pre-painted
	GET /overlay/config - Resolved configuration as JSON
	GET /overlay/events - Rotation as Server-Sent Events

Settings editor:

	GET  /platforms    - Registry with compact codes
	POST /links        - Generate a share link
	POST /links/decode - Load settings from a token

Statistics:

	GET /stats - Link and overlay counts
*/
package router
