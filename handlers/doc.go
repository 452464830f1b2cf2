// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the follow rotator.

# Handler Types

  - OverlayHandler: Overlay page, resolved configuration, rotation stream
  - LinkHandler: Share link generation and token loading (settings editor)
  - PlatformHandler: Platform registry listing
  - StatsHandler: Link statistics

Handlers are created via constructor functions; a nil *db.Store disables
statistics:

	overlayHandler := handlers.NewOverlayHandler(resolver, registry, store)
	linkHandler := handlers.NewLinkHandler(codec, store, cfg)

# Overlay

The overlay routes never fail on bad input: an invalid token or data
parameter falls back to the defaults.

	GET /overlay         → Page (html/template, embedded)
	GET /overlay/config  → Config
	GET /overlay/events  → Events

Events runs one rotation.Engine per request and writes its renderer calls
as Server-Sent Events:

	event: content
	data: {"index":1,"platform":"discord","text":"discord.gg/x",...}

	event: animate_out
	data: {"index":1,"class":"animate__bounceOut"}

Event names are content, background, animate_out and animate_in. The engine
stops when the client disconnects or the server shuts down.

# Links

	POST /links        → CreateLink
	POST /links/decode → DecodeLink

CreateLink trims item text, drops blank items and rejects an empty list
with "please select at least one platform". The response compares the
token URL with the equivalent data/hold/animIn/animOut URL:

	{"token":"...","url":"https://host/overlay?t=...","token_length":96,
	 "url_length":126,"full_url_length":301,"saved_chars":175,"saved_percent":58}

DecodeLink accepts full and compact tokens and answers "invalid token
format" otherwise.

# Error Responses

All errors use consistent JSON format:

	{"error": "Bad Request", "message": "please select at least one platform"}
*/
package handlers
