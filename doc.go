// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the follow rotator server.

The follow rotator is a streaming overlay that cycles through a streamer's
social handles (TikTok, Discord, YouTube, ...) with enter and exit
animations. The whole configuration travels in the overlay URL as a
URL-safe token, so nothing is stored server-side.

# Starting the Server

No configuration is required:

	go run .

Or with flags:

	go run . -p 3318 -base-url https://overlay.example.com -d file:stats.db

A .env file in the working directory is loaded unless APP_ENV=production.

# Configuration

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - BASE_URL (-base-url): Share link prefix
  - DATABASE_URL (-d): Enables link statistics
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PLATFORMS_FILE (-platforms): YAML file with extra platforms
  - STRICT_PLATFORMS (-strict): Reject unknown platforms in tokens
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - platform: Platform registry and YAML overrides
  - models: Configuration, wire forms, request/response types
  - token: Token encoding, compact tokens
  - resolver: Query parameters to configuration
  - clock, rotation: The display cycle over an injectable clock
  - handlers: Overlay page, SSE stream, link generator, stats
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - db: Optional link statistics
  - cliparse: Configuration parsing
  - cmd/rotatorctl: Command-line token tool

See package documentation for each component.
*/
package main
