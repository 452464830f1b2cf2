// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores optional link statistics.

# Opening

Open connects, pings and creates the schema:

	store, err := db.Open(db.TypeSQLite, "file:stats.db")
	store, err := db.Open(db.TypePostgres, "postgres://...")

sqlite uses modernc.org/sqlite, postgres uses lib/pq. Queries are written
with ? placeholders; Rebind turns them into $1, $2, ... for postgres.

# Tables

  - link_event: one row per generated share link (kind, item count,
    token/url/full-url lengths)
  - overlay_load: one row per overlay page load (config source, item count)

IDs are UUIDv7, timestamps unix seconds. Configurations and tokens are
never stored.

# Summary

	stats, err := store.Summary(ctx)

Returns totals, per-kind and per-source counts, average savings and a
humanized time since the last link.
*/
package db
