// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for link statistics.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The same DDL runs on sqlite and postgres: timestamps are unix seconds
const schema = `
-- Generated share links (sizes only, never the configuration)
CREATE TABLE IF NOT EXISTS link_event (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('full', 'compact')),
    item_count INTEGER NOT NULL,
    token_length INTEGER NOT NULL,
    url_length INTEGER NOT NULL,
    full_url_length INTEGER NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_link_event_created_at ON link_event(created_at);

-- Overlay page loads by configuration source
CREATE TABLE IF NOT EXISTS overlay_load (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    item_count INTEGER NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_overlay_load_source ON overlay_load(source);
`
