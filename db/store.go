// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/follow-rotator/models"
)

// Database types accepted by Open
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Link kinds
const (
	KindFull    = "full"
	KindCompact = "compact"
)

var ErrUnsupportedType = errors.New("unsupported database type")

// LinkEvent describes one generated share link
type LinkEvent struct {
	Kind          string
	ItemCount     int
	TokenLength   int
	URLLength     int
	FullURLLength int
}

// Store records link and overlay statistics
type Store struct {
	db     *sql.DB
	dbType string
	now    func() time.Time
}

// Open connects to the stats database and creates the schema
func Open(dbType, url string) (*Store, error) {
	if dbType != TypeSQLite && dbType != TypePostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if dbType == TypeSQLite {
		// Single writer; also keeps :memory: databases on one connection
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return NewStore(conn, dbType), nil
}

// NewStore wraps an open connection whose schema already exists
func NewStore(conn *sql.DB, dbType string) *Store {
	return &Store{db: conn, dbType: dbType, now: time.Now}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Rebind rewrites ? placeholders to $1, $2, ... for postgres
func Rebind(dbType, query string) string {
	if dbType != TypePostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, Rebind(s.dbType, query), args...)
	return err
}

// RecordLink stores the sizes of a generated link
func (s *Store) RecordLink(ctx context.Context, ev LinkEvent) error {
	if ev.Kind != KindFull && ev.Kind != KindCompact {
		return fmt.Errorf("unknown link kind %q", ev.Kind)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate id: %w", err)
	}

	err = s.exec(ctx, `
		INSERT INTO link_event (id, kind, item_count, token_length, url_length, full_url_length, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id.String(), ev.Kind, ev.ItemCount, ev.TokenLength, ev.URLLength, ev.FullURLLength, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record link: %w", err)
	}
	return nil
}

// RecordOverlayLoad stores one overlay page load
func (s *Store) RecordOverlayLoad(ctx context.Context, source string, itemCount int) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate id: %w", err)
	}

	err = s.exec(ctx, `
		INSERT INTO overlay_load (id, source, item_count, created_at)
		VALUES (?, ?, ?, ?)
	`, id.String(), source, itemCount, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record overlay load: %w", err)
	}
	return nil
}

// Summary aggregates everything recorded so far
func (s *Store) Summary(ctx context.Context) (models.LinkStats, error) {
	stats := models.LinkStats{
		ByKind:       map[string]int64{},
		OverlayLoads: map[string]int64{},
	}

	var lastAt sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(token_length), 0),
		       COALESCE(AVG(CASE WHEN full_url_length > 0
		                         THEN 100.0 * (full_url_length - url_length) / full_url_length
		                         ELSE 0 END), 0),
		       COALESCE(SUM(token_length), 0),
		       MAX(created_at)
		FROM link_event
	`).Scan(&stats.Total, &stats.AvgTokenLength, &stats.AvgSavedPercent, &stats.TotalTokenBytes, &lastAt)
	if err != nil {
		return models.LinkStats{}, fmt.Errorf("failed to query link totals: %w", err)
	}

	if err := s.countBy(ctx, `SELECT kind, COUNT(*) FROM link_event GROUP BY kind`, stats.ByKind); err != nil {
		return models.LinkStats{}, fmt.Errorf("failed to query link kinds: %w", err)
	}
	if err := s.countBy(ctx, `SELECT source, COUNT(*) FROM overlay_load GROUP BY source`, stats.OverlayLoads); err != nil {
		return models.LinkStats{}, fmt.Errorf("failed to query overlay loads: %w", err)
	}

	if lastAt.Valid {
		at := lastAt.Int64
		stats.LastLinkAt = &at
		stats.LastLinkHuman = humanize.RelTime(time.Unix(at, 0), s.now(), "ago", "from now")
	}
	stats.TotalTokenHuman = humanize.Bytes(uint64(stats.TotalTokenBytes))

	return stats, nil
}

func (s *Store) countBy(ctx context.Context, query string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
