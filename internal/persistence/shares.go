package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrShareNotFound is returned when no share exists for a slug
var ErrShareNotFound = errors.New("share not found")

// slugLength is the number of hex characters kept from a UUID
const slugLength = 10

// Share is a stored board code
type Share struct {
	Slug      string `db:"slug" json:"slug"`
	Code      string `db:"code" json:"code"`
	MapName   string `db:"map_name" json:"map"`
	Tiles     int    `db:"tiles" json:"tiles"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

// Created returns the creation time
func (s Share) Created() time.Time {
	return time.Unix(s.CreatedAt, 0)
}

// SaveShare stores a board code and returns its share. Saving a code that
// is already stored returns the existing share.
func (db *DB) SaveShare(ctx context.Context, code, mapName string, tiles int) (*Share, error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin share: %w", err)
	}
	defer tx.Rollback()

	// One row per code: the lookup and the insert share a transaction
	if existing, err := shareByCode(ctx, tx, code); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrShareNotFound) {
		return nil, err
	}

	s := &Share{
		Slug:      newSlug(),
		Code:      code,
		MapName:   mapName,
		Tiles:     tiles,
		CreatedAt: time.Now().Unix(),
	}
	// Regenerate on the rare slug collision
	for {
		var taken int
		if err := tx.GetContext(ctx, &taken, `SELECT COUNT(*) FROM shares WHERE slug = ?`, s.Slug); err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if taken == 0 {
			break
		}
		s.Slug = newSlug()
	}

	_, err = tx.NamedExecContext(ctx, `INSERT INTO shares (slug, code, map_name, tiles, created_at)
		VALUES (:slug, :code, :map_name, :tiles, :created_at)`, s)
	if err != nil {
		return nil, fmt.Errorf("insert share: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit share: %w", err)
	}
	return s, nil
}

// GetShare loads the share stored under slug
func (db *DB) GetShare(ctx context.Context, slug string) (*Share, error) {
	var s Share
	err := db.conn.GetContext(ctx, &s, `SELECT slug, code, map_name, tiles, created_at FROM shares WHERE slug = ?`,
		strings.ToLower(strings.TrimSpace(slug)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrShareNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("load share: %w", err)
	}
	return &s, nil
}

// RecentShares returns up to limit shares, newest first
func (db *DB) RecentShares(ctx context.Context, limit int) ([]Share, error) {
	if limit <= 0 {
		limit = 20
	}
	var shares []Share
	err := db.conn.SelectContext(ctx, &shares, `SELECT slug, code, map_name, tiles, created_at
		FROM shares ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return shares, nil
}

// CountShares returns how many shares are stored
func (db *DB) CountShares(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM shares`); err != nil {
		return 0, fmt.Errorf("count shares: %w", err)
	}
	return n, nil
}

func shareByCode(ctx context.Context, q sqlx.QueryerContext, code string) (*Share, error) {
	var s Share
	err := sqlx.GetContext(ctx, q, &s, `SELECT slug, code, map_name, tiles, created_at FROM shares WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load share: %w", err)
	}
	return &s, nil
}

func newSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:slugLength]
}
