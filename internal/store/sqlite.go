// Package store persists capture blobs in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/pkg/scene"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned for a key with no stored capture.
var ErrNotFound = errors.New("capture not found")

// Record is one stored blob.
type Record struct {
	Key       string
	Blob      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary describes a stored blob without its payload.
type Summary struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is a capture repository backed by one SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	logging.Logger().Debug("capture store opened", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewKey returns a fresh capture key.
func NewKey() string {
	return uuid.NewString()
}

// Put inserts or replaces the blob under key.
func (s *Store) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return errors.New("put capture: empty key")
	}
	now := s.now().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO captures (key, blob, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (key) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at
    `, key, blob, now, now)
	if err != nil {
		return fmt.Errorf("put capture %s: %w", key, err)
	}
	return nil
}

// Get returns the record under key or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT key, blob, created_at, updated_at
        FROM captures
        WHERE key = ?
    `, key)

	var (
		r                Record
		created, updated int64
	)
	if err := row.Scan(&r.Key, &r.Blob, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get capture %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("get capture %s: %w", key, err)
	}
	r.CreatedAt = time.UnixMilli(created)
	r.UpdatedAt = time.UnixMilli(updated)
	return &r, nil
}

// Delete removes key; deleting a missing key returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM captures WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete capture %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete capture %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("delete capture %s: %w", key, ErrNotFound)
	}
	return nil
}

// List returns every stored capture, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT key, length(blob), created_at, updated_at
        FROM captures
        ORDER BY updated_at DESC, key
    `)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sm               Summary
			created, updated int64
		)
		if err := rows.Scan(&sm.Key, &sm.Size, &created, &updated); err != nil {
			return nil, fmt.Errorf("list captures: %w", err)
		}
		sm.CreatedAt = time.UnixMilli(created)
		sm.UpdatedAt = time.UnixMilli(updated)
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	return out, nil
}

// PutCapture stores c under key.
func (s *Store) PutCapture(ctx context.Context, key string, c *scene.Capture) error {
	blob, err := c.Marshal()
	if err != nil {
		return err
	}
	return s.Put(ctx, key, blob)
}

// GetCapture loads and parses the capture under key, returning its
// validation warnings alongside.
func (s *Store) GetCapture(ctx context.Context, key string) (*scene.Capture, []string, error) {
	r, err := s.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return scene.ParseCapture(r.Blob)
}
