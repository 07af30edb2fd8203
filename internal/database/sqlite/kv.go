// Package sqlite implements the host-local key-value cache on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/osse101/EcoQuest_Go/internal/store"
)

// DB is a SQLite backed store.Local
type DB struct {
	conn *sql.DB
}

var _ store.Local = (*DB)(nil)

// Migrations returns the schema statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_kv_updated ON kv(updated_at)`,
	}
}

// Open creates or opens the cache file at path and applies the schema
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateDir, err)
		}
	}

	conn, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpen, err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent handlers
	conn.SetMaxOpenConns(1)

	for _, stmt := range append([]string{PragmaJournalWAL}, Migrations()...) {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
	}
	return &DB{conn: conn}, nil
}

// Ping verifies the database file is still usable
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close releases the underlying file
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetItem returns the value stored under key
func (db *DB) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToRead, err)
	}
	return value, nil
}

// SetItem stores value under key
func (db *DB) SetItem(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToWrite, err)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (db *DB) RemoveItem(ctx context.Context, key string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToWrite, err)
	}
	return nil
}

// Keys lists keys beginning with prefix in lexical order
func (db *DB) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT key FROM kv WHERE key LIKE ? ESCAPE '\' ORDER BY key`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToRead, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToRead, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
