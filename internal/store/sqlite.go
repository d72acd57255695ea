package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteStore keeps values in a single kv table.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath returns $XDG_DATA_HOME/webtop/webtop.db.
func DefaultSQLitePath() (string, error) {
	p, err := xdg.DataFile(filepath.Join("webtop", "webtop.db"))
	if err != nil {
		return "", fmt.Errorf("sqlite store: resolve data path: %w", err)
	}
	return p, nil
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite store: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite store: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite store: create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite store: get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite store: put %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("sqlite store: delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlite store: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite store: list: %w", err)
	}
	return keys, nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
