package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps strings and JSON documents in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/escaperoom.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/escaperoom.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_strings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS kv_documents (
		key TEXT PRIMARY KEY,
		doc TEXT NOT NULL CHECK (json_valid(doc)),
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Backend() string { return "sqlite" }

// GetString returns the string at key.
func (s *SQLiteStore) GetString(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM kv_strings WHERE key = ?
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// SetString upserts the string at key.
func (s *SQLiteStore) SetString(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_strings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// SetStringIfAbsent inserts the string unless the key already exists.
func (s *SQLiteStore) SetStringIfAbsent(ctx context.Context, key, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO kv_strings (key, value) VALUES (?, ?)
	`, key, value)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetJSON returns the document at key, or one element of it.
func (s *SQLiteStore) GetJSON(ctx context.Context, key string, path Path) (json.RawMessage, error) {
	if _, err := path.arrayIndex(); err != nil {
		return nil, err
	}

	// The -> operator always yields JSON text, NULL when the path misses.
	var doc sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT doc -> ? FROM kv_documents WHERE key = ?
	`, string(path), key).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !doc.Valid {
		return nil, ErrNotFound
	}
	return json.RawMessage(doc.String), nil
}

// SetJSON replaces the document at key, or one existing element of it.
func (s *SQLiteStore) SetJSON(ctx context.Context, key string, path Path, value json.RawMessage) error {
	idx, err := path.arrayIndex()
	if err != nil {
		return err
	}
	if !json.Valid(value) {
		return ErrInvalidJSON
	}

	if idx < 0 {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO kv_documents (key, doc) VALUES (?, json(?))
			ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP
		`, key, string(value))
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE kv_documents
		SET doc = json_set(doc, ?, json(?)), updated_at = CURRENT_TIMESTAMP
		WHERE key = ?
		  AND json_type(doc) = 'array'
		  AND json_array_length(doc) > ?
	`, string(path), string(value), key, idx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
