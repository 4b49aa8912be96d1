package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps strings and jsonb documents in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv_strings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS kv_documents (
			key TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Backend() string { return "postgres" }

// GetString returns the string at key.
func (s *PostgresStore) GetString(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM kv_strings WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// SetString upserts the string at key.
func (s *PostgresStore) SetString(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv_strings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	return err
}

// SetStringIfAbsent inserts the string unless the key already exists.
func (s *PostgresStore) SetStringIfAbsent(ctx context.Context, key, value string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO kv_strings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, value)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// GetJSON returns the document at key, or one element of it.
func (s *PostgresStore) GetJSON(ctx context.Context, key string, path Path) (json.RawMessage, error) {
	idx, err := path.arrayIndex()
	if err != nil {
		return nil, err
	}

	var doc []byte
	if idx < 0 {
		err = s.pool.QueryRow(ctx, `
			SELECT doc FROM kv_documents WHERE key = $1
		`, key).Scan(&doc)
	} else {
		err = s.pool.QueryRow(ctx, `
			SELECT doc -> $2::int FROM kv_documents WHERE key = $1
		`, key, idx).Scan(&doc)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return json.RawMessage(doc), nil
}

// SetJSON replaces the document at key, or one existing element of it.
func (s *PostgresStore) SetJSON(ctx context.Context, key string, path Path, value json.RawMessage) error {
	idx, err := path.arrayIndex()
	if err != nil {
		return err
	}
	if !json.Valid(value) {
		return ErrInvalidJSON
	}

	if idx < 0 {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO kv_documents (key, doc)
			VALUES ($1, $2::jsonb)
			ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
		`, key, string(value))
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE kv_documents
		SET doc = jsonb_set(doc, $2::text[], $3::jsonb), updated_at = NOW()
		WHERE key = $1
		  AND jsonb_typeof(doc) = 'array'
		  AND jsonb_array_length(doc) > $4::int
	`, key, []string{strconv.Itoa(idx)}, string(value), idx)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
