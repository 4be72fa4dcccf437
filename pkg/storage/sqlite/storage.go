package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/affectlab/pkg/db/migrations"
	"github.com/fadedpez/affectlab/pkg/storage"
	_ "github.com/mattn/go-sqlite3"
)

// Storage implements storage.Store over a SQLite kv_store table
type Storage struct {
	db *sql.DB
}

// New opens the database at options.Path and applies pending migrations
func New(ctx context.Context, options *storage.Options) (*Storage, error) {
	if options == nil || options.Path == "" {
		return nil, fmt.Errorf("sqlite storage requires a database path")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(options.Path), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", options.Path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One connection serializes writers
	db.SetMaxOpenConns(1)

	if _, err := migrations.NewEmbeddedMigrator(db).MigrateUp(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &Storage{db: db}, nil
}

// DB exposes the underlying handle for admin tooling
func (s *Storage) DB() *sql.DB {
	return s.db
}

// Get loads a value
func (s *Storage) Get(ctx context.Context, userID, key string) ([]byte, error) {
	return get(ctx, s.db, userID, key)
}

// Set saves or replaces a value
func (s *Storage) Set(ctx context.Context, userID, key string, value []byte) error {
	return set(ctx, s.db, userID, key, value)
}

// Delete removes a value
func (s *Storage) Delete(ctx context.Context, userID, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return fmt.Errorf("error deleting %s/%s: %w", userID, key, err)
	}
	return nil
}

// Update applies fn inside a transaction
func (s *Storage) Update(ctx context.Context, userID, key string, fn storage.UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := get(ctx, tx, userID, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if err := set(ctx, tx, userID, key, next); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func get(ctx context.Context, q querier, userID, key string) ([]byte, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("error reading %s/%s: %w", userID, key, err)
	}
	return []byte(value), nil
}

func set(ctx context.Context, q querier, userID, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO kv_store (user_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, userID, key, string(value))
	if err != nil {
		return fmt.Errorf("error writing %s/%s: %w", userID, key, err)
	}
	return nil
}
