// Package kvstore provides the persistent key-value storage used for
// case-scoped state. Values are stored whole as JSON-serialized strings.
package kvstore

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/fieldworks/skiptrace/internal/db"
	"github.com/fieldworks/skiptrace/internal/errors"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.NewSentinel("key not found")

// Store is the persistence contract for case state. Implementations must
// treat Set as an upsert and Remove of a missing key as a no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// SQLiteStore persists key-value pairs in the kv_store table.
type SQLiteStore struct {
	dbs    *db.Database
	logger *slog.Logger
}

func NewSQLiteStore(dbs *db.Database, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{
		dbs:    dbs,
		logger: logger.With("source", "SQLiteStore"),
	}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	stmt := `SELECT value FROM kv_store WHERE key = ?`
	if err := s.dbs.ReadOnly.GetContext(ctx, &value, stmt, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", errors.Wrap(err, "read value", slog.String("key", key))
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value string) error {
	stmt := `INSERT INTO kv_store (key, value, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT (key) DO UPDATE SET value      = excluded.value,
                                updated_at = excluded.updated_at`
	if _, err := s.dbs.ReadWrite.ExecContext(ctx, stmt, key, value); err != nil {
		return errors.Wrap(err, "write value", slog.String("key", key))
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	stmt := `DELETE FROM kv_store WHERE key = ?`
	if _, err := s.dbs.ReadWrite.ExecContext(ctx, stmt, key); err != nil {
		return errors.Wrap(err, "remove value", slog.String("key", key))
	}
	return nil
}
