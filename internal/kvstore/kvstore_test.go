package kvstore_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fieldworks/skiptrace/internal/db"
	"github.com/fieldworks/skiptrace/internal/kvstore"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store backed by a new in-memory database.
func newTestStore(t *testing.T) *kvstore.SQLiteStore {
	t.Helper()

	dbs, err := db.NewDatabase(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, dbs.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return kvstore.NewSQLiteStore(dbs, logger)
}

func TestSQLiteStore_roundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "case_intel_case-1", `{"addresses":[]}`))

	got, err := store.Get(ctx, "case_intel_case-1")
	require.NoError(t, err)
	require.Equal(t, `{"addresses":[]}`, got)

	// Set is an upsert.
	require.NoError(t, store.Set(ctx, "case_intel_case-1", `{"addresses":[1]}`))
	got, err = store.Get(ctx, "case_intel_case-1")
	require.NoError(t, err)
	require.Equal(t, `{"addresses":[1]}`, got)
}

func TestSQLiteStore_missingKey(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestSQLiteStore_remove(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value"))
	require.NoError(t, store.Remove(ctx, "key"))

	_, err := store.Get(ctx, "key")
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	// Removing a missing key is a no-op.
	require.NoError(t, store.Remove(ctx, "key"))
}
