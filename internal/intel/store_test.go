package intel_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fieldworks/skiptrace/internal/command"
	"github.com/fieldworks/skiptrace/internal/intel"
	"github.com/fieldworks/skiptrace/internal/kvstore"
	"github.com/stretchr/testify/require"
)

// countingKV is an in-memory kvstore.Store that counts writes.
type countingKV struct {
	values map[string]string
	sets   int
}

func newCountingKV() *countingKV {
	return &countingKV{values: map[string]string{}}
}

func (kv *countingKV) Get(_ context.Context, key string) (string, error) {
	value, ok := kv.values[key]
	if !ok {
		return "", kvstore.ErrNotFound
	}
	return value, nil
}

func (kv *countingKV) Set(_ context.Context, key string, value string) error {
	kv.sets++
	kv.values[key] = value
	return nil
}

func (kv *countingKV) Remove(_ context.Context, key string) error {
	delete(kv.values, key)
	return nil
}

func newTestStore(kv kvstore.Store) *intel.Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return intel.NewStore(kv, logger)
}

func TestStore_ApplyActions_persistsExactlyOnce(t *testing.T) {
	t.Parallel()

	kv := newCountingKV()
	store := newTestStore(kv)
	ctx := context.Background()

	actions := []command.Action{
		command.AddAddress{Address: "42 Megehee Ct, Vicksburg MS", Type: "family", Important: true},
		command.AddNote{Text: "cousin lives here"},
		command.AddFlag{Flag: "flight risk"},
	}

	state, descriptions, err := store.ApplyActions(ctx, "case-1", actions, intel.SourceAI)
	require.NoError(t, err)
	require.Len(t, descriptions, 3, "one description per action in input order")
	require.Equal(t, 1, kv.sets, "batch must persist exactly once")
	require.Len(t, state.Addresses, 1)
	require.Len(t, state.Notes, 1)
	require.Equal(t, []string{"flight risk"}, state.CustomFlags)
	require.NotEmpty(t, state.UpdatedAt, "updatedAt rewritten on save")

	// State survives a reload.
	loaded, err := store.Load(ctx, "case-1")
	require.NoError(t, err)
	require.Equal(t, state, loaded)
}

func TestStore_ApplyActions_emptyBatchDoesNotWrite(t *testing.T) {
	t.Parallel()

	kv := newCountingKV()
	store := newTestStore(kv)

	_, descriptions, err := store.ApplyActions(context.Background(), "case-1", nil, intel.SourceUser)
	require.NoError(t, err)
	require.Empty(t, descriptions)
	require.Zero(t, kv.sets)
}

func TestStore_Load_fallsBackOnCorruptJSON(t *testing.T) {
	t.Parallel()

	kv := newCountingKV()
	kv.values["case_intel_case-1"] = "{not json"
	store := newTestStore(kv)

	state, err := store.Load(context.Background(), "case-1")
	require.NoError(t, err, "corrupt persisted JSON must not propagate")
	require.Equal(t, intel.NewCaseIntel(), state)
}

func TestStore_Load_missingKeyIsFreshState(t *testing.T) {
	t.Parallel()

	store := newTestStore(newCountingKV())

	state, err := store.Load(context.Background(), "unknown-case")
	require.NoError(t, err)
	require.Equal(t, intel.NewCaseIntel(), state)
}
