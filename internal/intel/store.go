package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fieldworks/skiptrace/internal/command"
	"github.com/fieldworks/skiptrace/internal/errors"
	"github.com/fieldworks/skiptrace/internal/kvstore"
)

// Store loads and saves case intelligence through the key-value collaborator.
// The aggregate is stored whole, JSON-serialized, under a case-scoped key.
type Store struct {
	kv     kvstore.Store
	logger *slog.Logger
}

func NewStore(kv kvstore.Store, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger.With("source", "intel.Store"),
	}
}

func storageKey(caseID string) string {
	return fmt.Sprintf("case_intel_%s", caseID)
}

// Load returns the persisted aggregate for the case. A missing key or corrupt
// JSON falls back to a freshly-initialized empty aggregate instead of failing:
// losing a corrupt blob is recoverable, crashing the session is not.
func (s *Store) Load(ctx context.Context, caseID string) (CaseIntel, error) {
	raw, err := s.kv.Get(ctx, storageKey(caseID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return NewCaseIntel(), nil
		}
		return CaseIntel{}, errors.Wrap(err, "load case intel", slog.String("caseID", caseID))
	}

	var state CaseIntel
	if err = json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "corrupt case intel, starting fresh",
			slog.String("caseID", caseID), errors.SlogError(err))
		return NewCaseIntel(), nil
	}
	return state, nil
}

// Save persists the aggregate, rewriting UpdatedAt.
func (s *Store) Save(ctx context.Context, caseID string, state CaseIntel) (CaseIntel, error) {
	state.UpdatedAt = nowISO()
	raw, err := json.Marshal(state)
	if err != nil {
		return CaseIntel{}, errors.Wrap(err, "marshal case intel", slog.String("caseID", caseID))
	}
	if err = s.kv.Set(ctx, storageKey(caseID), string(raw)); err != nil {
		return CaseIntel{}, errors.Wrap(err, "save case intel", slog.String("caseID", caseID))
	}
	return state, nil
}

// ApplyActions loads the current state once, folds all actions through Apply,
// persists exactly once, and returns the final state plus one description per
// action in input order.
//
// The write only happens after every action has reduced successfully, so a
// malformed action can never corrupt persisted state.
func (s *Store) ApplyActions(
	ctx context.Context,
	caseID string,
	actions []command.Action,
	source Source,
) (CaseIntel, []string, error) {
	state, err := s.Load(ctx, caseID)
	if err != nil {
		return CaseIntel{}, nil, err
	}

	descriptions := make([]string, 0, len(actions))
	for _, action := range actions {
		var description string
		state, description = Apply(state, action, source)
		descriptions = append(descriptions, description)
	}

	if len(actions) == 0 {
		return state, descriptions, nil
	}

	if state, err = s.Save(ctx, caseID, state); err != nil {
		return CaseIntel{}, nil, err
	}
	return state, descriptions, nil
}
