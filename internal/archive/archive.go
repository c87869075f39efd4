package archive

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/review-analyzer/internal/types"
)

// saveFailedMessage is the user-facing text of a failed write
const saveFailedMessage = "No se pudo guardar el análisis. El almacenamiento podría estar lleno."

// Archive is the list of saved analyses, cached in memory and written
// through to a Store. Reads never touch the store.
type Archive struct {
	store  Store
	logger zerolog.Logger

	mu    sync.Mutex
	items []*types.EvaluationResult
}

// Open loads the saved list from store. Unreadable stored data is logged and
// treated as an empty archive; a failing store is an error.
func Open(ctx context.Context, store Store, logger zerolog.Logger) (*Archive, error) {
	a := &Archive{store: store, logger: logger}

	data, err := store.Load(ctx, Key)
	if err != nil {
		return nil, &ArchiveError{Op: "open", Message: "failed to load saved analyses", Cause: err}
	}
	if len(data) == 0 {
		return a, nil
	}

	var items []*types.EvaluationResult
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Error().Err(err).Msg("failed to parse saved analyses, starting empty")
		return a, nil
	}
	for _, item := range items {
		if item != nil && item.ID != "" {
			a.items = append(a.items, item)
		}
	}
	logger.Debug().Int("count", len(a.items)).Msg("archive loaded")
	return a, nil
}

// List returns copies of all saved analyses in insertion order.
func (a *Archive) List() []*types.EvaluationResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*types.EvaluationResult, len(a.items))
	for i, item := range a.items {
		out[i] = item.Clone()
	}
	return out
}

// Len returns the number of saved analyses
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// Get returns a copy of the analysis with id.
func (a *Archive) Get(id string) (*types.EvaluationResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i := a.indexOf(id); i >= 0 {
		return a.items[i].Clone(), true
	}
	return nil, false
}

// Put replaces the analysis with the same id, or appends it.
func (a *Archive) Put(ctx context.Context, result *types.EvaluationResult) error {
	if result == nil || result.ID == "" {
		return &ArchiveError{Op: "put", Message: "analysis has no id"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	next := make([]*types.EvaluationResult, len(a.items), len(a.items)+1)
	copy(next, a.items)
	if i := a.indexOf(result.ID); i >= 0 {
		next[i] = result.Clone()
	} else {
		next = append(next, result.Clone())
	}
	return a.commit(ctx, "put", next)
}

// Remove deletes the analysis with id. Unknown ids are a no-op.
func (a *Archive) Remove(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOf(id)
	if i < 0 {
		return nil
	}
	next := make([]*types.EvaluationResult, 0, len(a.items)-1)
	next = append(next, a.items[:i]...)
	next = append(next, a.items[i+1:]...)
	return a.commit(ctx, "remove", next)
}

// Close closes the backing store
func (a *Archive) Close() error {
	return a.store.Close()
}

// commit writes next to the store and adopts it only if the write succeeded.
// Callers hold a.mu.
func (a *Archive) commit(ctx context.Context, op string, next []*types.EvaluationResult) error {
	data, err := json.Marshal(next)
	if err != nil {
		return &ArchiveError{Op: op, Message: "failed to encode saved analyses", Cause: err}
	}
	if err := a.store.Save(ctx, Key, data); err != nil {
		a.logger.Error().Err(err).Str("op", op).Msg("archive write failed")
		return &ArchiveError{Op: op, Message: saveFailedMessage, Cause: err}
	}
	a.items = next
	a.logger.Debug().Str("op", op).Int("count", len(next)).Int("bytes", len(data)).Msg("archive written")
	return nil
}

func (a *Archive) indexOf(id string) int {
	for i, item := range a.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

