package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/storage"
)

// KVRepository implements Repository over a storage.Store
type KVRepository struct {
	store storage.Store
	limit int
}

// NewKVRepository creates a history repository. limit <= 0 uses DefaultLimit.
func NewKVRepository(store storage.Store, limit int) *KVRepository {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &KVRepository{store: store, limit: limit}
}

// Add prepends a result inside the store's atomic update
func (r *KVRepository) Add(ctx context.Context, userID string, result *entities.GeneratedResult) error {
	err := r.store.Update(ctx, userID, storage.KeyHistory, func(current []byte) ([]byte, error) {
		// Unreadable history is replaced rather than blocking new cards
		results, _ := decode(current)
		results = prepend(results, result, r.limit)
		return json.Marshal(results)
	})
	if err != nil {
		return fmt.Errorf("error adding history: %w", err)
	}
	return nil
}

// List loads the user's history
func (r *KVRepository) List(ctx context.Context, userID string, limit int) ([]*entities.GeneratedResult, error) {
	data, err := r.store.Get(ctx, userID, storage.KeyHistory)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []*entities.GeneratedResult{}, nil
		}
		return nil, fmt.Errorf("error getting history: %w", err)
	}

	results, err := decode(data)
	if err != nil {
		return []*entities.GeneratedResult{}, err
	}
	return truncate(results, limit), nil
}

// Clear removes the user's history
func (r *KVRepository) Clear(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, userID, storage.KeyHistory); err != nil {
		return fmt.Errorf("error clearing history: %w", err)
	}
	return nil
}

func decode(data []byte) ([]*entities.GeneratedResult, error) {
	if len(data) == 0 {
		return []*entities.GeneratedResult{}, nil
	}

	var raw []*entities.GeneratedResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return []*entities.GeneratedResult{}, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}

	results := make([]*entities.GeneratedResult, 0, len(raw))
	for _, result := range raw {
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

func prepend(results []*entities.GeneratedResult, result *entities.GeneratedResult, limit int) []*entities.GeneratedResult {
	next := make([]*entities.GeneratedResult, 0, min(len(results)+1, limit))
	next = append(next, result)
	for _, existing := range results {
		if len(next) == limit {
			break
		}
		next = append(next, existing)
	}
	return next
}

func truncate(results []*entities.GeneratedResult, limit int) []*entities.GeneratedResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
