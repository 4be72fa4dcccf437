package history

import (
	"context"
	"sync"

	"github.com/fadedpez/affectlab/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	results map[string][]*entities.GeneratedResult
	limit   int
	mu      sync.RWMutex
}

// NewMemoryRepository creates a new in-memory history repository
func NewMemoryRepository(limit int) *MemoryRepository {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryRepository{
		results: make(map[string][]*entities.GeneratedResult),
		limit:   limit,
	}
}

func (r *MemoryRepository) Add(ctx context.Context, userID string, result *entities.GeneratedResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *result
	r.results[userID] = prepend(r.results[userID], &copied, r.limit)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, userID string, limit int) ([]*entities.GeneratedResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := truncate(r.results[userID], limit)
	results := make([]*entities.GeneratedResult, 0, len(stored))
	for _, result := range stored {
		copied := *result
		results = append(results, &copied)
	}
	return results, nil
}

func (r *MemoryRepository) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, userID)
	return nil
}
