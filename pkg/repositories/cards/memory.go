package cards

import (
	"context"
	"sync"

	"github.com/fadedpez/affectlab/pkg/entities"
)

// MemoryRepository keeps card events in memory. Used when no analytics
// backend is configured and in tests.
type MemoryRepository struct {
	docs []document
	mu   sync.RWMutex
}

// NewMemoryRepository creates a new in-memory analytics repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) IndexCard(ctx context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, newDocument(event))
	return nil
}

func (r *MemoryRepository) RarityDistribution(ctx context.Context, templateID string) (map[entities.Rarity]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entities.Rarity]int64)
	for _, doc := range r.docs {
		if templateID != "" && doc.TemplateID != templateID {
			continue
		}
		counts[entities.Rarity(doc.Rarity)]++
	}
	return counts, nil
}

// RotateIndex is a no-op for memory storage
func (r *MemoryRepository) RotateIndex(ctx context.Context) error {
	return nil
}

// PruneIndices is a no-op for memory storage
func (r *MemoryRepository) PruneIndices(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
