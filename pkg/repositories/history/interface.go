package history

import (
	"context"
	"errors"

	"github.com/fadedpez/affectlab/pkg/entities"
)

// DefaultLimit caps how many results are kept per user
const DefaultLimit = 200

var ErrMalformedHistory = errors.New("malformed history")

// Repository stores each user's generated cards, newest first
type Repository interface {
	// Add prepends result and trims the history to the repository limit
	Add(ctx context.Context, userID string, result *entities.GeneratedResult) error
	// List returns up to limit results, newest first. limit <= 0 returns all.
	List(ctx context.Context, userID string, limit int) ([]*entities.GeneratedResult, error)
	Clear(ctx context.Context, userID string) error
}
