package template

import (
	"context"
	"errors"

	"github.com/fadedpez/affectlab/pkg/entities"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidCatalog   = errors.New("invalid template catalog")
)

// Loader reads the full template catalog from its source
type Loader interface {
	Load(ctx context.Context) ([]*entities.Template, error)
}

// Query narrows a catalog listing. Zero values match everything.
type Query struct {
	Category string
	Tag      string
	Search   string
	Limit    int
	Offset   int
}

// Repository defines the interface for template catalog access
type Repository interface {
	// Get returns every template, reloading when the cache is stale or force is set
	Get(ctx context.Context, force bool) ([]*entities.Template, error)

	// Find returns a single template by ID
	Find(ctx context.Context, id string) (*entities.Template, error)

	// Filter returns the listed templates matching the query
	Filter(ctx context.Context, query Query) ([]*entities.Template, error)

	// Invalidate drops the cached catalog
	Invalidate()
}
