package template

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/entities"
)

// CachedRepository implements Repository over a Loader with a TTL cache
type CachedRepository struct {
	loader Loader
	ttl    time.Duration
	logger *logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	templates []*entities.Template
	byID      map[string]*entities.Template
	loadedAt  time.Time
}

// NewCachedRepository creates a catalog repository. A zero ttl reloads on every Get.
func NewCachedRepository(loader Loader, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if logger == nil {
		logger = logging.Default
	}
	return &CachedRepository{
		loader: loader,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the catalog, reloading it when stale or forced.
// A failed reload serves the previous catalog if there is one.
func (r *CachedRepository) Get(ctx context.Context, force bool) ([]*entities.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx, force)
}

// load refreshes the catalog when needed. Callers hold r.mu.
func (r *CachedRepository) load(ctx context.Context, force bool) ([]*entities.Template, error) {
	if !force && r.fresh() {
		return r.templates, nil
	}

	templates, err := r.loader.Load(ctx)
	if err != nil {
		if r.templates != nil {
			r.logger.Warn("[TEMPLATES] Reload failed, serving cached catalog: %v", err)
			return r.templates, nil
		}
		return nil, err
	}

	r.templates = templates
	r.byID = make(map[string]*entities.Template, len(templates))
	for _, t := range templates {
		r.byID[t.ID] = t
	}
	r.loadedAt = r.now()
	r.logger.Debug("[TEMPLATES] Loaded %d templates", len(templates))

	return r.templates, nil
}

func (r *CachedRepository) fresh() bool {
	if r.templates == nil || r.ttl <= 0 {
		return false
	}
	return r.now().Sub(r.loadedAt) < r.ttl
}

// Find returns a single template by ID
func (r *CachedRepository) Find(ctx context.Context, id string) (*entities.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.load(ctx, false); err != nil {
		return nil, err
	}

	t, ok := r.byID[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

// Filter lists templates matching the query, never including the custom template
func (r *CachedRepository) Filter(ctx context.Context, query Query) ([]*entities.Template, error) {
	templates, err := r.Get(ctx, false)
	if err != nil {
		return nil, err
	}

	matched := make([]*entities.Template, 0, len(templates))
	for _, t := range templates {
		if t.IsCustom() || !Matches(t, query) {
			continue
		}
		matched = append(matched, t)
	}

	if query.Offset > 0 {
		if query.Offset >= len(matched) {
			return []*entities.Template{}, nil
		}
		matched = matched[query.Offset:]
	}
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

// Invalidate drops the cached catalog so the next Get reloads
func (r *CachedRepository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadedAt = time.Time{}
	r.templates = nil
	r.byID = nil
}

// Matches reports whether a template satisfies the category, tag and search filters.
// Search is a case-insensitive substring match over id, title, description and keywords.
func Matches(t *entities.Template, query Query) bool {
	if query.Category != "" && query.Category != "all" && t.Category != query.Category {
		return false
	}
	if query.Tag != "" && !strings.EqualFold(t.Tag, query.Tag) {
		return false
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.ID), search) ||
		strings.Contains(strings.ToLower(t.Title), search) ||
		strings.Contains(strings.ToLower(t.Description), search) {
		return true
	}
	for _, kw := range t.Keywords {
		if strings.Contains(strings.ToLower(kw), search) {
			return true
		}
	}
	return false
}
