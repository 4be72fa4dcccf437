package cards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/entities"
)

const indexMonthLayout = "2006-01"

// cardMapping is applied to every monthly card index
const cardMapping = `{
	"mappings": {
		"properties": {
			"card_id": { "type": "keyword" },
			"user_id": { "type": "keyword" },
			"template_id": { "type": "keyword" },
			"rarity": { "type": "keyword" },
			"luck_score": { "type": "integer" },
			"filter_seed": { "type": "integer" },
			"boosted": { "type": "boolean" },
			"cost": { "type": "long" },
			"created_at": { "type": "date" }
		}
	},
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1,
		"refresh_interval": "1s"
	}
}`

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL             string
	Username        string
	Password        string
	IndexPrefix     string
	RetentionPeriod time.Duration // how long monthly indices are kept
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:             "http://localhost:9200",
		IndexPrefix:     "affectlab",
		RetentionPeriod: 180 * 24 * time.Hour,
	}
}

// ElasticsearchRepository writes cards to monthly indices joined under one read alias
type ElasticsearchRepository struct {
	client *elasticsearch.Client
	config *ElasticsearchConfig
	logger *logging.Logger
	now    func() time.Time

	mu           sync.Mutex
	currentIndex string
}

// NewElasticsearchRepository creates the client and makes sure this month's index exists
func NewElasticsearchRepository(ctx context.Context, config *ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}
	if config.IndexPrefix == "" {
		config.IndexPrefix = "affectlab"
	}
	if config.RetentionPeriod == 0 {
		config.RetentionPeriod = DefaultElasticsearchConfig().RetentionPeriod
	}
	if logger == nil {
		logger = logging.Default
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	repo := &ElasticsearchRepository{
		client: client,
		config: config,
		logger: logger,
		now:    time.Now,
	}
	if err := repo.RotateIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}
	return repo, nil
}

// Alias is the read alias covering every monthly index
func (r *ElasticsearchRepository) Alias() string {
	return r.config.IndexPrefix + "_cards"
}

// IndexName returns the monthly index that cards created at t belong to
func IndexName(prefix string, t time.Time) string {
	return prefix + "_cards_" + t.UTC().Format(indexMonthLayout)
}

// ParseIndexMonth extracts the month from a monthly index name
func ParseIndexMonth(prefix, name string) (time.Time, bool) {
	suffix, ok := strings.CutPrefix(name, prefix+"_cards_")
	if !ok {
		return time.Time{}, false
	}
	month, err := time.Parse(indexMonthLayout, suffix)
	if err != nil {
		return time.Time{}, false
	}
	return month, true
}

// RotateIndex creates the current month's index if needed and adds it to the alias
func (r *ElasticsearchRepository) RotateIndex(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rotate(ctx)
}

func (r *ElasticsearchRepository) rotate(ctx context.Context) error {
	name := IndexName(r.config.IndexPrefix, r.now())
	if name == r.currentIndex {
		return nil
	}

	res, err := r.client.Indices.Exists([]string{name}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		res, err := r.client.Indices.Create(name,
			r.client.Indices.Create.WithContext(ctx),
			r.client.Indices.Create.WithBody(strings.NewReader(cardMapping)),
		)
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", name, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("error creating index %s: %s", name, res.String())
		}
		r.logger.Info("[ANALYTICS] Created card index %s", name)
	}

	actions := map[string]interface{}{
		"actions": []map[string]interface{}{
			{"add": map[string]interface{}{"index": name, "alias": r.Alias()}},
		},
	}
	body, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("error marshaling alias actions: %w", err)
	}

	aliasRes, err := r.client.Indices.UpdateAliases(bytes.NewReader(body),
		r.client.Indices.UpdateAliases.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error updating alias: %w", err)
	}
	defer aliasRes.Body.Close()
	if aliasRes.IsError() {
		return fmt.Errorf("error updating alias: %s", aliasRes.String())
	}

	r.currentIndex = name
	return nil
}

// IndexCard writes one card to the current monthly index
func (r *ElasticsearchRepository) IndexCard(ctx context.Context, event *Event) error {
	if event == nil || event.Result == nil {
		return fmt.Errorf("card event has no result")
	}

	r.mu.Lock()
	if err := r.rotate(ctx); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("error rotating indices: %w", err)
	}
	index := r.currentIndex
	r.mu.Unlock()

	data, err := json.Marshal(newDocument(event))
	if err != nil {
		return fmt.Errorf("error marshaling card: %w", err)
	}

	res, err := r.client.Index(index, bytes.NewReader(data),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(event.Result.ID),
	)
	if err != nil {
		return fmt.Errorf("error indexing card: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("error indexing card: %s", res.String())
	}
	return nil
}

// DistributionQuery builds the terms aggregation over rarity
func DistributionQuery(templateID string) map[string]interface{} {
	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if templateID != "" {
		query = map[string]interface{}{
			"term": map[string]interface{}{"template_id": templateID},
		}
	}
	return map[string]interface{}{
		"size":  0,
		"query": query,
		"aggs": map[string]interface{}{
			"rarities": map[string]interface{}{
				"terms": map[string]interface{}{"field": "rarity", "size": len(entities.Rarities)},
			},
		},
	}
}

// ParseDistribution reads the rarity buckets of a search response
func ParseDistribution(body io.Reader) (map[entities.Rarity]int64, error) {
	var result struct {
		Aggregations struct {
			Rarities struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
				} `json:"buckets"`
			} `json:"rarities"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing distribution: %w", err)
	}

	counts := make(map[entities.Rarity]int64)
	for _, bucket := range result.Aggregations.Rarities.Buckets {
		rarity, err := entities.ParseRarity(bucket.Key)
		if err != nil {
			continue
		}
		counts[rarity] += bucket.DocCount
	}
	return counts, nil
}

// RarityDistribution aggregates card counts per rarity across all months
func (r *ElasticsearchRepository) RarityDistribution(ctx context.Context, templateID string) (map[entities.Rarity]int64, error) {
	body, err := json.Marshal(DistributionQuery(templateID))
	if err != nil {
		return nil, fmt.Errorf("error marshaling query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.Alias()),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching cards: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return map[entities.Rarity]int64{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("error searching cards: %s", res.String())
	}
	return ParseDistribution(res.Body)
}

// ExpiredIndices returns the monthly indices whose whole month ended before cutoff
func ExpiredIndices(prefix string, names []string, cutoff time.Time) []string {
	var expired []string
	for _, name := range names {
		month, ok := ParseIndexMonth(prefix, name)
		if !ok {
			continue
		}
		if month.AddDate(0, 1, 0).Before(cutoff) {
			expired = append(expired, name)
		}
	}
	return expired
}

// PruneIndices deletes monthly indices older than the retention period
func (r *ElasticsearchRepository) PruneIndices(ctx context.Context) error {
	names, err := r.GetIndices(ctx, r.config.IndexPrefix+"_cards_*")
	if err != nil {
		return err
	}

	cutoff := r.now().Add(-r.config.RetentionPeriod)
	for _, name := range ExpiredIndices(r.config.IndexPrefix, names, cutoff) {
		res, err := r.client.Indices.Delete([]string{name}, r.client.Indices.Delete.WithContext(ctx))
		if err != nil {
			r.logger.Error("[ANALYTICS] Error deleting index %s: %v", name, err)
			continue
		}
		res.Body.Close()
		if res.IsError() {
			r.logger.Error("[ANALYTICS] Error deleting index %s: %s", name, res.String())
			continue
		}
		r.logger.Info("[ANALYTICS] Deleted index %s (older than %v)", name, r.config.RetentionPeriod)
	}
	return nil
}

// GetIndices returns a list of indices that match the given pattern
func (r *ElasticsearchRepository) GetIndices(ctx context.Context, pattern string) ([]string, error) {
	res, err := r.client.Indices.Get([]string{pattern},
		r.client.Indices.Get.WithContext(ctx),
		r.client.Indices.Get.WithExpandWildcards("open"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get indices: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("error getting indices: %s", res.String())
	}

	var indices map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("error parsing indices response: %w", err)
	}

	names := make([]string, 0, len(indices))
	for name := range indices {
		names = append(names, name)
	}
	return names, nil
}

// Close releases nothing; the client holds no persistent resources
func (r *ElasticsearchRepository) Close() error {
	return nil
}
