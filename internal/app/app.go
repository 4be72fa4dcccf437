// Package app assembles the storage, repositories and services shared by the
// bot and the admin CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadedpez/affectlab/internal/config"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/metrics"
	"github.com/fadedpez/affectlab/pkg/repositories/cards"
	"github.com/fadedpez/affectlab/pkg/repositories/history"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
	walletRepo "github.com/fadedpez/affectlab/pkg/repositories/wallet"
	"github.com/fadedpez/affectlab/pkg/roller"
	"github.com/fadedpez/affectlab/pkg/services/generation"
	"github.com/fadedpez/affectlab/pkg/services/share"
	"github.com/fadedpez/affectlab/pkg/services/statistics"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
	"github.com/fadedpez/affectlab/pkg/storage"
	"github.com/fadedpez/affectlab/pkg/storage/file"
	"github.com/fadedpez/affectlab/pkg/storage/redis"
	"github.com/fadedpez/affectlab/pkg/storage/sqlite"
)

// App holds the wired services
type App struct {
	Store      storage.Store
	Templates  *template.CachedRepository
	Analytics  cards.Repository // nil when Elasticsearch is not configured
	Wallet     *wallet.Service
	Generation *generation.Service
	Share      *share.Service
	Statistics *statistics.Service
	Metrics    *metrics.Metrics
	Logger     *logging.Logger
}

// OpenStore opens the key/value store selected by STORAGE_TYPE
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageType {
	case config.StorageSQLite:
		return sqlite.New(ctx, &storage.Options{Path: cfg.SQLitePath()})
	case config.StorageRedis:
		return redis.New(ctx, &storage.Options{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			KeyPrefix: storage.NewOptions().KeyPrefix,
		})
	case config.StorageFile, "":
		return file.New(&storage.Options{Path: cfg.FileStorePath()})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}

// New builds every service from configuration. Analytics is optional and
// only connected when ELASTICSEARCH_URL is set.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) (*App, error) {
	if logger == nil {
		logger = logging.Default
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageType, err)
	}
	logger.Info("[APP] Using %s storage", cfg.StorageType)

	var analytics cards.Repository
	if cfg.ElasticsearchURL != "" {
		esConfig := cards.DefaultElasticsearchConfig()
		esConfig.URL = cfg.ElasticsearchURL
		esConfig.Username = cfg.ElasticsearchUsername
		esConfig.Password = cfg.ElasticsearchPassword
		esConfig.IndexPrefix = cfg.ElasticsearchPrefix

		es, err := cards.NewElasticsearchRepository(ctx, esConfig, logger)
		if err != nil {
			// Cards still draw without analytics
			logger.Warn("[APP] Elasticsearch unavailable, card analytics disabled: %v", err)
		} else {
			analytics = es
		}
	}

	a, err := Assemble(cfg, store, analytics, roller.New(nil), logger, m)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// Assemble wires services over an already opened store
func Assemble(cfg *config.Config, store storage.Store, analytics cards.Repository, r *roller.Roller, logger *logging.Logger, m *metrics.Metrics) (*App, error) {
	if logger == nil {
		logger = logging.Default
	}

	templates := template.NewCachedRepository(
		template.NewLoader(cfg.TemplatesPath, cfg.AssetBaseURL), cfg.TemplateCacheTTL, logger)
	histories := history.NewKVRepository(store, history.DefaultLimit)

	wallets := wallet.NewService(walletRepo.NewKVRepository(store), wallet.Config{
		DefaultBalance: cfg.DefaultBalance,
		DailyReward:    cfg.DailyReward,
		AdReward:       cfg.AdReward,
		Location:       cfg.Location,
	}, logger, m)

	gen, err := generation.NewService(generation.Config{
		Templates: templates,
		Wallet:    wallets,
		History:   histories,
		Analytics: analytics,
		Roller:    r,
		Logger:    logger,
		Metrics:   m,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Store:      store,
		Templates:  templates,
		Analytics:  analytics,
		Wallet:     wallets,
		Generation: gen,
		Share:      share.NewService(templates),
		Statistics: statistics.NewService(histories, analytics),
		Metrics:    m,
		Logger:     logger,
	}, nil
}

// Close releases the store and the analytics client
func (a *App) Close() error {
	var errs []error
	if a.Analytics != nil {
		errs = append(errs, a.Analytics.Close())
	}
	errs = append(errs, a.Store.Close())
	return errors.Join(errs...)
}
