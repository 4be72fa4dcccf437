package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/metrics"
	"github.com/fadedpez/affectlab/pkg/repositories/cards"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
)

// Maintenance task names
const (
	TaskIndexRotation   = "index_rotation"
	TaskIndexPruning    = "index_pruning"
	TaskTemplateRefresh = "template_refresh"
)

// MaintenanceConfig sets task intervals. Zero values use the defaults.
type MaintenanceConfig struct {
	RotationInterval time.Duration
	PruneInterval    time.Duration
	TemplateRefresh  time.Duration
}

// MaintenanceScheduler keeps the analytics indices and template catalog current
type MaintenanceScheduler struct {
	scheduler *Scheduler
	analytics cards.Repository
	templates template.Repository
	logger    *logging.Logger
}

// NewMaintenanceScheduler registers the maintenance tasks. Either repository may be nil.
func NewMaintenanceScheduler(analytics cards.Repository, templates template.Repository, cfg MaintenanceConfig, logger *logging.Logger, m *metrics.Metrics) *MaintenanceScheduler {
	if logger == nil {
		logger = logging.Default
	}
	if cfg.RotationInterval <= 0 {
		cfg.RotationInterval = 24 * time.Hour
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = 7 * 24 * time.Hour
	}
	if cfg.TemplateRefresh <= 0 {
		cfg.TemplateRefresh = 5 * time.Minute
	}

	s := &MaintenanceScheduler{
		scheduler: NewScheduler(logger, m),
		analytics: analytics,
		templates: templates,
		logger:    logger,
	}

	if analytics != nil {
		s.scheduler.AddTask(TaskIndexRotation, cfg.RotationInterval, s.rotateIndex)
		s.scheduler.AddTask(TaskIndexPruning, cfg.PruneInterval, s.pruneIndices)
	}
	if templates != nil {
		s.scheduler.AddTask(TaskTemplateRefresh, cfg.TemplateRefresh, s.refreshTemplates)
	}
	return s
}

// Start starts the maintenance tasks
func (s *MaintenanceScheduler) Start(ctx context.Context) {
	s.scheduler.Start(ctx)
}

// Stop stops the maintenance tasks
func (s *MaintenanceScheduler) Stop() {
	s.scheduler.Stop()
}

func (s *MaintenanceScheduler) rotateIndex(ctx context.Context) error {
	return s.analytics.RotateIndex(ctx)
}

func (s *MaintenanceScheduler) pruneIndices(ctx context.Context) error {
	return s.analytics.PruneIndices(ctx)
}

// refreshTemplates reloads the catalog so edits to the file show up without a restart
func (s *MaintenanceScheduler) refreshTemplates(ctx context.Context) error {
	templates, err := s.templates.Get(ctx, true)
	if err != nil {
		return err
	}
	s.logger.Debug("[SCHEDULER] Template catalog refreshed, %d templates", len(templates))
	return nil
}
