package statistics

import (
	"context"
	"time"

	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/repositories/cards"
	"github.com/fadedpez/affectlab/pkg/repositories/history"
)

// Service provides methods for retrieving and processing card statistics
type Service struct {
	history   history.Repository
	analytics cards.Repository
	now       func() time.Time
}

// NewService creates a new statistics service
func NewService(history history.Repository, analytics cards.Repository) *Service {
	return &Service{
		history:   history,
		analytics: analytics,
		now:       time.Now,
	}
}

// UserStatistics summarizes the cards in the user's history
func (s *Service) UserStatistics(ctx context.Context, userID string) (*entities.CardStatistics, error) {
	results, err := s.history.List(ctx, userID, 0)
	if err != nil {
		return nil, types.WrapError(types.ErrStorage, "failed to load history", err)
	}
	return ComputeStatistics(userID, results), nil
}

// ComputeStatistics aggregates results. Favorite template ties go to the most recent draw.
func ComputeStatistics(userID string, results []*entities.GeneratedResult) *entities.CardStatistics {
	stats := &entities.CardStatistics{
		UserID:   userID,
		ByRarity: make(map[entities.Rarity]int, len(entities.Rarities)),
	}

	var luckTotal int
	templateCounts := make(map[string]int)
	// History is newest first; remember where each template was first seen
	firstSeen := make(map[string]int)

	for i, result := range results {
		if result == nil {
			continue
		}
		stats.TotalCards++
		stats.ByRarity[result.Rarity]++
		luckTotal += result.LuckScore
		if result.LuckScore > stats.BestLuck {
			stats.BestLuck = result.LuckScore
		}

		if drawn := time.UnixMilli(result.Timestamp); drawn.After(stats.LastDrawn) {
			stats.LastDrawn = drawn
		}

		templateCounts[result.TemplateID]++
		if _, ok := firstSeen[result.TemplateID]; !ok {
			firstSeen[result.TemplateID] = i
		}
	}

	if stats.TotalCards > 0 {
		stats.AverageLuck = float64(luckTotal) / float64(stats.TotalCards)
	}

	for templateID, count := range templateCounts {
		if count > stats.FavoriteCount ||
			(count == stats.FavoriteCount && firstSeen[templateID] < firstSeen[stats.FavoriteTemplate]) {
			stats.FavoriteTemplate = templateID
			stats.FavoriteCount = count
		}
	}

	return stats
}

// GlobalDistribution returns how all users' cards spread across rarities
func (s *Service) GlobalDistribution(ctx context.Context, templateID string) (*entities.RarityDistribution, error) {
	dist := &entities.RarityDistribution{
		TemplateID:  templateID,
		Counts:      make(map[entities.Rarity]int64, len(entities.Rarities)),
		LastUpdated: s.now(),
	}
	if s.analytics == nil {
		return dist, nil
	}

	counts, err := s.analytics.RarityDistribution(ctx, templateID)
	if err != nil {
		return nil, types.WrapError(types.ErrStorage, "failed to load rarity distribution", err)
	}
	for rarity, count := range counts {
		dist.Counts[rarity] = count
		dist.Total += count
	}
	return dist, nil
}
