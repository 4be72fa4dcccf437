package entities

import "time"

// CardStatistics aggregates one user's generated cards
type CardStatistics struct {
	UserID           string
	TotalCards       int
	ByRarity         map[Rarity]int
	BestLuck         int
	AverageLuck      float64
	FavoriteTemplate string
	FavoriteCount    int
	LastDrawn        time.Time
}

// RarityRate returns the share of cards at rarity as a percentage
func (s *CardStatistics) RarityRate(rarity Rarity) float64 {
	if s.TotalCards == 0 {
		return 0.0
	}
	return float64(s.ByRarity[rarity]) / float64(s.TotalCards) * 100.0
}

// RarityDistribution is the global count of cards per rarity
type RarityDistribution struct {
	TemplateID  string // empty for all templates
	Counts      map[Rarity]int64
	Total       int64
	LastUpdated time.Time
}

// Share returns the percentage of cards at rarity
func (d *RarityDistribution) Share(rarity Rarity) float64 {
	if d.Total == 0 {
		return 0.0
	}
	return float64(d.Counts[rarity]) / float64(d.Total) * 100.0
}
