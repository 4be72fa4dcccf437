package cards

import (
	"context"
	"time"

	"github.com/fadedpez/affectlab/pkg/entities"
)

// Event is one generated card as recorded for analytics
type Event struct {
	UserID  string
	Result  *entities.GeneratedResult
	Boosted bool
	Cost    int64
}

// Repository records generated cards and answers aggregate questions about them
type Repository interface {
	IndexCard(ctx context.Context, event *Event) error
	// RarityDistribution counts cards per rarity, optionally for one template
	RarityDistribution(ctx context.Context, templateID string) (map[entities.Rarity]int64, error)

	// Index maintenance, run by the scheduler
	RotateIndex(ctx context.Context) error
	PruneIndices(ctx context.Context) error

	Close() error
}

// document is the stored form of an Event
type document struct {
	CardID     string    `json:"card_id"`
	UserID     string    `json:"user_id"`
	TemplateID string    `json:"template_id"`
	Rarity     string    `json:"rarity"`
	LuckScore  int       `json:"luck_score"`
	FilterSeed int       `json:"filter_seed"`
	Boosted    bool      `json:"boosted"`
	Cost       int64     `json:"cost"`
	CreatedAt  time.Time `json:"created_at"`
}

func newDocument(event *Event) document {
	r := event.Result
	return document{
		CardID:     r.ID,
		UserID:     event.UserID,
		TemplateID: r.TemplateID,
		Rarity:     string(r.Rarity),
		LuckScore:  r.LuckScore,
		FilterSeed: r.FilterSeed,
		Boosted:    event.Boosted,
		Cost:       event.Cost,
		CreatedAt:  time.UnixMilli(r.Timestamp).UTC(),
	}
}
