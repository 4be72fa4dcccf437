package share

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/roller"
	"github.com/fadedpez/affectlab/pkg/services/image"
)

// SharedID marks a result rebuilt from a share link
const SharedID = "shared"

// DefaultLuck is shown when a link carries no usable score, pulled into
// the rarity's band
const DefaultLuck = 80

// Query parameter names
const (
	paramTemplate = "tid"
	paramInput    = "u"
	paramRarity   = "r"
	paramScore    = "s"
)

// Service builds and reads share links for generated cards
type Service struct {
	templates image.TemplateFinder
	images    *image.Service
	now       func() time.Time
}

// NewService creates a new share service
func NewService(templates image.TemplateFinder) *Service {
	return &Service{
		templates: templates,
		images:    image.NewService(templates),
		now:       time.Now,
	}
}

// Encode returns the share query for a result
func Encode(result *entities.GeneratedResult) string {
	values := url.Values{}
	values.Set(paramTemplate, result.TemplateID)
	values.Set(paramInput, result.UserInput)
	values.Set(paramRarity, string(result.Rarity))
	values.Set(paramScore, strconv.Itoa(result.LuckScore))
	return values.Encode()
}

// Title is the caption shown alongside a shared card
func Title(result *entities.GeneratedResult) string {
	return fmt.Sprintf("[%s] %s 的运势评分: %d", result.Rarity, result.UserInput, result.LuckScore)
}

// Decode rebuilds a display-only result from a share query.
// The text is the template's first preset, not the original card's text.
func (s *Service) Decode(ctx context.Context, query string) (*entities.GeneratedResult, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(query), "?"))
	if err != nil {
		return nil, types.WrapError(types.ErrInvalidArgument, "malformed share link", err)
	}

	templateID := values.Get(paramTemplate)
	input := values.Get(paramInput)
	if templateID == "" || input == "" || values.Get(paramRarity) == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "share link is missing fields")
	}

	rarity, err := entities.ParseRarity(values.Get(paramRarity))
	if err != nil {
		return nil, types.WrapError(types.ErrInvalidArgument, "share link has an unknown rarity", err)
	}

	imageURL, err := s.images.Resolve(ctx, templateID, rarity)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templates.Find(ctx, templateID)
	if err != nil {
		return nil, types.WrapError(types.ErrStorage, "failed to load template", err)
	}

	text := input
	if !tpl.IsCustom() && len(tpl.PresetTexts) > 0 {
		text = tpl.PresetTexts[0]
	}

	return &entities.GeneratedResult{
		ID:         SharedID,
		TemplateID: templateID,
		ImageURL:   imageURL,
		Text:       text,
		UserInput:  input,
		Timestamp:  s.now().UnixMilli(),
		Rarity:     rarity,
		FilterSeed: 0,
		LuckScore:  parseScore(values.Get(paramScore), rarity),
	}, nil
}

// parseScore reads a link's score and clamps it into the band of rarity
func parseScore(s string, rarity entities.Rarity) int {
	score, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || score < 0 || score > 100 {
		score = DefaultLuck
	}
	band := roller.Bands[rarity]
	return min(max(score, band.Min), band.Max)
}
