package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
)

// fallbackOrder is tried after the exact rarity when a template lacks an asset
var fallbackOrder = []entities.Rarity{
	entities.RaritySR,
	entities.RarityR,
	entities.RarityN,
	entities.RaritySSR,
}

// TemplateFinder looks up a template by ID
type TemplateFinder interface {
	Find(ctx context.Context, id string) (*entities.Template, error)
}

// Service resolves card artwork for a template and rarity
type Service struct {
	templates TemplateFinder
}

// NewService creates a new image service
func NewService(templates TemplateFinder) *Service {
	return &Service{templates: templates}
}

// Resolve returns the image URL for templateID at rarity
func (s *Service) Resolve(ctx context.Context, templateID string, rarity entities.Rarity) (string, error) {
	tpl, err := s.templates.Find(ctx, templateID)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			return "", types.NewError(types.ErrInvalidTemplate, fmt.Sprintf("unknown template %s", templateID))
		}
		return "", types.WrapError(types.ErrStorage, "failed to load template catalog", err)
	}
	return ResolveAsset(tpl, rarity)
}

// ResolveAsset picks the asset for rarity from an already loaded template
func ResolveAsset(tpl *entities.Template, rarity entities.Rarity) (string, error) {
	if url, ok := PickAsset(tpl.Assets, rarity); ok {
		return url, nil
	}
	return "", types.NewError(types.ErrInvalidTemplate, fmt.Sprintf("template %s has no artwork", tpl.ID))
}

// PickAsset returns the exact asset for rarity, falling back SR, R, N, SSR
func PickAsset(assets map[entities.Rarity]string, rarity entities.Rarity) (string, bool) {
	if url := assets[rarity]; url != "" {
		return url, true
	}
	for _, candidate := range fallbackOrder {
		if url := assets[candidate]; url != "" {
			return url, true
		}
	}
	return "", false
}
