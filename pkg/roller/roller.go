package roller

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
)

// Source supplies uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Band is the inclusive luck score range of a rarity tier
type Band struct {
	Min int
	Max int
}

// Bands maps each rarity to its luck score range
var Bands = map[entities.Rarity]Band{
	entities.RarityN:   {Min: 0, Max: 59},
	entities.RarityR:   {Min: 60, Max: 79},
	entities.RaritySR:  {Min: 80, Max: 94},
	entities.RaritySSR: {Min: 95, Max: 100},
}

// ValidLuck reports whether score lies inside the band of rarity
func ValidLuck(rarity entities.Rarity, score int) bool {
	band, ok := Bands[rarity]
	return ok && score >= band.Min && score <= band.Max
}

// Result is the rolled part of a generated card
type Result struct {
	Rarity     entities.Rarity
	LuckScore  int
	Text       string
	FilterSeed int
}

// Roller rolls rarity and luck and picks the card text
type Roller struct {
	mu  sync.Mutex
	src Source
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// New creates a roller. A nil source uses the runtime's shared generator.
func New(src Source) *Roller {
	if src == nil {
		src = globalSource{}
	}
	return &Roller{src: src}
}

// Roll produces the rarity, luck score, text and filter seed for one card.
// Text and filter seed depend only on the input and template; rarity and luck
// are fresh draws on every call.
func (r *Roller) Roll(userInput, templateID string, presetTexts []string, isCustom bool) (*Result, error) {
	hash := StableHash(userInput + templateID)

	text, err := SelectText(hash, userInput, templateID, presetTexts, isCustom)
	if err != nil {
		return nil, err
	}

	rarity, luck := r.RollRarity()
	return &Result{
		Rarity:     rarity,
		LuckScore:  luck,
		Text:       text,
		FilterSeed: int(hash % 360),
	}, nil
}

// Reroll is Roll with the boosted rarity table used for rerolls
func (r *Roller) Reroll(userInput, templateID string, presetTexts []string, isCustom bool) (*Result, error) {
	res, err := r.Roll(userInput, templateID, presetTexts, isCustom)
	if err != nil {
		return nil, err
	}
	if res.Rarity == entities.RarityN || res.Rarity == entities.RarityR {
		res.Rarity, res.LuckScore = r.boosted()
	}
	return res, nil
}

// SelectText picks the displayed text for a hash
func SelectText(hash int64, userInput, templateID string, presetTexts []string, isCustom bool) (string, error) {
	if isCustom {
		return userInput, nil
	}
	if len(presetTexts) == 0 {
		return "", types.NewError(types.ErrInvalidTemplate, fmt.Sprintf("template %s has no preset texts", templateID))
	}
	return presetTexts[hash%int64(len(presetTexts))], nil
}

// RollRarity draws a rarity and a luck score inside its band
func (r *Roller) RollRarity() (entities.Rarity, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RarityFor(r.src.Float64(), r.src.Float64())
}

func (r *Roller) boosted() (entities.Rarity, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return BoostedRarityFor(r.src.Float64(), r.src.Float64())
}

// RarityFor maps a tier draw and a luck draw to a rarity and luck score.
// Thresholds are strict: a draw of exactly 0.8 is SR, not SSR.
func RarityFor(tierDraw, luckDraw float64) (entities.Rarity, int) {
	switch {
	case tierDraw > 0.80:
		return entities.RaritySSR, 95 + int(luckDraw*6)
	case tierDraw > 0.40:
		return entities.RaritySR, 80 + int(luckDraw*15)
	case tierDraw > 0.20:
		return entities.RarityR, 60 + int(luckDraw*20)
	default:
		return entities.RarityN, int(luckDraw * 60)
	}
}

// BoostedRarityFor is the reroll table: SSR above 0.65, SR otherwise
func BoostedRarityFor(tierDraw, luckDraw float64) (entities.Rarity, int) {
	if tierDraw > 0.65 {
		return entities.RaritySSR, 95 + int(luckDraw*6)
	}
	return entities.RaritySR, 80 + int(luckDraw*15)
}
