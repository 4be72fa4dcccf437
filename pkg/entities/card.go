package entities

import (
	"fmt"
	"strings"
)

// Rarity is the tier a generated card lands in
type Rarity string

const (
	RarityN   Rarity = "N"
	RarityR   Rarity = "R"
	RaritySR  Rarity = "SR"
	RaritySSR Rarity = "SSR"
)

// Rarities lists every tier in ascending order
var Rarities = []Rarity{RarityN, RarityR, RaritySR, RaritySSR}

// Rank returns the position of the rarity in ascending order, or -1 if unknown
func (r Rarity) Rank() int {
	for i, candidate := range Rarities {
		if candidate == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the known tiers
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

func (r Rarity) String() string {
	return string(r)
}

// ParseRarity parses a rarity name case-insensitively
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown rarity %q", s)
	}
	return r, nil
}

// GeneratedResult is the immutable record of one generation outcome
type GeneratedResult struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId"`
	ImageURL   string `json:"imageUrl"`
	Text       string `json:"text"`
	UserInput  string `json:"userInput"`
	Timestamp  int64  `json:"timestamp"` // epoch milliseconds
	Rarity     Rarity `json:"rarity"`
	FilterSeed int    `json:"filterSeed"` // [0,360), presentation only
	LuckScore  int    `json:"luckScore"`  // [0,100], banded by rarity
}
