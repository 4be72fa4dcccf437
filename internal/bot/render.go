package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/affectlab/pkg/entities"
)

// Embed colors per rarity
var rarityColors = map[entities.Rarity]int{
	entities.RarityN:   0x9E9E9E,
	entities.RarityR:   0x4FC3F7,
	entities.RaritySR:  0xBA68C8,
	entities.RaritySSR: 0xFFD700,
}

const walletColor = 0xFF8FAB

// cardEmbed renders a generated card
func cardEmbed(result *entities.GeneratedResult, tpl *entities.Template) *discordgo.MessageEmbed {
	title := result.TemplateID
	if tpl != nil {
		title = tpl.Title
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("[%s] %s", result.Rarity, title),
		Description: result.Text,
		Color:       rarityColors[result.Rarity],
		Fields: []*discordgo.MessageEmbedField{
			{Name: "For", Value: result.UserInput, Inline: true},
			{Name: "Luck", Value: fmt.Sprintf("%d / 100", result.LuckScore), Inline: true},
		},
		Timestamp: time.UnixMilli(result.Timestamp).UTC().Format(time.RFC3339),
	}
	if result.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: result.ImageURL}
	}
	if result.ID != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: result.ID}
	}
	return embed
}

// cardButtons offers a paid reroll, an ad-funded reroll and sharing
func cardButtons(tpl *entities.Template) []discordgo.MessageComponent {
	label := "Reroll"
	if tpl != nil && tpl.Cost > 0 {
		label = fmt.Sprintf("Reroll (%d 🍬)", tpl.Cost)
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: label, Style: discordgo.PrimaryButton, CustomID: ButtonReroll},
				discordgo.Button{Label: "Watch ad to reroll", Style: discordgo.SecondaryButton, CustomID: ButtonRerollAd},
				discordgo.Button{Label: "Share", Style: discordgo.SuccessButton, CustomID: ButtonShare},
			},
		},
	}
}

// walletEmbed renders a balance with its ledger summary
func walletEmbed(w *entities.Wallet, summary entities.WalletSummary, canClaim bool) *discordgo.MessageEmbed {
	daily := "Already claimed today"
	if canClaim {
		daily = "Ready to claim with /daily"
	}
	return &discordgo.MessageEmbed{
		Title:       "🍬 Candy wallet",
		Description: fmt.Sprintf("Balance: **%d**", w.Balance),
		Color:       walletColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Earned", Value: fmt.Sprintf("%d", summary.TotalCredit), Inline: true},
			{Name: "Spent", Value: fmt.Sprintf("%d", summary.TotalDebit), Inline: true},
			{Name: "Draws", Value: fmt.Sprintf("%d", summary.GenerateCount), Inline: true},
			{Name: "Daily claims", Value: fmt.Sprintf("%d", summary.DailyCount), Inline: true},
			{Name: "Ads watched", Value: fmt.Sprintf("%d", summary.AdCount), Inline: true},
			{Name: "Daily", Value: daily, Inline: true},
		},
	}
}

func ledgerEmbed(entries []entities.DisplayEntry, balance int64, filter entities.LedgerFilter) *discordgo.MessageEmbed {
	title := "Ledger"
	if filter != entities.FilterAll {
		title = fmt.Sprintf("Ledger · %s", filter)
	}

	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "`%+d` %s · %s\n", entry.Amount, entry.Title, entry.Sub)
	}
	if b.Len() == 0 {
		b.WriteString("No entries yet")
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: b.String(),
		Color:       walletColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Balance %d", balance)},
	}
}

func templatesEmbed(templates []*entities.Template) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Card templates",
		Color: walletColor,
	}
	if len(templates) == 0 {
		embed.Description = "Nothing matched"
		return embed
	}
	for _, t := range templates {
		name := fmt.Sprintf("%s · %d 🍬", t.Title, t.Cost)
		if t.Tag != "" {
			name = fmt.Sprintf("%s [%s]", name, t.Tag)
		}
		value := fmt.Sprintf("`%s`", t.ID)
		if t.Description != "" {
			value = fmt.Sprintf("`%s` %s", t.ID, t.Description)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}
	return embed
}

func historyEmbed(results []*entities.GeneratedResult, loc *time.Location) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "**[%s]** %s · %s · luck %d · %s\n",
			r.Rarity, r.TemplateID, r.UserInput, r.LuckScore,
			time.UnixMilli(r.Timestamp).In(loc).Format("01-02 15:04"))
	}
	if b.Len() == 0 {
		b.WriteString("No cards drawn yet")
	}
	return &discordgo.MessageEmbed{
		Title:       "Recent cards",
		Description: b.String(),
		Color:       walletColor,
	}
}

func statsEmbed(stats *entities.CardStatistics, dist *entities.RarityDistribution) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Card statistics",
		Color: rarityColors[entities.RaritySSR],
	}
	if stats.TotalCards == 0 {
		embed.Description = "No cards drawn yet"
	} else {
		embed.Description = fmt.Sprintf("%d cards · best luck %d · average %.1f",
			stats.TotalCards, stats.BestLuck, stats.AverageLuck)
		for _, rarity := range entities.Rarities {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   string(rarity),
				Value:  fmt.Sprintf("%d (%.0f%%)", stats.ByRarity[rarity], stats.RarityRate(rarity)),
				Inline: true,
			})
		}
		if stats.FavoriteTemplate != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Favorite",
				Value: fmt.Sprintf("%s (%d)", stats.FavoriteTemplate, stats.FavoriteCount),
			})
		}
	}

	if dist != nil {
		parts := make([]string, 0, len(entities.Rarities))
		for _, rarity := range entities.Rarities {
			parts = append(parts, fmt.Sprintf("%s %.1f%%", rarity, dist.Share(rarity)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Everyone · %s (%d cards)", dist.TemplateID, dist.Total),
			Value: strings.Join(parts, " · "),
		})
	}
	return embed
}
