package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/affectlab/internal/discord"
	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
	"github.com/fadedpez/affectlab/pkg/services/generation"
	"github.com/fadedpez/affectlab/pkg/services/share"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
)

// dispatch routes an intent to its handler
func (b *Bot) dispatch(ctx context.Context, userID string, intent Intent) (*discord.Response, error) {
	switch in := intent.(type) {
	case ListTemplatesIntent:
		return b.handleTemplates(ctx, in)
	case DrawIntent:
		return b.handleDraw(ctx, userID, in)
	case RerollIntent:
		return b.handleReroll(ctx, userID, in)
	case WalletIntent:
		return b.handleWallet(ctx, userID)
	case LedgerIntent:
		return b.handleLedger(ctx, userID, in)
	case DailyIntent:
		return b.handleDaily(ctx, userID)
	case AdIntent:
		return b.handleAd(ctx, userID, in)
	case HistoryIntent:
		return b.handleHistory(ctx, userID, in)
	case StatsIntent:
		return b.handleStats(ctx, userID, in)
	case ClearLedgerIntent:
		return b.handleClearLedger(ctx, userID)
	case ClearHistoryIntent:
		return b.handleClearHistory(ctx, userID)
	case ShareIntent:
		return b.handleShare(ctx, userID, in)
	default:
		return nil, types.NewError(types.ErrInvalidCommand, fmt.Sprintf("Unhandled command %T", intent))
	}
}

func (b *Bot) handleTemplates(ctx context.Context, in ListTemplatesIntent) (*discord.Response, error) {
	templates, err := b.services.Templates.Filter(ctx, template.Query{
		Category: in.Category,
		Search:   in.Search,
		Limit:    maxPageSize,
	})
	if err != nil {
		return nil, types.WrapError(types.ErrStorage, "Could not load templates", err)
	}
	return discord.NewEmbedResponse(templatesEmbed(templates), nil, false), nil
}

func (b *Bot) handleDraw(ctx context.Context, userID string, in DrawIntent) (*discord.Response, error) {
	out, err := b.services.Generation.Generate(ctx, generation.Request{
		UserID:     userID,
		TemplateID: in.TemplateID,
		UserInput:  in.Text,
	})
	if err != nil {
		return nil, err
	}
	return cardResponse(out), nil
}

// handleReroll redraws the last card's template and input on the boosted table
func (b *Bot) handleReroll(ctx context.Context, userID string, in RerollIntent) (*discord.Response, error) {
	last, err := b.services.Generation.Last(ctx, userID)
	if err != nil {
		return nil, err
	}

	out, err := b.services.Generation.Generate(ctx, generation.Request{
		UserID:     userID,
		TemplateID: last.TemplateID,
		UserInput:  last.UserInput,
		Reroll:     !in.Free,
		Free:       in.Free,
	})
	if err != nil {
		return nil, err
	}
	return cardResponse(out), nil
}

func cardResponse(out *generation.Outcome) *discord.Response {
	resp := discord.NewEmbedResponse(cardEmbed(out.Result, out.Template), cardButtons(out.Template), false)
	resp.Content = fmt.Sprintf("🍬 %d left", out.Balance)
	return resp
}

func (b *Bot) handleWallet(ctx context.Context, userID string) (*discord.Response, error) {
	w, err := b.services.Wallet.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	canClaim, err := b.services.Wallet.CanClaimDaily(ctx, userID)
	if err != nil {
		return nil, err
	}
	embed := walletEmbed(w, wallet.ComputeSummary(w.Ledger), canClaim)
	return discord.NewEmbedResponse(embed, nil, true), nil
}

func (b *Bot) handleLedger(ctx context.Context, userID string, in LedgerIntent) (*discord.Response, error) {
	w, err := b.services.Wallet.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit := min(max(in.Limit, 1), maxPageSize)
	view := wallet.BuildLedgerView(w.Ledger, limit, in.Filter, b.location())
	return discord.NewEmbedResponse(ledgerEmbed(view, w.Balance, in.Filter), nil, true), nil
}

func (b *Bot) handleDaily(ctx context.Context, userID string) (*discord.Response, error) {
	w, err := b.services.Wallet.ClaimDaily(ctx, userID)
	if err != nil {
		return nil, err
	}
	return discord.NewEphemeralResponse(
		fmt.Sprintf("🎁 Daily candy claimed! Balance: %d", w.Balance), nil), nil
}

// handleAd credits an ad. A REROLL ad pays the cost of the last card's template.
func (b *Bot) handleAd(ctx context.Context, userID string, in AdIntent) (*discord.Response, error) {
	reward := wallet.AdReward{Scene: in.Scene}
	if strings.EqualFold(in.Scene, wallet.SceneReroll) {
		last, err := b.services.Generation.Last(ctx, userID)
		if err != nil && !types.IsCode(err, types.ErrNotFound) {
			return nil, err
		}
		if last != nil {
			reward.TemplateID = last.TemplateID
			if tpl, err := b.services.Templates.Find(ctx, last.TemplateID); err == nil {
				reward.TemplateCost = tpl.Cost
			}
		}
	}

	w, amount, err := b.services.Wallet.RewardAd(ctx, userID, reward)
	if err != nil {
		return nil, err
	}
	return discord.NewEphemeralResponse(
		fmt.Sprintf("📺 Thanks for watching! +%d candy, balance: %d", amount, w.Balance), nil), nil
}

func (b *Bot) handleHistory(ctx context.Context, userID string, in HistoryIntent) (*discord.Response, error) {
	limit := min(max(in.Limit, 1), maxPageSize)
	results, err := b.services.Generation.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return discord.NewEmbedResponse(historyEmbed(results, b.location()), nil, true), nil
}

func (b *Bot) handleStats(ctx context.Context, userID string, in StatsIntent) (*discord.Response, error) {
	stats, err := b.services.Statistics.UserStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}

	var dist *entities.RarityDistribution
	if in.TemplateID != "" {
		if dist, err = b.services.Statistics.GlobalDistribution(ctx, in.TemplateID); err != nil {
			return nil, err
		}
	}
	return discord.NewEmbedResponse(statsEmbed(stats, dist), nil, true), nil
}

func (b *Bot) handleClearLedger(ctx context.Context, userID string) (*discord.Response, error) {
	w, err := b.services.Wallet.ClearLedger(ctx, userID)
	if err != nil {
		return nil, err
	}
	return discord.NewEphemeralResponse(
		fmt.Sprintf("🧹 Ledger cleared. Balance stays at %d", w.Balance), nil), nil
}

func (b *Bot) handleClearHistory(ctx context.Context, userID string) (*discord.Response, error) {
	if err := b.services.Generation.ClearHistory(ctx, userID); err != nil {
		return nil, err
	}
	return discord.NewEphemeralResponse("🧹 Card history cleared", nil), nil
}

// handleShare opens a share link when one is given, otherwise builds one for the last card
func (b *Bot) handleShare(ctx context.Context, userID string, in ShareIntent) (*discord.Response, error) {
	if in.Link != "" {
		query := in.Link
		if idx := strings.Index(query, "?"); idx >= 0 {
			query = query[idx+1:]
		}
		result, err := b.services.Share.Decode(ctx, query)
		if err != nil {
			return nil, err
		}
		tpl, _ := b.services.Templates.Find(ctx, result.TemplateID)
		return discord.NewEmbedResponse(cardEmbed(result, tpl), nil, false), nil
	}

	last, err := b.services.Generation.Last(ctx, userID)
	if err != nil {
		return nil, err
	}
	content := fmt.Sprintf("%s\n`/share link:?%s`", share.Title(last), share.Encode(last))
	return discord.NewResponse(content, nil), nil
}

func (b *Bot) location() *time.Location {
	if b.config.Location != nil {
		return b.config.Location
	}
	return time.UTC
}
