package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
)

// Intent is a parsed user request. Each interaction maps to exactly one.
type Intent interface {
	Name() string
}

// ListTemplatesIntent lists the catalog
type ListTemplatesIntent struct {
	Category string
	Search   string
}

// DrawIntent pays for and draws a card
type DrawIntent struct {
	TemplateID string
	Text       string
}

// RerollIntent redraws the user's last card on the boosted table.
// Free rerolls are funded by an ad and cost nothing.
type RerollIntent struct {
	Free bool
}

// WalletIntent shows the balance and ledger summary
type WalletIntent struct{}

// LedgerIntent lists ledger entries
type LedgerIntent struct {
	Filter entities.LedgerFilter
	Limit  int
}

// DailyIntent claims the daily reward
type DailyIntent struct{}

// AdIntent credits an ad reward for a scene
type AdIntent struct {
	Scene string
}

// HistoryIntent lists recent cards
type HistoryIntent struct {
	Limit int
}

// StatsIntent shows personal statistics and, optionally, a template's global distribution
type StatsIntent struct {
	TemplateID string
}

// ClearLedgerIntent empties the ledger keeping the balance
type ClearLedgerIntent struct{}

// ClearHistoryIntent forgets every drawn card
type ClearHistoryIntent struct{}

// ShareIntent builds a share link for the last card, or opens one when Link is set
type ShareIntent struct {
	Link string
}

func (ListTemplatesIntent) Name() string { return CommandTemplates }
func (DrawIntent) Name() string          { return CommandDraw }
func (RerollIntent) Name() string        { return CommandReroll }
func (WalletIntent) Name() string        { return CommandWallet }
func (LedgerIntent) Name() string        { return CommandLedger }
func (DailyIntent) Name() string         { return CommandDaily }
func (AdIntent) Name() string            { return CommandAd }
func (HistoryIntent) Name() string       { return CommandHistory }
func (StatsIntent) Name() string         { return CommandStats }
func (ClearLedgerIntent) Name() string   { return CommandClearLedger }
func (ClearHistoryIntent) Name() string  { return CommandClearHistory }
func (ShareIntent) Name() string         { return CommandShare }

// ParseIntent maps a slash command or button press to an Intent
func ParseIntent(i *discordgo.InteractionCreate) (Intent, error) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		return parseCommand(data.Name, optionMap(data.Options))
	case discordgo.InteractionMessageComponent:
		return parseComponent(i.MessageComponentData().CustomID)
	default:
		return nil, types.NewError(types.ErrInvalidCommand, "Unsupported interaction")
	}
}

func parseCommand(name string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (Intent, error) {
	switch name {
	case CommandTemplates:
		return ListTemplatesIntent{
			Category: stringOption(opts, optionCategory),
			Search:   stringOption(opts, optionSearch),
		}, nil
	case CommandDraw:
		intent := DrawIntent{
			TemplateID: stringOption(opts, optionTemplate),
			Text:       stringOption(opts, optionText),
		}
		if intent.TemplateID == "" {
			return nil, types.NewError(types.ErrInvalidArgument, "Pick a template first")
		}
		if intent.Text == "" {
			return nil, types.NewError(types.ErrInvalidArgument, "Tell me something to draw a card for")
		}
		return intent, nil
	case CommandReroll:
		return RerollIntent{}, nil
	case CommandWallet:
		return WalletIntent{}, nil
	case CommandLedger:
		return LedgerIntent{
			Filter: wallet.ParseLedgerFilter(stringOption(opts, optionFilter)),
			Limit:  int(intOption(opts, optionLimit, ledgerPageSize)),
		}, nil
	case CommandDaily:
		return DailyIntent{}, nil
	case CommandAd:
		return AdIntent{Scene: strings.ToUpper(stringOption(opts, optionScene))}, nil
	case CommandHistory:
		return HistoryIntent{Limit: int(intOption(opts, optionLimit, historyPageSize))}, nil
	case CommandStats:
		return StatsIntent{TemplateID: stringOption(opts, optionTemplate)}, nil
	case CommandClearLedger:
		return ClearLedgerIntent{}, nil
	case CommandClearHistory:
		return ClearHistoryIntent{}, nil
	case CommandShare:
		return ShareIntent{Link: stringOption(opts, optionLink)}, nil
	default:
		return nil, types.NewError(types.ErrInvalidCommand, "Unknown command: "+name)
	}
}

func parseComponent(customID string) (Intent, error) {
	switch customID {
	case ButtonReroll:
		return RerollIntent{}, nil
	case ButtonRerollAd:
		return RerollIntent{Free: true}, nil
	case ButtonShare:
		return ShareIntent{}, nil
	default:
		return nil, types.NewError(types.ErrInvalidCommand, "Unknown button: "+customID)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return strings.TrimSpace(opt.StringValue())
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int64) int64 {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return fallback
	}
	return opt.IntValue()
}

// userID returns the invoking user for both guild and DM interactions
func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
