package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
)

// Slash command names
const (
	CommandTemplates    = "templates"
	CommandDraw         = "draw"
	CommandReroll       = "reroll"
	CommandWallet       = "wallet"
	CommandLedger       = "ledger"
	CommandDaily        = "daily"
	CommandAd           = "ad"
	CommandHistory      = "history"
	CommandStats        = "stats"
	CommandClearLedger  = "clearledger"
	CommandClearHistory = "clearhistory"
	CommandShare        = "share"
)

// Button custom IDs attached to card messages
const (
	ButtonReroll   = "card_reroll"
	ButtonRerollAd = "card_reroll_ad"
	ButtonShare    = "card_share"
)

const (
	optionCategory = "category"
	optionSearch   = "search"
	optionTemplate = "template"
	optionText     = "text"
	optionFilter   = "filter"
	optionLimit    = "limit"
	optionScene    = "scene"
	optionLink     = "link"
)

const (
	ledgerPageSize  = 10
	historyPageSize = 5
	maxPageSize     = 25
)

var minLimit = float64(1)

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        CommandTemplates,
		Description: "Browse card templates",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionCategory,
				Description: "Only show one category",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Lucky", Value: entities.CategoryLucky},
					{Name: "Sharp", Value: entities.CategorySharp},
					{Name: "Persona", Value: entities.CategoryPersona},
					{Name: "Future", Value: entities.CategoryFuture},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionSearch,
				Description: "Search titles, descriptions and keywords",
			},
		},
	},
	{
		Name:        CommandDraw,
		Description: "Spend candy to draw an emotion card",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionTemplate,
				Description: "Template ID, see /templates",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionText,
				Description: "Your name, wish or question",
				Required:    true,
				MaxLength:   100,
			},
		},
	},
	{
		Name:        CommandReroll,
		Description: "Redraw your last card with boosted odds",
	},
	{
		Name:        CommandWallet,
		Description: "Check your candy balance",
	},
	{
		Name:        CommandLedger,
		Description: "Show your candy ledger",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionFilter,
				Description: "Only show some entries",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Credits", Value: string(entities.FilterCredit)},
					{Name: "Debits", Value: string(entities.FilterDebit)},
					{Name: "Daily", Value: string(entities.FilterDaily)},
					{Name: "Ads", Value: string(entities.FilterAd)},
					{Name: "Draws", Value: string(entities.FilterSpend)},
					{Name: "Rerolls", Value: string(entities.FilterReroll)},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        optionLimit,
				Description: "How many entries to show",
				MinValue:    &minLimit,
				MaxValue:    maxPageSize,
			},
		},
	},
	{
		Name:        CommandDaily,
		Description: "Claim your daily candy",
	},
	{
		Name:        CommandAd,
		Description: "Watch an ad for candy",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionScene,
				Description: "Where the ad was watched",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Home", Value: "HOME"},
					{Name: "Reroll", Value: wallet.SceneReroll},
				},
			},
		},
	},
	{
		Name:        CommandHistory,
		Description: "Show your recent cards",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        optionLimit,
				Description: "How many cards to show",
				MinValue:    &minLimit,
				MaxValue:    maxPageSize,
			},
		},
	},
	{
		Name:        CommandStats,
		Description: "Show your card statistics",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionTemplate,
				Description: "Also show everyone's rarity split for a template",
			},
		},
	},
	{
		Name:        CommandClearLedger,
		Description: "Clear your ledger, keeping your balance",
	},
	{
		Name:        CommandClearHistory,
		Description: "Forget every card you have drawn",
	},
	{
		Name:        CommandShare,
		Description: "Share your last card, or open a share link",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionLink,
				Description: "A share link to open",
			},
		},
	},
}
