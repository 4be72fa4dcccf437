package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type IntentsTestSuite struct {
	suite.Suite
}

func TestIntentsSuite(t *testing.T) {
	suite.Run(t, new(IntentsTestSuite))
}

func commandCreate(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}}
}

func (s *IntentsTestSuite) TestParseCommands() {
	testCases := []struct {
		name     string
		create   *discordgo.InteractionCreate
		expected Intent
	}{
		{
			name:     "templates with filters",
			create:   commandCreate(CommandTemplates, str(optionCategory, "lucky"), str(optionSearch, " 运势 ")),
			expected: ListTemplatesIntent{Category: "lucky", Search: "运势"},
		},
		{
			name:     "draw",
			create:   commandCreate(CommandDraw, str(optionTemplate, "energy-daily"), str(optionText, "小明")),
			expected: DrawIntent{TemplateID: "energy-daily", Text: "小明"},
		},
		{
			name:     "ledger defaults",
			create:   commandCreate(CommandLedger),
			expected: LedgerIntent{Filter: entities.FilterAll, Limit: ledgerPageSize},
		},
		{
			name:     "ledger filter is case-insensitive",
			create:   commandCreate(CommandLedger, str(optionFilter, "credit"), num(optionLimit, 3)),
			expected: LedgerIntent{Filter: entities.FilterCredit, Limit: 3},
		},
		{
			name:     "ad scene uppercased",
			create:   commandCreate(CommandAd, str(optionScene, "reroll")),
			expected: AdIntent{Scene: "REROLL"},
		},
		{
			name:     "history default limit",
			create:   commandCreate(CommandHistory),
			expected: HistoryIntent{Limit: historyPageSize},
		},
		{
			name:     "share link",
			create:   commandCreate(CommandShare, str(optionLink, "?tid=x")),
			expected: ShareIntent{Link: "?tid=x"},
		},
		{
			name:     "option with the wrong type is ignored",
			create:   commandCreate(CommandStats, num(optionTemplate, 4)),
			expected: StatsIntent{},
		},
		{name: "reroll", create: commandCreate(CommandReroll), expected: RerollIntent{}},
		{name: "wallet", create: commandCreate(CommandWallet), expected: WalletIntent{}},
		{name: "daily", create: commandCreate(CommandDaily), expected: DailyIntent{}},
		{name: "clear ledger", create: commandCreate(CommandClearLedger), expected: ClearLedgerIntent{}},
		{name: "clear history", create: commandCreate(CommandClearHistory), expected: ClearHistoryIntent{}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Execute
			intent, err := ParseIntent(tc.create)

			// Assert
			s.Require().NoError(err)
			s.Equal(tc.expected, intent)
		})
	}
}

func (s *IntentsTestSuite) TestParseDrawMissingText() {
	_, err := ParseIntent(commandCreate(CommandDraw, str(optionTemplate, "energy-daily"), str(optionText, "   ")))

	s.True(types.IsCode(err, types.ErrInvalidArgument))
}

func (s *IntentsTestSuite) TestParseButtons() {
	testCases := map[string]Intent{
		ButtonReroll:   RerollIntent{},
		ButtonRerollAd: RerollIntent{Free: true},
		ButtonShare:    ShareIntent{},
	}

	for customID, expected := range testCases {
		intent, err := ParseIntent(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: customID},
		}})

		s.Require().NoError(err)
		s.Equal(expected, intent, customID)
	}
}

func (s *IntentsTestSuite) TestParseUnknown() {
	_, err := ParseIntent(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "card_burn"},
	}})
	s.True(types.IsCode(err, types.ErrInvalidCommand))

	_, err = ParseIntent(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionPing,
	}})
	s.True(types.IsCode(err, types.ErrInvalidCommand))
}

func (s *IntentsTestSuite) TestUserID() {
	s.Equal("guild-user", userID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "guild-user"}},
	}}))
	s.Equal("dm-user", userID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "dm-user"},
	}}))
	s.Empty(userID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}))
}
