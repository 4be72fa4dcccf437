package bot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/affectlab/internal/config"
	discordmock "github.com/fadedpez/affectlab/internal/discord/mock"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/metrics"
	"github.com/fadedpez/affectlab/pkg/repositories/cards"
	"github.com/fadedpez/affectlab/pkg/repositories/history"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
	walletRepo "github.com/fadedpez/affectlab/pkg/repositories/wallet"
	"github.com/fadedpez/affectlab/pkg/roller"
	"github.com/fadedpez/affectlab/pkg/services/generation"
	"github.com/fadedpez/affectlab/pkg/services/share"
	"github.com/fadedpez/affectlab/pkg/services/statistics"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// seqSource replays fixed draws, then keeps returning the last one
type seqSource struct {
	draws []float64
	i     int
}

func (s *seqSource) Float64() float64 {
	if len(s.draws) == 0 {
		return 0
	}
	v := s.draws[min(s.i, len(s.draws)-1)]
	s.i++
	return v
}

func (s *seqSource) set(draws ...float64) {
	s.draws = draws
	s.i = 0
}

type HandlersTestSuite struct {
	suite.Suite
	ctx     context.Context
	session *discordmock.SessionHandler
	source  *seqSource
	metrics *metrics.Metrics
	bot     *Bot
	nextID  int
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.source = &seqSource{}
	s.metrics = metrics.New()
	logger := logging.NewNop()

	templates := template.NewCachedRepository(template.NewBuiltinLoader(""), time.Hour, logger)
	histories := history.NewMemoryRepository(0)
	analytics := cards.NewMemoryRepository()
	wallets := wallet.NewService(walletRepo.NewMemoryRepository(), wallet.Config{
		DefaultBalance: 2,
		DailyReward:    10,
		AdReward:       10,
		Location:       time.UTC,
	}, logger, s.metrics)

	gen, err := generation.NewService(generation.Config{
		Templates: templates,
		Wallet:    wallets,
		History:   histories,
		Analytics: analytics,
		Roller:    roller.New(s.source),
		Logger:    logger,
		Metrics:   s.metrics,
	})
	s.Require().NoError(err)

	s.bot, err = New(&config.Config{AppID: "app", Environment: "production", Location: time.UTC}, s.session, Services{
		Templates:  templates,
		Wallet:     wallets,
		Generation: gen,
		Share:      share.NewService(templates),
		Statistics: statistics.NewService(histories, analytics),
	}, logger, s.metrics)
	s.Require().NoError(err)
}

func (s *HandlersTestSuite) command(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	s.nextID++
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:     fmt.Sprintf("interaction-%d", s.nextID),
		Type:   discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{User: &discordgo.User{ID: "user-1"}},
		Data:   discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}}
}

func (s *HandlersTestSuite) button(customID string) *discordgo.InteractionCreate {
	s.nextID++
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:   fmt.Sprintf("interaction-%d", s.nextID),
		Type: discordgo.InteractionMessageComponent,
		User: &discordgo.User{ID: "user-1"},
		Data: discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent},
	}}
}

func str(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func num(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

// respond runs an interaction and returns the single response it produced
func (s *HandlersTestSuite) respond(i *discordgo.InteractionCreate) *discordgo.InteractionResponseData {
	var got *discordgo.InteractionResponse
	s.session.On("InteractionRespond", i.Interaction, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*discordgo.InteractionResponse) }).
		Return(nil).Once()

	s.bot.handleInteraction(s.ctx, i)

	s.Require().NotNil(got, "interaction should be answered")
	s.Equal(discordgo.InteractionResponseChannelMessageWithSource, got.Type)
	return got.Data
}

func (s *HandlersTestSuite) draw(templateID, text string, draws ...float64) *discordgo.InteractionResponseData {
	s.source.set(draws...)
	return s.respond(s.command(CommandDraw, str(optionTemplate, templateID), str(optionText, text)))
}

func ephemeral(data *discordgo.InteractionResponseData) bool {
	return data.Flags&discordgo.MessageFlagsEphemeral != 0
}

func (s *HandlersTestSuite) TestDrawCard() {
	// Execute
	data := s.draw("energy-daily", "小明", 0.9, 0.5)

	// Assert
	s.False(ephemeral(data), "Cards are posted publicly")
	s.Equal("🍬 1 left", data.Content)
	s.Require().Len(data.Embeds, 1)
	s.Equal("[SSR] 今日能量·指南", data.Embeds[0].Title)
	s.Equal(rarityColors["SSR"], data.Embeds[0].Color)
	s.True(strings.HasSuffix(data.Embeds[0].Image.URL, "/"+url.PathEscape("能量指南-SSR.png")), data.Embeds[0].Image.URL)
	s.Require().Len(data.Components, 1)
	s.Len(data.Components[0].(discordgo.ActionsRow).Components, 3)

	count, err := testutil.GatherAndCount(s.metrics.Registry(), "affectlab_bot_commands_total")
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *HandlersTestSuite) TestDrawInsufficientFunds() {
	s.draw("cyber-fortune", "小明", 0.1, 0.1)

	data := s.draw("cyber-fortune", "小明", 0.1, 0.1)

	s.True(ephemeral(data))
	s.True(strings.HasPrefix(data.Content, "🍬 "), data.Content)
	s.Empty(data.Embeds)
}

func (s *HandlersTestSuite) TestDrawUnknownTemplate() {
	data := s.draw("nope", "小明")

	s.True(ephemeral(data))
	s.True(strings.HasPrefix(data.Content, "🃏 "), data.Content)
}

func (s *HandlersTestSuite) TestRerollWithoutCard() {
	data := s.respond(s.command(CommandReroll))

	s.True(ephemeral(data))
	s.Equal("🔍 no cards drawn yet", data.Content)
}

func (s *HandlersTestSuite) TestPaidRerollButton() {
	// Setup
	s.draw("energy-daily", "小明", 0.1, 0.5)
	s.source.set(0.1, 0.5, 0.9, 0.5)

	// Execute
	data := s.respond(s.button(ButtonReroll))

	// Assert
	s.Equal("🍬 0 left", data.Content, "A paid reroll costs the template price")
	s.Equal("[SSR] 今日能量·指南", data.Embeds[0].Title, "N is lifted by the boosted table")
}

func (s *HandlersTestSuite) TestFreeRerollButton() {
	s.draw("energy-daily", "小明", 0.1, 0.5)
	s.source.set(0.3, 0.5, 0.1, 0.5)

	data := s.respond(s.button(ButtonRerollAd))

	s.Equal("🍬 1 left", data.Content, "An ad-funded reroll is free")
	s.Equal("[SR] 今日能量·指南", data.Embeds[0].Title)
}

func (s *HandlersTestSuite) TestWallet() {
	data := s.respond(s.command(CommandWallet))

	s.True(ephemeral(data))
	s.Require().Len(data.Embeds, 1)
	s.Equal("Balance: **2**", data.Embeds[0].Description)
	s.Equal("Ready to claim with /daily", data.Embeds[0].Fields[5].Value)
}

func (s *HandlersTestSuite) TestDailyOncePerDay() {
	first := s.respond(s.command(CommandDaily))
	second := s.respond(s.command(CommandDaily))

	s.Equal("🎁 Daily candy claimed! Balance: 12", first.Content)
	s.True(strings.HasPrefix(second.Content, "⏳ "), second.Content)
}

func (s *HandlersTestSuite) TestAdRewards() {
	home := s.respond(s.command(CommandAd, str(optionScene, "home")))
	s.Equal("📺 Thanks for watching! +10 candy, balance: 12", home.Content)

	s.draw("cyber-fortune", "小明", 0.5, 0.5)
	reroll := s.respond(s.command(CommandAd, str(optionScene, wallet.SceneReroll)))
	s.Equal("📺 Thanks for watching! +2 candy, balance: 12", reroll.Content, "A reroll ad refunds the last template's cost")
}

func (s *HandlersTestSuite) TestLedgerFilter() {
	// Setup
	s.respond(s.command(CommandDaily))
	s.draw("energy-daily", "小明", 0.5, 0.5)

	// Execute
	data := s.respond(s.command(CommandLedger, str(optionFilter, "debit"), num(optionLimit, 5)))

	// Assert
	s.True(ephemeral(data))
	embed := data.Embeds[0]
	s.Equal("Ledger · DEBIT", embed.Title)
	s.True(strings.HasPrefix(embed.Description, "`-1` 生成消耗 · 今日能量·指南"), embed.Description)
	s.NotContains(embed.Description, "每日补给")
	s.Equal("Balance 11", embed.Footer.Text)
}

func (s *HandlersTestSuite) TestHistoryAndStats() {
	// Setup
	s.draw("energy-daily", "小明", 0.9, 0.5)
	s.draw("energy-daily", "小红", 0.1, 0.5)

	// Execute
	hist := s.respond(s.command(CommandHistory, num(optionLimit, 1)))
	stats := s.respond(s.command(CommandStats, str(optionTemplate, "energy-daily")))

	// Assert
	s.Equal(1, strings.Count(hist.Embeds[0].Description, "\n"))
	s.Contains(hist.Embeds[0].Description, "**[N]** energy-daily · 小红")

	embed := stats.Embeds[0]
	s.Contains(embed.Description, "2 cards · best luck 98")
	last := embed.Fields[len(embed.Fields)-1]
	s.Equal("Everyone · energy-daily (2 cards)", last.Name)
	s.Contains(last.Value, "SSR 50.0%")
}

func (s *HandlersTestSuite) TestClearLedgerAndHistory() {
	s.draw("energy-daily", "小明", 0.5, 0.5)

	cleared := s.respond(s.command(CommandClearLedger))
	s.Equal("🧹 Ledger cleared. Balance stays at 1", cleared.Content)

	s.respond(s.command(CommandClearHistory))
	data := s.respond(s.command(CommandShare))
	s.Equal("🔍 no cards drawn yet", data.Content)
}

func (s *HandlersTestSuite) TestShareRoundTrip() {
	// Setup
	s.draw("energy-daily", "小明", 0.9, 0.5)

	// Execute
	link := s.respond(s.command(CommandShare))

	// Assert
	s.Contains(link.Content, "[SSR] 小明 的运势评分: 98")
	start := strings.Index(link.Content, "?")
	s.Require().Positive(start)
	query := strings.TrimSuffix(link.Content[start:], "`")

	opened := s.respond(s.command(CommandShare, str(optionLink, "https://affectlab.example/share"+query)))
	s.Require().Len(opened.Embeds, 1)
	s.Equal("[SSR] 今日能量·指南", opened.Embeds[0].Title)
	s.Equal(share.SharedID, opened.Embeds[0].Footer.Text)
}

func (s *HandlersTestSuite) TestTemplatesByCategory() {
	data := s.respond(s.command(CommandTemplates, str(optionCategory, "future")))

	s.False(ephemeral(data))
	s.NotEmpty(data.Embeds[0].Fields)
	for _, field := range data.Embeds[0].Fields {
		s.NotContains(field.Value, "custom-signal")
	}
}

func (s *HandlersTestSuite) TestUnknownCommand() {
	data := s.respond(s.command("horoscope"))

	s.True(ephemeral(data))
	s.Equal("⛔ Unknown command: horoscope", data.Content)
}

func (s *HandlersTestSuite) TestDuplicateInteractionAnsweredOnce() {
	i := s.command(CommandWallet)
	s.respond(i)

	s.bot.handleInteraction(s.ctx, i)

	s.session.AssertNumberOfCalls(s.T(), "InteractionRespond", 1)
}
