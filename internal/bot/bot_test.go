package bot

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/affectlab/internal/config"
	discordmock "github.com/fadedpez/affectlab/internal/discord/mock"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/repositories/history"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
	walletRepo "github.com/fadedpez/affectlab/pkg/repositories/wallet"
	"github.com/fadedpez/affectlab/pkg/services/generation"
	"github.com/fadedpez/affectlab/pkg/services/share"
	"github.com/fadedpez/affectlab/pkg/services/statistics"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BotTestSuite struct {
	suite.Suite
	session  *discordmock.SessionHandler
	config   *config.Config
	services Services
	bot      *Bot
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}

func (s *BotTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.config = &config.Config{
		AppID:       "test-app-id",
		GuildID:     "test-guild-id",
		Environment: "development",
	}

	logger := logging.NewNop()
	templates := template.NewCachedRepository(template.NewBuiltinLoader(""), time.Hour, logger)
	histories := history.NewMemoryRepository(0)
	wallets := wallet.NewService(walletRepo.NewMemoryRepository(), wallet.DefaultConfig(), logger, nil)
	gen, err := generation.NewService(generation.Config{
		Templates: templates,
		Wallet:    wallets,
		History:   histories,
		Logger:    logger,
	})
	s.Require().NoError(err)

	s.services = Services{
		Templates:  templates,
		Wallet:     wallets,
		Generation: gen,
		Share:      share.NewService(templates),
		Statistics: statistics.NewService(histories, nil),
	}
	s.bot, err = New(s.config, s.session, s.services, logger, nil)
	s.Require().NoError(err)

	s.session.On("AddHandler", mock.AnythingOfType("func(*discordgo.Session, *discordgo.InteractionCreate)")).
		Return(func() {}).Maybe()
}

func (s *BotTestSuite) TestNewValidatesDependencies() {
	_, err := New(s.config, nil, s.services, nil, nil)
	s.Error(err)

	partial := s.services
	partial.Share = nil
	_, err = New(s.config, s.session, partial, nil, nil)
	s.Error(err)
}

func (s *BotTestSuite) TestRegisterCommands() {
	// Setup
	s.session.On("Open").Return(nil)

	// Stale commands are removed first in development
	existingCmd := &discordgo.ApplicationCommand{ID: "existing-cmd-id", Name: "horoscope"}
	s.session.On("ApplicationCommands", s.config.AppID, s.config.GuildID).
		Return([]*discordgo.ApplicationCommand{existingCmd}, nil)
	s.session.On("ApplicationCommandDelete", s.config.AppID, s.config.GuildID, existingCmd.ID).
		Return(nil)

	s.session.On("ApplicationCommandCreate", s.config.AppID, s.config.GuildID, mock.Anything).
		Return(&discordgo.ApplicationCommand{ID: "new-cmd-id"}, nil)

	// Execute
	err := s.bot.Start()

	// Assert
	s.Require().NoError(err)
	s.session.AssertExpectations(s.T())
	s.session.AssertNumberOfCalls(s.T(), "ApplicationCommandCreate", len(Commands))
	s.Len(s.bot.commands, len(Commands))
}

func (s *BotTestSuite) TestProductionSkipsCleanup() {
	s.config.Environment = "production"
	s.session.On("Open").Return(nil)
	s.session.On("ApplicationCommandCreate", s.config.AppID, s.config.GuildID, mock.Anything).
		Return(&discordgo.ApplicationCommand{}, nil)

	err := s.bot.Start()

	s.Require().NoError(err)
	s.session.AssertNotCalled(s.T(), "ApplicationCommands", mock.Anything, mock.Anything)
}

func (s *BotTestSuite) TestRegisterCommandsError() {
	// Setup
	s.session.On("Open").Return(nil)
	s.session.On("ApplicationCommands", s.config.AppID, s.config.GuildID).
		Return([]*discordgo.ApplicationCommand{}, nil)
	s.session.On("ApplicationCommandCreate", s.config.AppID, s.config.GuildID, mock.Anything).
		Return(&discordgo.ApplicationCommand{}, assert.AnError).Once()

	// Execute
	err := s.bot.Start()

	// Assert
	s.Require().Error(err)
	s.ErrorIs(err, assert.AnError)
	s.Empty(s.bot.commands)
}

func (s *BotTestSuite) TestOpenError() {
	s.session.On("Open").Return(assert.AnError)

	err := s.bot.Start()

	s.ErrorIs(err, assert.AnError)
	s.session.AssertNotCalled(s.T(), "ApplicationCommandCreate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BotTestSuite) TestCleanupCommandsError() {
	// Setup
	s.session.On("ApplicationCommands", s.config.AppID, s.config.GuildID).
		Return([]*discordgo.ApplicationCommand{}, assert.AnError)

	// Execute
	err := s.bot.cleanupCommands()

	// Assert
	s.Require().Error(err)
	s.session.AssertExpectations(s.T())
}

func (s *BotTestSuite) TestShutdown() {
	// Setup
	s.session.On("ApplicationCommands", s.config.AppID, s.config.GuildID).
		Return([]*discordgo.ApplicationCommand{{ID: "cmd1", Name: CommandDraw}}, nil)
	s.session.On("ApplicationCommandDelete", s.config.AppID, s.config.GuildID, "cmd1").Return(nil)
	s.session.On("Close").Return(nil)

	// Execute
	s.bot.Shutdown()

	// Assert
	s.session.AssertExpectations(s.T())
}

func (s *BotTestSuite) TestMarkProcessedPrunesOldInteractions() {
	// Setup
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.bot.now = func() time.Time { return start }
	for i := 0; i < 101; i++ {
		s.True(s.bot.markProcessed(string(rune('A' + i))))
	}
	s.False(s.bot.markProcessed("A"), "Seen IDs are rejected")

	// Execute
	s.bot.now = func() time.Time { return start.Add(interactionTTL + time.Minute) }
	s.True(s.bot.markProcessed("fresh"))

	// Assert
	s.Len(s.bot.processed, 1, "Expired IDs are dropped once the map grows")
	s.True(s.bot.markProcessed("A"))
}
