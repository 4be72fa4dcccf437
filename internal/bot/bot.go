package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/affectlab/internal/config"
	"github.com/fadedpez/affectlab/internal/discord"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/metrics"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
	"github.com/fadedpez/affectlab/pkg/services/generation"
	"github.com/fadedpez/affectlab/pkg/services/share"
	"github.com/fadedpez/affectlab/pkg/services/statistics"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
)

// Interaction IDs are remembered this long to drop gateway redeliveries
const interactionTTL = 10 * time.Minute

// Services are the domain services the bot drives
type Services struct {
	Templates  template.Repository
	Wallet     wallet.WalletService
	Generation *generation.Service
	Share      *share.Service
	Statistics *statistics.Service
}

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config   *config.Config
	session  discord.SessionHandler
	services Services
	logger   *logging.Logger
	metrics  *metrics.Metrics
	commands []*discordgo.ApplicationCommand
	now      func() time.Time

	// Interaction tracking to prevent duplicates
	interactionMu sync.Mutex
	processed     map[string]time.Time

	removeHandler func()
	shutdownWg    sync.WaitGroup
}

// New creates a new instance of Bot
func New(cfg *config.Config, session discord.SessionHandler, services Services, logger *logging.Logger, m *metrics.Metrics) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if session == nil {
		return nil, fmt.Errorf("discord session is required")
	}
	if services.Templates == nil || services.Wallet == nil || services.Generation == nil ||
		services.Share == nil || services.Statistics == nil {
		return nil, fmt.Errorf("all bot services are required")
	}
	if logger == nil {
		logger = logging.Default
	}

	return &Bot{
		config:    cfg,
		session:   session,
		services:  services,
		logger:    logger,
		metrics:   m,
		commands:  make([]*discordgo.ApplicationCommand, 0, len(Commands)),
		now:       time.Now,
		processed: make(map[string]time.Time),
	}, nil
}

// Start connects to Discord and registers the slash commands
func (b *Bot) Start() error {
	b.removeHandler = b.session.AddHandler(b.handleInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("[BOT] Started with %d commands", len(b.commands))
	return nil
}

// Shutdown gracefully shuts down the bot
func (b *Bot) Shutdown() {
	if b.removeHandler != nil {
		b.removeHandler()
	}

	// Cleanup commands if in development
	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			b.logger.Warn("[BOT] Failed to clean up commands: %v", err)
		}
	}

	if err := b.session.Close(); err != nil {
		b.logger.Error("[BOT] Error closing Discord session: %v", err)
	}

	// Wait for any ongoing interactions to complete
	b.shutdownWg.Wait()
}

// registerCommands creates every slash command, scoped to GuildID when set.
// In development stale commands are removed first.
func (b *Bot) registerCommands() error {
	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			return err
		}
	}

	for _, cmd := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
	}
	return nil
}

// cleanupCommands removes every registered command for the app
func (b *Bot) cleanupCommands() error {
	existing, err := b.session.ApplicationCommands(b.config.AppID, b.config.GuildID)
	if err != nil {
		return fmt.Errorf("cannot list commands: %w", err)
	}
	for _, cmd := range existing {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			return fmt.Errorf("cannot delete command %s: %w", cmd.Name, err)
		}
	}
	b.commands = b.commands[:0]
	return nil
}

// handleInteractionCreate is the discordgo event handler
func (b *Bot) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(context.Background(), i)
}

// handleInteraction parses, dispatches and answers one interaction
func (b *Bot) handleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	if !b.markProcessed(i.ID) {
		b.logger.Debug("[BOT] Skipping already processed interaction: %s", i.ID)
		return
	}

	b.shutdownWg.Add(1)
	defer b.shutdownWg.Done()

	user := userID(i)
	intent, err := ParseIntent(i)
	if err == nil && user == "" {
		err = types.NewError(types.ErrInvalidCommand, "Could not tell who you are")
	}

	name := "unknown"
	var resp *discord.Response
	if err == nil {
		name = intent.Name()
		resp, err = b.dispatch(ctx, user, intent)
	}

	if err != nil {
		b.metrics.ObserveCommand(name, outcome(err))
		if !isUserError(err) {
			b.logger.LogError(err)
		}
		if sendErr := discord.SendErrorResponse(b.session, i, err); sendErr != nil {
			b.logger.Error("[BOT] Failed to send error response for %s: %v", name, sendErr)
		}
		return
	}

	b.metrics.ObserveCommand(name, "ok")
	if err := discord.SendResponse(b.session, i, resp); err != nil {
		b.logger.Error("[BOT] Failed to respond to %s: %v", name, err)
	}
}

// markProcessed records an interaction ID, returning false if it was already seen
func (b *Bot) markProcessed(id string) bool {
	b.interactionMu.Lock()
	defer b.interactionMu.Unlock()

	if _, seen := b.processed[id]; seen {
		return false
	}
	now := b.now()
	b.processed[id] = now

	if len(b.processed) > 100 {
		for seenID, at := range b.processed {
			if now.Sub(at) > interactionTTL {
				delete(b.processed, seenID)
			}
		}
	}
	return true
}

// outcome is the metrics label for a failed command
func outcome(err error) string {
	var appErr *types.AppError
	if types.As(err, &appErr) {
		return strings.ToLower(string(appErr.Code))
	}
	return "error"
}

// isUserError reports errors caused by the request rather than the system
func isUserError(err error) bool {
	var appErr *types.AppError
	if !types.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case types.ErrStorage, types.ErrInternalError, types.ErrMalformedState:
		return false
	default:
		return true
	}
}
