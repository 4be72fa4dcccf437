// Package discord wraps the discordgo session and builds interaction replies
package discord

import (
	"github.com/bwmarrin/discordgo"
)

// SessionHandler is the part of a Discord session the bot uses.
// Card draws only ever answer interactions; the bot never posts to channels.
type SessionHandler interface {
	InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse) error

	// Slash command registration, scoped to GUILD_ID when set
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID string, guildID string, cmdID string) error
	ApplicationCommands(appID string, guildID string) ([]*discordgo.ApplicationCommand, error)

	Open() error
	Close() error
	AddHandler(handler interface{}) func()
}

// DiscordSession adapts *discordgo.Session to SessionHandler
type DiscordSession struct {
	*discordgo.Session
}

var _ SessionHandler = (*DiscordSession)(nil)

// NewSession creates a bot session that only subscribes to guild events
func NewSession(token string) (*DiscordSession, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return &DiscordSession{Session: s}, nil
}

func (s *DiscordSession) InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse) error {
	return s.Session.InteractionRespond(i, r)
}

func (s *DiscordSession) ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	return s.Session.ApplicationCommandCreate(appID, guildID, cmd, options...)
}

func (s *DiscordSession) ApplicationCommandDelete(appID string, guildID string, cmdID string) error {
	return s.Session.ApplicationCommandDelete(appID, guildID, cmdID)
}

func (s *DiscordSession) ApplicationCommands(appID string, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return s.Session.ApplicationCommands(appID, guildID)
}

// Open connects the gateway websocket
func (s *DiscordSession) Open() error {
	return s.Session.Open()
}

func (s *DiscordSession) Close() error {
	return s.Session.Close()
}

func (s *DiscordSession) AddHandler(handler interface{}) func() {
	return s.Session.AddHandler(handler)
}
