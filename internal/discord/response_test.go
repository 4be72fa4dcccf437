package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordmock "github.com/fadedpez/affectlab/internal/discord/mock"
	"github.com/fadedpez/affectlab/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	session     *discordmock.SessionHandler
	interaction *discordgo.InteractionCreate
}

func TestResponseSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:   "test_interaction",
			Type: discordgo.InteractionApplicationCommand,
		},
	}
}

func (s *ResponseTestSuite) TestNewResponse() {
	// Setup
	components := []discordgo.MessageComponent{
		discordgo.Button{Label: "Reroll", Style: discordgo.PrimaryButton},
	}

	// Execute
	resp := NewResponse("test content", components)
	ephemeral := NewEphemeralResponse("secret", nil)

	// Assert
	s.Equal("test content", resp.Content)
	s.Equal(components, resp.Components)
	s.False(resp.Ephemeral)
	s.True(ephemeral.Ephemeral)
}

func (s *ResponseTestSuite) TestNewEmbedResponse() {
	embed := &discordgo.MessageEmbed{Title: "SSR"}

	resp := NewEmbedResponse(embed, nil, true)

	s.Empty(resp.Content)
	s.Equal([]*discordgo.MessageEmbed{embed}, resp.Embeds)
	s.True(resp.Ephemeral)
}

func (s *ResponseTestSuite) TestNewErrorResponse() {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "plain error is hidden",
			err:      errors.New("disk on fire"),
			expected: "❌ Something went wrong, please try again later",
		},
		{
			name:     "insufficient funds",
			err:      types.NewError(types.ErrInsufficientFunds, "Not enough candy"),
			expected: "🍬 Not enough candy",
		},
		{
			name:     "wrapped app error keeps its message",
			err:      types.WrapError(types.ErrStorage, "Could not save wallet", errors.New("disk on fire")),
			expected: "💾 Could not save wallet",
		},
		{
			name:     "unknown code falls back",
			err:      types.NewError(types.ErrorCode("MYSTERY"), "hmm"),
			expected: "❌ hmm",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Execute
			resp := NewErrorResponse(tc.err)

			// Assert
			s.Equal(tc.expected, resp.Content)
			s.True(resp.Ephemeral)
		})
	}
}

func (s *ResponseTestSuite) TestSendResponse() {
	// Setup
	embed := &discordgo.MessageEmbed{Title: "card"}
	resp := NewEmbedResponse(embed, nil, true)

	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseChannelMessageWithSource &&
			r.Data.Flags == discordgo.MessageFlagsEphemeral &&
			len(r.Data.Embeds) == 1 && r.Data.Embeds[0] == embed
	})).Return(nil)

	// Execute
	err := SendResponse(s.session, s.interaction, resp)

	// Assert
	s.NoError(err)
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestUpdateResponse() {
	// Setup
	resp := NewResponse("updated content", nil)

	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseUpdateMessage &&
			r.Data.Content == "updated content" && r.Data.Flags == 0
	})).Return(nil)

	// Execute
	err := UpdateResponse(s.session, s.interaction, resp)

	// Assert
	s.NoError(err)
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestSendErrorResponse() {
	// Setup
	s.session.On("InteractionRespond", s.interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Data.Content == "⏳ Already claimed today" && r.Data.Flags == discordgo.MessageFlagsEphemeral
	})).Return(errors.New("gateway closed"))

	// Execute
	err := SendErrorResponse(s.session, s.interaction, types.NewError(types.ErrAlreadyClaimed, "Already claimed today"))

	// Assert
	s.EqualError(err, "gateway closed")
	s.session.AssertExpectations(s.T())
}
