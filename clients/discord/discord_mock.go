package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) GetBotUser() (*discordgo.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.User), args.Error(1)
}

func (m *MockDiscordClient) ListChannelWebhooks(
	ctx context.Context,
	channelID string,
) ([]*discordgo.Webhook, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*discordgo.Webhook), args.Error(1)
}

func (m *MockDiscordClient) CreateWebhook(
	ctx context.Context,
	channelID, name string,
) (*discordgo.Webhook, error) {
	args := m.Called(ctx, channelID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Webhook), args.Error(1)
}

func (m *MockDiscordClient) SendWebhookMessage(
	ctx context.Context,
	webhookID, webhookToken string,
	params *discordgo.WebhookParams,
) (*discordgo.Message, error) {
	args := m.Called(ctx, webhookID, webhookToken, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockDiscordClient) EditWebhookMessage(
	ctx context.Context,
	webhookID, webhookToken, messageID string,
	edit *discordgo.WebhookEdit,
) (*discordgo.Message, error) {
	args := m.Called(ctx, webhookID, webhookToken, messageID, edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockDiscordClient) GetChannelMessage(
	ctx context.Context,
	channelID, messageID string,
) (*discordgo.Message, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockDiscordClient) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockDiscordClient) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockDiscordClient) RespondToInteraction(
	ctx context.Context,
	interaction *discordgo.Interaction,
	response *discordgo.InteractionResponse,
) error {
	args := m.Called(ctx, interaction, response)
	return args.Error(0)
}
