package clients

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// DiscordClient is the outbound REST surface the services depend on. All
// methods return either a typed result or an error classified through
// ClassifyError, so callers can branch on core.ErrNotFound and friends
// without importing discordgo error types.
type DiscordClient interface {
	// GetBotUser returns the bot's own user record
	GetBotUser() (*discordgo.User, error)

	// ListChannelWebhooks fetches all webhooks of a channel
	ListChannelWebhooks(ctx context.Context, channelID string) ([]*discordgo.Webhook, error)
	// CreateWebhook creates a new webhook owned by this application
	CreateWebhook(ctx context.Context, channelID, name string) (*discordgo.Webhook, error)
	// SendWebhookMessage executes a webhook and waits for the created message
	SendWebhookMessage(
		ctx context.Context,
		webhookID, webhookToken string,
		params *discordgo.WebhookParams,
	) (*discordgo.Message, error)
	// EditWebhookMessage updates a message previously sent through the webhook
	EditWebhookMessage(
		ctx context.Context,
		webhookID, webhookToken, messageID string,
		edit *discordgo.WebhookEdit,
	) (*discordgo.Message, error)

	// GetChannelMessage fetches a single message
	GetChannelMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)

	// AddMemberRole assigns a role to a guild member
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
	// RemoveMemberRole removes a role from a guild member
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error

	// RespondToInteraction sends the initial response to an interaction
	RespondToInteraction(
		ctx context.Context,
		interaction *discordgo.Interaction,
		response *discordgo.InteractionResponse,
	) error
}
