package services

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"egbackend/models"
)

// PermissionsService resolves effective permission bits from the state cache
type PermissionsService interface {
	ResolveChannelPermissions(userID string, roleIDs []string, guildID, channelID string) (int64, error)
	ResolveBotPermissions(guildID, channelID string) (int64, error)
}

// WebhooksService is the lazily-populated, channel-keyed webhook cache
type WebhooksService interface {
	GetChannelWebhooks(ctx context.Context, channelID string) ([]models.CachedWebhook, error)
	GetWebhookForChannel(ctx context.Context, channelID string) (models.CachedWebhook, error)
	Invalidate(channelID string)
}

// SavedMessagesService manages user-owned message templates
type SavedMessagesService interface {
	CreateSavedMessage(
		ctx context.Context,
		ownerID, name string,
		description *string,
		data []byte,
	) (*models.SavedMessage, error)
	UpdateSavedMessage(
		ctx context.Context,
		ownerID, id, name string,
		description *string,
		data []byte,
	) (*models.SavedMessage, error)
	GetSavedMessage(ctx context.Context, ownerID, id string) (mo.Option[*models.SavedMessage], error)
	GetSavedMessageByID(ctx context.Context, id string) (mo.Option[*models.SavedMessage], error)
	ListSavedMessages(ctx context.Context, ownerID string) ([]*models.SavedMessage, error)
	DeleteSavedMessage(ctx context.Context, ownerID, id string) (bool, error)
}

// SentMessagesService records and verifies message integrity hashes
type SentMessagesService interface {
	RecordSentMessage(
		ctx context.Context,
		channelID, messageID string,
		components []discordgo.MessageComponent,
	) error
	VerifyMessageIntegrity(ctx context.Context, msg *discordgo.Message) (bool, error)
	DeleteSentMessage(ctx context.Context, channelID, messageID string) error
}
