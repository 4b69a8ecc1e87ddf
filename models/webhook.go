package models

// CachedWebhook is a webhook discovered through the REST API. Webhooks are
// never pushed over the gateway; the webhooks service fetches them lazily and
// keeps them until a WebhooksUpdate event invalidates the channel.
type CachedWebhook struct {
	ID        string
	ChannelID string
	GuildID   string
	// ApplicationID identifies the application that created the webhook.
	// Empty for user-created webhooks.
	ApplicationID string
	// Token is only present for webhooks the bot created or was granted.
	Token string
	Name  string
}
