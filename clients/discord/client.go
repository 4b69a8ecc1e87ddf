package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"egbackend/clients"
)

// DiscordClient implements clients.DiscordClient on top of a shared discordgo
// session. The session handles auth, rate limiting and retries; this layer
// only adds context plumbing and error classification.
type DiscordClient struct {
	session *discordgo.Session
}

func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

func (c *DiscordClient) GetBotUser() (*discordgo.User, error) {
	user, err := c.session.User("@me")
	if err != nil {
		return nil, clients.ClassifyError("get bot user", err)
	}
	return user, nil
}

func (c *DiscordClient) ListChannelWebhooks(
	ctx context.Context,
	channelID string,
) ([]*discordgo.Webhook, error) {
	webhooks, err := c.session.ChannelWebhooks(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, clients.ClassifyError(fmt.Sprintf("list webhooks for channel %s", channelID), err)
	}
	return webhooks, nil
}

func (c *DiscordClient) CreateWebhook(
	ctx context.Context,
	channelID, name string,
) (*discordgo.Webhook, error) {
	webhook, err := c.session.WebhookCreate(channelID, name, "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, clients.ClassifyError(fmt.Sprintf("create webhook in channel %s", channelID), err)
	}
	return webhook, nil
}

func (c *DiscordClient) SendWebhookMessage(
	ctx context.Context,
	webhookID, webhookToken string,
	params *discordgo.WebhookParams,
) (*discordgo.Message, error) {
	msg, err := c.session.WebhookExecute(webhookID, webhookToken, true, params, discordgo.WithContext(ctx))
	if err != nil {
		return nil, clients.ClassifyError("execute webhook", err)
	}
	return msg, nil
}

func (c *DiscordClient) EditWebhookMessage(
	ctx context.Context,
	webhookID, webhookToken, messageID string,
	edit *discordgo.WebhookEdit,
) (*discordgo.Message, error) {
	msg, err := c.session.WebhookMessageEdit(webhookID, webhookToken, messageID, edit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, clients.ClassifyError(fmt.Sprintf("edit webhook message %s", messageID), err)
	}
	return msg, nil
}

func (c *DiscordClient) GetChannelMessage(
	ctx context.Context,
	channelID, messageID string,
) (*discordgo.Message, error) {
	msg, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, clients.ClassifyError(fmt.Sprintf("fetch message %s in channel %s", messageID, channelID), err)
	}
	return msg, nil
}

func (c *DiscordClient) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
	if err != nil {
		return clients.ClassifyError(fmt.Sprintf("add role %s to member %s", roleID, userID), err)
	}
	return nil
}

func (c *DiscordClient) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
	if err != nil {
		return clients.ClassifyError(fmt.Sprintf("remove role %s from member %s", roleID, userID), err)
	}
	return nil
}

func (c *DiscordClient) RespondToInteraction(
	ctx context.Context,
	interaction *discordgo.Interaction,
	response *discordgo.InteractionResponse,
) error {
	err := c.session.InteractionRespond(interaction, response, discordgo.WithContext(ctx))
	if err != nil {
		return clients.ClassifyError("respond to interaction", err)
	}
	return nil
}
