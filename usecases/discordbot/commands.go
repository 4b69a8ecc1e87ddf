package discordbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"egbackend/payload"
	"egbackend/services/webhooks"
	"egbackend/utils"
)

func (u *DiscordBotUseCase) handleInviteCommand(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
) error {
	return u.discordClient.RespondToInteraction(ctx, interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("You can invite Embed Generator [here](%s).", u.inviteURL),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label: "Website",
							Style: discordgo.LinkButton,
							URL:   u.websiteURL,
						},
						discordgo.Button{
							Label: "Invite Bot",
							Style: discordgo.LinkButton,
							URL:   u.inviteURL,
						},
					},
				},
			},
		},
	})
}

func (u *DiscordBotUseCase) handleWebsiteCommand(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
) error {
	return u.discordClient.RespondToInteraction(ctx, interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("You can create and edit messages on the website: %s", u.websiteURL),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label: "Open Website",
							Style: discordgo.LinkButton,
							URL:   u.websiteURL,
						},
					},
				},
			},
		},
	})
}

// handleWebhookCommand hands out the channel's webhook URL. Both the invoking
// member and the bot itself must hold Manage Webhooks in the channel.
func (u *DiscordBotUseCase) handleWebhookCommand(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
) error {
	if interaction.Member == nil {
		return u.simpleResponse(ctx, interaction, "This command can only be used inside a server.")
	}

	if interaction.Member.Permissions&discordgo.PermissionManageWebhooks == 0 {
		log.Printf("🔍 User %s lacks Manage Webhooks in channel %s", interactionUserID(interaction), interaction.ChannelID)
		return u.simpleResponse(ctx, interaction,
			"You need **Manage Webhooks** permissions to use this command.")
	}

	botPerms, err := u.permissionsService.ResolveBotPermissions(interaction.GuildID, interaction.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to resolve bot permissions: %w", err)
	}
	if botPerms&discordgo.PermissionManageWebhooks == 0 {
		return u.simpleResponse(ctx, interaction,
			"The bot needs **Manage Webhooks** permissions to create webhooks.")
	}

	webhook, err := u.webhooksService.GetWebhookForChannel(ctx, interaction.ChannelID)
	if err != nil {
		if errors.Is(err, webhooks.ErrWebhookLimitReached) {
			return u.simpleResponse(ctx, interaction,
				"The bot can't create a new webhook because there are already 10 webhooks in this channel.")
		}
		return fmt.Errorf("failed to get webhook for channel %s: %w", interaction.ChannelID, err)
	}

	return u.simpleResponse(ctx, interaction,
		fmt.Sprintf("https://discord.com/api/webhooks/%s/%s", webhook.ID, webhook.Token))
}

// handleRestoreMessageCommand rebuilds an editable payload document from an
// existing message and returns it to the invoking user.
func (u *DiscordBotUseCase) handleRestoreMessageCommand(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
) error {
	data := interaction.ApplicationCommandData()
	if data.Resolved == nil {
		return u.simpleResponse(ctx, interaction, "No message selected.")
	}
	msg, ok := data.Resolved.Messages[data.TargetID]
	if !ok {
		return u.simpleResponse(ctx, interaction, "No message selected.")
	}

	restored := payload.FromMessage(msg)
	serialized, err := json.MarshalIndent(restored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize restored payload: %w", err)
	}

	// leave room for the code fence inside Discord's 2000 character cap
	body := utils.Truncate(string(serialized), 1980)
	return u.simpleResponse(ctx, interaction, fmt.Sprintf("```json\n%s\n```", body))
}
