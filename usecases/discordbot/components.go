package discordbot

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"egbackend/payload"
)

// processComponentInteraction executes the actions encoded in a component's
// custom id. The message's integrity fingerprint is verified before anything
// runs: a forged or re-crafted message must never be able to invoke
// privileged actions like saved-template disclosure or role grants.
func (u *DiscordBotUseCase) processComponentInteraction(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
) error {
	if interaction.Message == nil {
		return nil
	}

	trusted, err := u.sentMessagesService.VerifyMessageIntegrity(ctx, interaction.Message)
	if err != nil {
		return fmt.Errorf("failed to verify message integrity: %w", err)
	}
	if !trusted {
		log.Printf("⚠️ Rejected component interaction on message %s: integrity check failed", interaction.Message.ID)
		return u.simpleResponse(ctx, interaction,
			"The integrity of this message could not be verified, so its actions have been disabled.")
	}

	data := interaction.MessageComponentData()

	// buttons carry their actions in the custom id, select menus in the
	// selected option value
	actionSource := data.CustomID
	if data.ComponentType == discordgo.SelectMenuComponent {
		if len(data.Values) == 0 {
			return nil
		}
		actionSource = data.Values[0]
	}

	actions := payload.ParseActions(actionSource)
	if len(actions) == 0 {
		return nil
	}

	for _, action := range actions {
		switch action.Kind {
		case payload.ActionRespondSavedMessage:
			if err := u.respondWithSavedMessage(ctx, interaction, action.Arg); err != nil {
				return err
			}
		case payload.ActionToggleRole:
			if err := u.toggleRole(ctx, interaction, action.Arg); err != nil {
				return err
			}
		default:
			log.Printf("🔍 Skipping unknown action kind in custom id %s", data.CustomID)
		}
	}

	return nil
}

// respondWithSavedMessage renders a saved message as an ephemeral response,
// with interaction context variables substituted into its free text.
func (u *DiscordBotUseCase) respondWithSavedMessage(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
	savedMessageID string,
) error {
	maybeMessage, err := u.savedMessagesService.GetSavedMessageByID(ctx, savedMessageID)
	if err != nil {
		return fmt.Errorf("failed to get saved message %s: %w", savedMessageID, err)
	}
	if !maybeMessage.IsPresent() {
		return u.simpleResponse(ctx, interaction, "The saved message for this action no longer exists.")
	}

	parsed, err := payload.ParseMessagePayload(maybeMessage.MustGet().Data)
	if err != nil {
		return fmt.Errorf("failed to parse saved message %s: %w", savedMessageID, err)
	}
	parsed.ApplyVariables(u.contextVariables(interaction))

	return u.discordClient.RespondToInteraction(ctx, interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: parsed.Content,
			Embeds:  parsed.Embeds,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// toggleRole adds or removes the role on the interacting member. The role
// must exist in the cache, must not be integration-managed, and must sit
// below the bot's highest role so the grant cannot escalate past the bot.
func (u *DiscordBotUseCase) toggleRole(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
	roleID string,
) error {
	if interaction.Member == nil || interaction.Member.User == nil {
		return nil
	}

	maybeRole := u.store.Role(roleID)
	if !maybeRole.IsPresent() {
		return u.simpleResponse(ctx, interaction, "The role for this action no longer exists.")
	}
	role := maybeRole.MustGet()

	if role.Managed {
		return u.simpleResponse(ctx, interaction, "This role is managed by an integration and can not be toggled.")
	}
	if role.Position >= u.botHighestRolePosition(interaction.GuildID) {
		return u.simpleResponse(ctx, interaction, "The bot can only toggle roles below its own highest role.")
	}

	userID := interaction.Member.User.ID
	hasRole := false
	for _, memberRoleID := range interaction.Member.Roles {
		if memberRoleID == roleID {
			hasRole = true
			break
		}
	}

	if hasRole {
		if err := u.discordClient.RemoveMemberRole(ctx, interaction.GuildID, userID, roleID); err != nil {
			log.Printf("❌ Failed to remove role %s from user %s: %v", roleID, userID, err)
			return u.simpleResponse(ctx, interaction, "Failed to toggle the role. The bot might be missing permissions.")
		}
		return u.simpleResponse(ctx, interaction, fmt.Sprintf("Removed role <@&%s>", roleID))
	}

	if err := u.discordClient.AddMemberRole(ctx, interaction.GuildID, userID, roleID); err != nil {
		log.Printf("❌ Failed to add role %s to user %s: %v", roleID, userID, err)
		return u.simpleResponse(ctx, interaction, "Failed to toggle the role. The bot might be missing permissions.")
	}
	return u.simpleResponse(ctx, interaction, fmt.Sprintf("Added role <@&%s>", roleID))
}
