package discordbot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// contextVariables builds the variable map for rendering payloads in response
// to an interaction: the interacting user plus whatever the cache knows about
// the surrounding guild and channel.
func (u *DiscordBotUseCase) contextVariables(interaction *discordgo.InteractionCreate) map[string]string {
	variables := map[string]string{
		"guild.id":   interaction.GuildID,
		"channel.id": interaction.ChannelID,
	}

	if user := interactionUser(interaction); user != nil {
		variables["user.id"] = user.ID
		variables["user.name"] = user.Username
		variables["user.mention"] = fmt.Sprintf("<@%s>", user.ID)
		variables["user.avatar_url"] = user.AvatarURL("")
	}

	if guild, ok := u.store.Guild(interaction.GuildID).Get(); ok {
		variables["guild.name"] = guild.Name
	}
	if channel, ok := u.store.Channel(interaction.ChannelID).Get(); ok {
		variables["channel.name"] = channel.Name
	}

	return variables
}

// botHighestRolePosition returns the position of the bot's highest role in
// the guild, or 0 when the bot's membership or roles aren't cached.
func (u *DiscordBotUseCase) botHighestRolePosition(guildID string) int {
	maybeMember := u.store.BotMember(guildID)
	if !maybeMember.IsPresent() {
		return 0
	}

	highest := 0
	for _, roleID := range maybeMember.MustGet().RoleIDs {
		if role, ok := u.store.Role(roleID).Get(); ok && role.Position > highest {
			highest = role.Position
		}
	}
	return highest
}

// simpleResponse sends a plain ephemeral text response to the interaction.
func (u *DiscordBotUseCase) simpleResponse(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
	text string,
) error {
	return u.discordClient.RespondToInteraction(ctx, interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func interactionUser(interaction *discordgo.InteractionCreate) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

func interactionUserID(interaction *discordgo.InteractionCreate) string {
	if user := interactionUser(interaction); user != nil {
		return user.ID
	}
	return "unknown"
}
