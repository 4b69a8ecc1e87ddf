package permissions

import (
	"fmt"
	"slices"

	"github.com/bwmarrin/discordgo"

	"egbackend/core"
	"egbackend/models"
	"egbackend/services/statecache"
)

// Resolver computes the effective permission bits of a member in a channel
// from the state cache. It is a pure reader: every call works off whatever
// the cache holds right now and fails closed when the guild or channel is
// unknown.
type Resolver struct {
	store *statecache.Store
	// botUserID is the bot's own user id, used for ResolveBotPermissions
	botUserID string
}

func NewResolver(store *statecache.Store, botUserID string) *Resolver {
	return &Resolver{store: store, botUserID: botUserID}
}

// ResolveChannelPermissions resolves userID's permissions in the channel.
// Precedence, lowest to highest: base (everyone) role, assigned roles,
// everyone overwrite, role overwrites, member overwrite. The guild owner and
// administrators bypass overwrites entirely. Unresolvable assigned role ids
// are skipped, never an error.
func (r *Resolver) ResolveChannelPermissions(
	userID string,
	roleIDs []string,
	guildID, channelID string,
) (int64, error) {
	maybeGuild := r.store.Guild(guildID)
	if !maybeGuild.IsPresent() {
		return 0, fmt.Errorf("guild %s: %w", guildID, core.ErrNotFound)
	}
	guild := maybeGuild.MustGet()

	maybeChannel := r.store.Channel(channelID)
	if !maybeChannel.IsPresent() {
		return 0, fmt.Errorf("channel %s: %w", channelID, core.ErrNotFound)
	}
	channel := maybeChannel.MustGet()
	if channel.GuildID != guildID {
		return 0, fmt.Errorf("channel %s not in guild %s: %w", channelID, guildID, core.ErrNotFound)
	}

	if userID == guild.OwnerID {
		return discordgo.PermissionAll, nil
	}

	// the everyone role shares the guild's id
	var perms int64
	if baseRole, ok := r.store.Role(guildID).Get(); ok {
		perms = baseRole.Permissions
	}

	for _, roleID := range roleIDs {
		if role, ok := r.store.Role(roleID).Get(); ok {
			perms |= role.Permissions
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll, nil
	}

	overwrites := r.overwritesFor(channel)

	// everyone overwrite first, identified by the guild id
	for _, overwrite := range overwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeRole && overwrite.ID == guildID {
			perms &^= overwrite.Deny
			perms |= overwrite.Allow
			break
		}
	}

	// role overwrites next: collect denies and allows across all matching
	// roles, then apply denies before allows so an allow on any assigned
	// role wins over a deny on another
	var roleAllow, roleDeny int64
	for _, overwrite := range overwrites {
		if overwrite.Type != discordgo.PermissionOverwriteTypeRole || overwrite.ID == guildID {
			continue
		}
		if slices.Contains(roleIDs, overwrite.ID) {
			roleDeny |= overwrite.Deny
			roleAllow |= overwrite.Allow
		}
	}
	perms &^= roleDeny
	perms |= roleAllow

	// member overwrite last, taking precedence over everything above
	for _, overwrite := range overwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeMember && overwrite.ID == userID {
			perms &^= overwrite.Deny
			perms |= overwrite.Allow
			break
		}
	}

	return perms, nil
}

// ResolveBotPermissions resolves the bot's own permissions in the channel
// using its cached membership record.
func (r *Resolver) ResolveBotPermissions(guildID, channelID string) (int64, error) {
	var roleIDs []string
	if member, ok := r.store.BotMember(guildID).Get(); ok {
		roleIDs = member.RoleIDs
	}
	return r.ResolveChannelPermissions(r.botUserID, roleIDs, guildID, channelID)
}

// overwritesFor returns the overwrite list that governs the channel. Threads
// carry no overwrites of their own; permissions come from the parent channel.
func (r *Resolver) overwritesFor(channel models.CachedChannel) []*discordgo.PermissionOverwrite {
	if len(channel.PermissionOverwrites) > 0 {
		return channel.PermissionOverwrites
	}
	if isThread(channel.Type) && channel.ParentID != "" {
		if parent, ok := r.store.Channel(channel.ParentID).Get(); ok {
			return parent.PermissionOverwrites
		}
	}
	return channel.PermissionOverwrites
}

func isThread(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	}
	return false
}
