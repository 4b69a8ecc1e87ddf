package gateway

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"egbackend/models"
	"egbackend/services"
	"egbackend/services/statecache"
)

// Reducer is the single writer of the state cache. It consumes gateway events
// in receipt order and translates each one into a complete store mutation
// (entity plus index) before returning, so readers never observe a
// half-applied event. Events it does not recognise are ignored; per-event
// failures are logged and skipped because the stream must never stall.
type Reducer struct {
	store        *statecache.Store
	webhooks     services.WebhooksService
	sentMessages services.SentMessagesService
	// botUserID filters member events down to the bot's own membership
	botUserID string
}

func NewReducer(
	store *statecache.Store,
	webhooks services.WebhooksService,
	sentMessages services.SentMessagesService,
	botUserID string,
) *Reducer {
	return &Reducer{
		store:        store,
		webhooks:     webhooks,
		sentMessages: sentMessages,
		botUserID:    botUserID,
	}
}

// Register attaches the reducer to the session. SyncEvents forces discordgo
// to dispatch handlers inline on the shard's read loop, preserving the
// gateway's emission order. wrap, when non-nil, decorates the handler; the
// caller passes the alerting middleware here so that a panic while reducing
// one event is reported and swallowed instead of killing the read loop.
func (r *Reducer) Register(session *discordgo.Session, wrap func(func(event any)) func(event any)) {
	handle := r.HandleEvent
	if wrap != nil {
		handle = wrap(handle)
	}
	session.SyncEvents = true
	session.AddHandler(func(_ *discordgo.Session, event any) {
		handle(event)
	})
}

// HandleEvent applies one gateway event to the cache.
func (r *Reducer) HandleEvent(event any) {
	switch e := event.(type) {
	case *discordgo.GuildCreate:
		r.applyGuildCreate(e)
	case *discordgo.GuildUpdate:
		r.store.UpsertGuild(cacheGuild(e.Guild))
	case *discordgo.GuildDelete:
		r.applyGuildDelete(e)

	case *discordgo.ChannelCreate:
		r.store.UpsertChannel(cacheChannel(e.Channel))
	case *discordgo.ChannelUpdate:
		r.store.UpsertChannel(cacheChannel(e.Channel))
	case *discordgo.ChannelDelete:
		r.store.RemoveChannel(e.ID, e.GuildID)
		r.webhooks.Invalidate(e.ID)

	case *discordgo.ThreadCreate:
		r.store.UpsertChannel(cacheChannel(e.Channel))
	case *discordgo.ThreadUpdate:
		r.store.UpsertChannel(cacheChannel(e.Channel))
	case *discordgo.ThreadDelete:
		r.store.RemoveChannel(e.ID, e.GuildID)
	case *discordgo.ThreadListSync:
		for _, thread := range e.Threads {
			r.store.UpsertChannel(cacheChannel(thread))
		}

	case *discordgo.GuildRoleCreate:
		r.store.UpsertRole(cacheRole(e.Role, e.GuildID))
	case *discordgo.GuildRoleUpdate:
		r.store.UpsertRole(cacheRole(e.Role, e.GuildID))
	case *discordgo.GuildRoleDelete:
		r.store.RemoveRole(e.RoleID, e.GuildID)

	case *discordgo.GuildEmojisUpdate:
		r.store.ReplaceGuildEmojis(e.GuildID, cacheEmojis(e.GuildID, e.Emojis))
	case *discordgo.GuildStickersUpdate:
		r.store.ReplaceGuildStickers(e.GuildID, cacheStickers(e.GuildID, e.Stickers))

	case *discordgo.GuildMemberAdd:
		r.applyBotMember(e.Member)
	case *discordgo.GuildMemberUpdate:
		r.applyBotMember(e.Member)
	case *discordgo.GuildMemberRemove:
		if e.User != nil && e.User.ID == r.botUserID {
			r.store.RemoveBotMember(e.GuildID)
		}

	case *discordgo.WebhooksUpdate:
		// webhook churn is delivered as a bare signal; evict and re-fetch lazily
		r.webhooks.Invalidate(e.ChannelID)

	case *discordgo.MessageDelete:
		if err := r.sentMessages.DeleteSentMessage(context.Background(), e.ChannelID, e.ID); err != nil {
			log.Printf("❌ Failed to delete sent message record for %s/%s: %v", e.ChannelID, e.ID, err)
		}
	}
}

func (r *Reducer) applyGuildCreate(e *discordgo.GuildCreate) {
	r.store.UpsertGuild(cacheGuild(e.Guild))

	for _, channel := range e.Channels {
		r.store.UpsertChannel(cacheChannel(channel))
	}
	for _, thread := range e.Threads {
		r.store.UpsertChannel(cacheChannel(thread))
	}
	for _, role := range e.Roles {
		r.store.UpsertRole(cacheRole(role, e.ID))
	}
	r.store.ReplaceGuildEmojis(e.ID, cacheEmojis(e.ID, e.Emojis))
	r.store.ReplaceGuildStickers(e.ID, cacheStickers(e.ID, e.Stickers))

	for _, member := range e.Members {
		r.applyBotMember(member)
	}
}

func (r *Reducer) applyGuildDelete(e *discordgo.GuildDelete) {
	// an unavailable guild is a gateway outage, not a removal
	if e.Unavailable {
		log.Printf("⚠️ Guild %s became unavailable, keeping cached state", e.ID)
		return
	}

	removedChannels := r.store.RemoveGuild(e.ID)
	for _, channelID := range removedChannels {
		r.webhooks.Invalidate(channelID)
	}
	log.Printf("🧹 Removed guild %s from cache (%d channels)", e.ID, len(removedChannels))
}

func (r *Reducer) applyBotMember(member *discordgo.Member) {
	if member == nil || member.User == nil || member.User.ID != r.botUserID {
		return
	}
	r.store.UpsertBotMember(models.CachedBotMember{
		GuildID: member.GuildID,
		RoleIDs: member.Roles,
	})
}

func cacheGuild(guild *discordgo.Guild) models.CachedGuild {
	return models.CachedGuild{
		ID:      guild.ID,
		Name:    guild.Name,
		Icon:    guild.Icon,
		OwnerID: guild.OwnerID,
	}
}

func cacheChannel(channel *discordgo.Channel) models.CachedChannel {
	return models.CachedChannel{
		ID:                   channel.ID,
		GuildID:              channel.GuildID,
		ParentID:             channel.ParentID,
		Name:                 channel.Name,
		Type:                 channel.Type,
		Position:             channel.Position,
		PermissionOverwrites: channel.PermissionOverwrites,
	}
}

func cacheRole(role *discordgo.Role, guildID string) models.CachedRole {
	return models.CachedRole{
		ID:          role.ID,
		GuildID:     guildID,
		Name:        role.Name,
		Managed:     role.Managed,
		Permissions: role.Permissions,
		Position:    role.Position,
	}
}

func cacheEmojis(guildID string, emojis []*discordgo.Emoji) []models.CachedEmoji {
	cached := make([]models.CachedEmoji, 0, len(emojis))
	for _, emoji := range emojis {
		cached = append(cached, models.CachedEmoji{
			ID:        emoji.ID,
			GuildID:   guildID,
			Name:      emoji.Name,
			Animated:  emoji.Animated,
			Available: emoji.Available,
			Managed:   emoji.Managed,
		})
	}
	return cached
}

func cacheStickers(guildID string, stickers []*discordgo.Sticker) []models.CachedSticker {
	cached := make([]models.CachedSticker, 0, len(stickers))
	for _, sticker := range stickers {
		cached = append(cached, models.CachedSticker{
			ID:      sticker.ID,
			GuildID: guildID,
			Name:    sticker.Name,
		})
	}
	return cached
}
