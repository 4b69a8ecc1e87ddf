package gateway

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"egbackend/services/permissions"
	"egbackend/services/sentmessages"
	"egbackend/services/statecache"
	"egbackend/services/webhooks"
)

const botUserID = "999"

func newTestReducer() (*Reducer, *statecache.Store, *webhooks.MockWebhooksService, *sentmessages.MockSentMessagesService) {
	store := statecache.NewStore()
	webhooksService := new(webhooks.MockWebhooksService)
	sentMessagesService := new(sentmessages.MockSentMessagesService)
	reducer := NewReducer(store, webhooksService, sentMessagesService, botUserID)
	return reducer, store, webhooksService, sentMessagesService
}

func guildCreate() *discordgo.GuildCreate {
	return &discordgo.GuildCreate{Guild: &discordgo.Guild{
		ID:      "1",
		Name:    "guild",
		OwnerID: "9",
		Channels: []*discordgo.Channel{
			{ID: "10", GuildID: "1", Name: "general", Type: discordgo.ChannelTypeGuildText},
		},
		Threads: []*discordgo.Channel{
			{ID: "15", GuildID: "1", ParentID: "10", Type: discordgo.ChannelTypeGuildPublicThread},
		},
		Roles: []*discordgo.Role{
			{ID: "1", Name: "@everyone", Permissions: discordgo.PermissionViewChannel},
			{ID: "20", Name: "mods", Permissions: discordgo.PermissionManageMessages},
		},
		Emojis:   []*discordgo.Emoji{{ID: "100", Name: "blob"}},
		Stickers: []*discordgo.Sticker{{ID: "200", Name: "wave"}},
		Members: []*discordgo.Member{
			{GuildID: "1", User: &discordgo.User{ID: botUserID}, Roles: []string{"20"}},
			{GuildID: "1", User: &discordgo.User{ID: "5"}, Roles: []string{"20"}},
		},
	}}
}

func TestHandleEventGuildCreate(t *testing.T) {
	reducer, store, _, _ := newTestReducer()

	reducer.HandleEvent(guildCreate())

	assert.Equal(t, "guild", store.Guild("1").MustGet().Name)
	assert.ElementsMatch(t, []string{"10", "15"}, store.GuildChannelIDs("1"))
	assert.ElementsMatch(t, []string{"1", "20"}, store.GuildRoleIDs("1"))
	assert.True(t, store.Emoji("100").IsPresent())
	assert.True(t, store.Sticker("200").IsPresent())

	// only the bot's own membership is retained
	member := store.BotMember("1").MustGet()
	assert.Equal(t, []string{"20"}, member.RoleIDs)
}

func TestHandleEventChannelLifecycle(t *testing.T) {
	reducer, store, webhooksService, _ := newTestReducer()
	webhooksService.On("Invalidate", "11").Once()

	reducer.HandleEvent(&discordgo.ChannelCreate{Channel: &discordgo.Channel{
		ID: "11", GuildID: "1", Name: "random",
	}})
	assert.True(t, store.Channel("11").IsPresent())

	reducer.HandleEvent(&discordgo.ChannelUpdate{Channel: &discordgo.Channel{
		ID: "11", GuildID: "1", Name: "renamed",
	}})
	assert.Equal(t, "renamed", store.Channel("11").MustGet().Name)

	reducer.HandleEvent(&discordgo.ChannelDelete{Channel: &discordgo.Channel{
		ID: "11", GuildID: "1",
	}})
	assert.False(t, store.Channel("11").IsPresent())
	assert.Empty(t, store.GuildChannelIDs("1"))
	webhooksService.AssertExpectations(t)
}

func TestHandleEventThreadLifecycle(t *testing.T) {
	reducer, store, _, _ := newTestReducer()

	reducer.HandleEvent(&discordgo.ThreadCreate{Channel: &discordgo.Channel{
		ID: "15", GuildID: "1", ParentID: "10", Type: discordgo.ChannelTypeGuildPublicThread,
	}})
	assert.True(t, store.Channel("15").IsPresent())
	assert.ElementsMatch(t, []string{"15"}, store.GuildChannelIDs("1"))

	// thread delete detaches from the guild index too
	reducer.HandleEvent(&discordgo.ThreadDelete{Channel: &discordgo.Channel{
		ID: "15", GuildID: "1",
	}})
	assert.False(t, store.Channel("15").IsPresent())
	assert.Empty(t, store.GuildChannelIDs("1"))
}

func TestHandleEventThreadListSync(t *testing.T) {
	reducer, store, _, _ := newTestReducer()

	reducer.HandleEvent(&discordgo.ThreadListSync{
		GuildID: "1",
		Threads: []*discordgo.Channel{
			{ID: "15", GuildID: "1", Type: discordgo.ChannelTypeGuildPublicThread},
			{ID: "16", GuildID: "1", Type: discordgo.ChannelTypeGuildPrivateThread},
		},
	})
	assert.ElementsMatch(t, []string{"15", "16"}, store.GuildChannelIDs("1"))
}

func TestHandleEventRoleLifecycle(t *testing.T) {
	reducer, store, _, _ := newTestReducer()

	reducer.HandleEvent(&discordgo.GuildRoleCreate{GuildRole: &discordgo.GuildRole{
		GuildID: "1",
		Role:    &discordgo.Role{ID: "20", Name: "mods", Permissions: discordgo.PermissionKickMembers, Position: 3},
	}})
	role := store.Role("20").MustGet()
	assert.Equal(t, "1", role.GuildID)
	assert.Equal(t, 3, role.Position)

	reducer.HandleEvent(&discordgo.GuildRoleUpdate{GuildRole: &discordgo.GuildRole{
		GuildID: "1",
		Role:    &discordgo.Role{ID: "20", Name: "admins"},
	}})
	assert.Equal(t, "admins", store.Role("20").MustGet().Name)

	reducer.HandleEvent(&discordgo.GuildRoleDelete{RoleID: "20", GuildID: "1"})
	assert.False(t, store.Role("20").IsPresent())
	assert.Empty(t, store.GuildRoleIDs("1"))
}

func TestHandleEventEmojiAndStickerBulkReplace(t *testing.T) {
	reducer, store, _, _ := newTestReducer()

	reducer.HandleEvent(&discordgo.GuildEmojisUpdate{
		GuildID: "1",
		Emojis:  []*discordgo.Emoji{{ID: "100"}, {ID: "101"}},
	})
	assert.ElementsMatch(t, []string{"100", "101"}, store.GuildEmojiIDs("1"))

	// the gateway delivers the full replacement list, stale rows go away
	reducer.HandleEvent(&discordgo.GuildEmojisUpdate{
		GuildID: "1",
		Emojis:  []*discordgo.Emoji{{ID: "101"}},
	})
	assert.ElementsMatch(t, []string{"101"}, store.GuildEmojiIDs("1"))
	assert.False(t, store.Emoji("100").IsPresent())

	reducer.HandleEvent(&discordgo.GuildStickersUpdate{
		GuildID:  "1",
		Stickers: []*discordgo.Sticker{{ID: "200"}},
	})
	reducer.HandleEvent(&discordgo.GuildStickersUpdate{
		GuildID:  "1",
		Stickers: []*discordgo.Sticker{{ID: "201"}},
	})
	assert.False(t, store.Sticker("200").IsPresent())
	assert.True(t, store.Sticker("201").IsPresent())
}

func TestHandleEventBotMembershipFilter(t *testing.T) {
	reducer, store, _, _ := newTestReducer()

	// events about other members are dropped
	reducer.HandleEvent(&discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: "1", User: &discordgo.User{ID: "5"}, Roles: []string{"20"},
	}})
	assert.False(t, store.BotMember("1").IsPresent())

	reducer.HandleEvent(&discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: "1", User: &discordgo.User{ID: botUserID}, Roles: []string{"20"},
	}})
	assert.Equal(t, []string{"20"}, store.BotMember("1").MustGet().RoleIDs)

	reducer.HandleEvent(&discordgo.GuildMemberUpdate{Member: &discordgo.Member{
		GuildID: "1", User: &discordgo.User{ID: botUserID}, Roles: []string{"20", "21"},
	}})
	assert.Equal(t, []string{"20", "21"}, store.BotMember("1").MustGet().RoleIDs)

	reducer.HandleEvent(&discordgo.GuildMemberRemove{Member: &discordgo.Member{
		GuildID: "1", User: &discordgo.User{ID: "5"},
	}})
	assert.True(t, store.BotMember("1").IsPresent())

	reducer.HandleEvent(&discordgo.GuildMemberRemove{Member: &discordgo.Member{
		GuildID: "1", User: &discordgo.User{ID: botUserID},
	}})
	assert.False(t, store.BotMember("1").IsPresent())
}

func TestHandleEventWebhooksUpdate(t *testing.T) {
	reducer, _, webhooksService, _ := newTestReducer()
	webhooksService.On("Invalidate", "10").Once()

	reducer.HandleEvent(&discordgo.WebhooksUpdate{GuildID: "1", ChannelID: "10"})
	webhooksService.AssertExpectations(t)
}

func TestHandleEventMessageDelete(t *testing.T) {
	reducer, _, _, sentMessagesService := newTestReducer()
	sentMessagesService.On("DeleteSentMessage", mock.Anything, "10", "77").Return(nil).Once()

	reducer.HandleEvent(&discordgo.MessageDelete{Message: &discordgo.Message{ID: "77", ChannelID: "10"}})
	sentMessagesService.AssertExpectations(t)
}

func TestHandleEventGuildDelete(t *testing.T) {
	t.Run("unavailable guilds keep their state", func(t *testing.T) {
		reducer, store, _, _ := newTestReducer()
		reducer.HandleEvent(guildCreate())

		reducer.HandleEvent(&discordgo.GuildDelete{Guild: &discordgo.Guild{
			ID: "1", Unavailable: true,
		}})

		assert.True(t, store.Guild("1").IsPresent())
		assert.True(t, store.Channel("10").IsPresent())
		assert.True(t, store.BotMember("1").IsPresent())
	})

	t.Run("real removal cascades and evicts webhook caches", func(t *testing.T) {
		reducer, store, webhooksService, _ := newTestReducer()
		reducer.HandleEvent(guildCreate())
		webhooksService.On("Invalidate", "10").Once()
		webhooksService.On("Invalidate", "15").Once()

		reducer.HandleEvent(&discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "1"}})

		assert.False(t, store.Guild("1").IsPresent())
		assert.False(t, store.Channel("10").IsPresent())
		assert.False(t, store.Channel("15").IsPresent())
		assert.False(t, store.Role("1").IsPresent())
		assert.False(t, store.Emoji("100").IsPresent())
		assert.False(t, store.Sticker("200").IsPresent())
		assert.False(t, store.BotMember("1").IsPresent())
		webhooksService.AssertExpectations(t)
	})
}

func TestRegisterRoutesEventsThroughWrapper(t *testing.T) {
	reducer, store, _, _ := newTestReducer()
	session := &discordgo.Session{}

	// the wrapper stands in for the alerting middleware: Register must hand
	// it the real handler, and the decorated handler must drive the store
	var decorated func(event any)
	reducer.Register(session, func(handler func(event any)) func(event any) {
		decorated = handler
		return func(event any) {
			handler(event)
		}
	})

	assert.True(t, session.SyncEvents)
	require.NotNil(t, decorated)

	decorated(&discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1", Name: "guild"}})
	assert.Equal(t, "guild", store.Guild("1").MustGet().Name)
}

func TestRegisterWithoutWrapper(t *testing.T) {
	reducer, _, _, _ := newTestReducer()
	session := &discordgo.Session{}

	assert.NotPanics(t, func() {
		reducer.Register(session, nil)
	})
	assert.True(t, session.SyncEvents)
}

func TestHandleEventIgnoresUnknownEvents(t *testing.T) {
	reducer, _, _, _ := newTestReducer()

	assert.NotPanics(t, func() {
		reducer.HandleEvent(&discordgo.TypingStart{})
		reducer.HandleEvent("not even an event")
		reducer.HandleEvent(nil)
	})
}

// Mirrors the reducer-to-resolver flow end to end: apply a small event
// sequence, then resolve permissions for the owner and for a regular member.
func TestReducerResolverEndToEnd(t *testing.T) {
	reducer, store, _, _ := newTestReducer()

	reducer.HandleEvent(&discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1", OwnerID: "9"}})
	reducer.HandleEvent(&discordgo.ChannelCreate{Channel: &discordgo.Channel{
		ID: "10", GuildID: "1", Type: discordgo.ChannelTypeGuildText,
	}})
	reducer.HandleEvent(&discordgo.GuildRoleCreate{GuildRole: &discordgo.GuildRole{
		GuildID: "1",
		Role:    &discordgo.Role{ID: "1", Permissions: discordgo.PermissionSendMessages},
	}})

	resolver := permissions.NewResolver(store, botUserID)

	ownerPerms, err := resolver.ResolveChannelPermissions("9", nil, "1", "10")
	require.NoError(t, err)
	assert.Equal(t, int64(discordgo.PermissionAll), ownerPerms)

	memberPerms, err := resolver.ResolveChannelPermissions("5", []string{"1"}, "1", "10")
	require.NoError(t, err)
	assert.Equal(t, int64(discordgo.PermissionSendMessages), memberPerms)
}
