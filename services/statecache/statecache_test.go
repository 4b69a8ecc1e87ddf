package statecache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egbackend/models"
)

func TestStoreGuilds(t *testing.T) {
	store := NewStore()

	assert.False(t, store.Guild("1").IsPresent())

	store.UpsertGuild(models.CachedGuild{ID: "1", Name: "guild", OwnerID: "9"})
	guild := store.Guild("1").MustGet()
	assert.Equal(t, "guild", guild.Name)
	assert.Equal(t, "9", guild.OwnerID)

	store.UpsertGuild(models.CachedGuild{ID: "1", Name: "renamed", OwnerID: "9"})
	assert.Equal(t, "renamed", store.Guild("1").MustGet().Name)
}

func TestStoreChannelsIndexConsistency(t *testing.T) {
	store := NewStore()

	// child arriving before its guild creates the index lazily
	store.UpsertChannel(models.CachedChannel{ID: "10", GuildID: "1", Name: "general"})
	assert.ElementsMatch(t, []string{"10"}, store.GuildChannelIDs("1"))
	assert.True(t, store.Channel("10").IsPresent())

	store.UpsertChannel(models.CachedChannel{ID: "11", GuildID: "1", Name: "random"})
	assert.ElementsMatch(t, []string{"10", "11"}, store.GuildChannelIDs("1"))

	// every indexed id must resolve, and every channel must be indexed
	for _, id := range store.GuildChannelIDs("1") {
		channel := store.Channel(id)
		require.True(t, channel.IsPresent())
		assert.Equal(t, "1", channel.MustGet().GuildID)
	}

	store.RemoveChannel("10", "1")
	assert.False(t, store.Channel("10").IsPresent())
	assert.ElementsMatch(t, []string{"11"}, store.GuildChannelIDs("1"))
}

func TestStoreRemoveChannelWithoutGuildHint(t *testing.T) {
	store := NewStore()
	store.UpsertChannel(models.CachedChannel{ID: "10", GuildID: "1"})

	// thread-delete payloads may omit details; the cached entity supplies the guild
	store.RemoveChannel("10", "")
	assert.False(t, store.Channel("10").IsPresent())
	assert.Empty(t, store.GuildChannelIDs("1"))
}

func TestStoreEmojiReplaceSet(t *testing.T) {
	store := NewStore()

	store.ReplaceGuildEmojis("1", []models.CachedEmoji{
		{ID: "100", GuildID: "1", Name: "blob"},
		{ID: "101", GuildID: "1", Name: "wave"},
	})
	assert.ElementsMatch(t, []string{"100", "101"}, store.GuildEmojiIDs("1"))

	// full replacement removes stale rows, keeps survivors, adds new ones
	store.ReplaceGuildEmojis("1", []models.CachedEmoji{
		{ID: "101", GuildID: "1", Name: "wave"},
		{ID: "102", GuildID: "1", Name: "new"},
	})
	assert.ElementsMatch(t, []string{"101", "102"}, store.GuildEmojiIDs("1"))
	assert.False(t, store.Emoji("100").IsPresent())
	assert.True(t, store.Emoji("101").IsPresent())
	assert.True(t, store.Emoji("102").IsPresent())

	store.ReplaceGuildEmojis("1", nil)
	assert.Empty(t, store.GuildEmojiIDs("1"))
	assert.False(t, store.Emoji("101").IsPresent())
}

func TestStoreStickerReplaceSet(t *testing.T) {
	store := NewStore()

	store.ReplaceGuildStickers("1", []models.CachedSticker{{ID: "200", GuildID: "1"}})
	assert.True(t, store.Sticker("200").IsPresent())

	store.ReplaceGuildStickers("1", []models.CachedSticker{{ID: "201", GuildID: "1"}})
	assert.False(t, store.Sticker("200").IsPresent())
	assert.ElementsMatch(t, []string{"201"}, store.GuildStickerIDs("1"))
}

func TestStoreBotMember(t *testing.T) {
	store := NewStore()

	assert.False(t, store.BotMember("1").IsPresent())

	store.UpsertBotMember(models.CachedBotMember{GuildID: "1", RoleIDs: []string{"5", "6"}})
	assert.Equal(t, []string{"5", "6"}, store.BotMember("1").MustGet().RoleIDs)

	store.RemoveBotMember("1")
	assert.False(t, store.BotMember("1").IsPresent())
}

func TestStoreRemoveGuildCascade(t *testing.T) {
	store := NewStore()

	store.UpsertGuild(models.CachedGuild{ID: "1", OwnerID: "9"})
	store.UpsertChannel(models.CachedChannel{ID: "10", GuildID: "1"})
	store.UpsertChannel(models.CachedChannel{ID: "11", GuildID: "1"})
	store.UpsertRole(models.CachedRole{ID: "1", GuildID: "1"})
	store.UpsertRole(models.CachedRole{ID: "20", GuildID: "1"})
	store.ReplaceGuildEmojis("1", []models.CachedEmoji{{ID: "100", GuildID: "1"}})
	store.ReplaceGuildStickers("1", []models.CachedSticker{{ID: "200", GuildID: "1"}})
	store.UpsertBotMember(models.CachedBotMember{GuildID: "1"})

	// a second guild that must survive the cascade untouched
	store.UpsertGuild(models.CachedGuild{ID: "2", OwnerID: "9"})
	store.UpsertChannel(models.CachedChannel{ID: "30", GuildID: "2"})

	removed := store.RemoveGuild("1")
	assert.ElementsMatch(t, []string{"10", "11"}, removed)

	assert.False(t, store.Guild("1").IsPresent())
	assert.False(t, store.Channel("10").IsPresent())
	assert.False(t, store.Channel("11").IsPresent())
	assert.False(t, store.Role("1").IsPresent())
	assert.False(t, store.Role("20").IsPresent())
	assert.False(t, store.Emoji("100").IsPresent())
	assert.False(t, store.Sticker("200").IsPresent())
	assert.False(t, store.BotMember("1").IsPresent())
	assert.Empty(t, store.GuildChannelIDs("1"))
	assert.Empty(t, store.GuildRoleIDs("1"))

	assert.True(t, store.Guild("2").IsPresent())
	assert.True(t, store.Channel("30").IsPresent())
	assert.ElementsMatch(t, []string{"30"}, store.GuildChannelIDs("2"))
}

func TestStoreConcurrentReadersAndWriter(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			id := fmt.Sprintf("%d", i)
			store.UpsertChannel(models.CachedChannel{ID: id, GuildID: "1"})
			store.UpsertRole(models.CachedRole{ID: id, GuildID: "1"})
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				for _, id := range store.GuildChannelIDs("1") {
					// indexed entries must always resolve
					assert.True(t, store.Channel(id).IsPresent())
				}
				store.Role(fmt.Sprintf("%d", i))
			}
		}()
	}

	wg.Wait()
	assert.Len(t, store.GuildChannelIDs("1"), 500)
}
