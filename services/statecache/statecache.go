package statecache

import (
	"sync"

	"github.com/samber/mo"

	"egbackend/models"
)

// Store is the in-memory view of the guilds the bot can see, maintained by
// the gateway reducer and read concurrently by request handlers. Each entity
// kind owns an independent lock guarding both its entity map and its
// guild-scoped index, so a reader always observes an entity together with its
// index entry and operations on different kinds never contend.
type Store struct {
	guildsMu sync.RWMutex
	guilds   map[string]models.CachedGuild

	channelsMu    sync.RWMutex
	channels      map[string]models.CachedChannel
	guildChannels map[string]map[string]struct{}

	rolesMu    sync.RWMutex
	roles      map[string]models.CachedRole
	guildRoles map[string]map[string]struct{}

	emojisMu    sync.RWMutex
	emojis      map[string]models.CachedEmoji
	guildEmojis map[string]map[string]struct{}

	stickersMu    sync.RWMutex
	stickers      map[string]models.CachedSticker
	guildStickers map[string]map[string]struct{}

	botMembersMu sync.RWMutex
	botMembers   map[string]models.CachedBotMember
}

func NewStore() *Store {
	return &Store{
		guilds:        make(map[string]models.CachedGuild),
		channels:      make(map[string]models.CachedChannel),
		guildChannels: make(map[string]map[string]struct{}),
		roles:         make(map[string]models.CachedRole),
		guildRoles:    make(map[string]map[string]struct{}),
		emojis:        make(map[string]models.CachedEmoji),
		guildEmojis:   make(map[string]map[string]struct{}),
		stickers:      make(map[string]models.CachedSticker),
		guildStickers: make(map[string]map[string]struct{}),
		botMembers:    make(map[string]models.CachedBotMember),
	}
}

// --- guilds ---

func (s *Store) UpsertGuild(guild models.CachedGuild) {
	s.guildsMu.Lock()
	defer s.guildsMu.Unlock()
	s.guilds[guild.ID] = guild
}

func (s *Store) Guild(id string) mo.Option[models.CachedGuild] {
	s.guildsMu.RLock()
	defer s.guildsMu.RUnlock()
	if guild, ok := s.guilds[id]; ok {
		return mo.Some(guild)
	}
	return mo.None[models.CachedGuild]()
}

// RemoveGuild cascades over every kind owned by the guild, in a fixed kind
// order (channels, roles, emojis, stickers, bot member) so that concurrent
// cascades cannot deadlock. It returns the ids of the channels that were
// removed so the caller can invalidate per-channel caches (webhooks).
func (s *Store) RemoveGuild(guildID string) []string {
	s.guildsMu.Lock()
	delete(s.guilds, guildID)
	s.guildsMu.Unlock()

	s.channelsMu.Lock()
	removedChannels := make([]string, 0, len(s.guildChannels[guildID]))
	for channelID := range s.guildChannels[guildID] {
		delete(s.channels, channelID)
		removedChannels = append(removedChannels, channelID)
	}
	delete(s.guildChannels, guildID)
	s.channelsMu.Unlock()

	s.rolesMu.Lock()
	for roleID := range s.guildRoles[guildID] {
		delete(s.roles, roleID)
	}
	delete(s.guildRoles, guildID)
	s.rolesMu.Unlock()

	s.emojisMu.Lock()
	for emojiID := range s.guildEmojis[guildID] {
		delete(s.emojis, emojiID)
	}
	delete(s.guildEmojis, guildID)
	s.emojisMu.Unlock()

	s.stickersMu.Lock()
	for stickerID := range s.guildStickers[guildID] {
		delete(s.stickers, stickerID)
	}
	delete(s.guildStickers, guildID)
	s.stickersMu.Unlock()

	s.botMembersMu.Lock()
	delete(s.botMembers, guildID)
	s.botMembersMu.Unlock()

	return removedChannels
}

// --- channels ---

func (s *Store) UpsertChannel(channel models.CachedChannel) {
	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()
	s.channels[channel.ID] = channel
	if channel.GuildID != "" {
		s.indexInsert(s.guildChannels, channel.GuildID, channel.ID)
	}
}

// RemoveChannel detaches the channel from its guild index and drops the
// entity. guildID covers thread-delete events whose payload carries only ids;
// the cached entity's guild wins when both are known.
func (s *Store) RemoveChannel(channelID, guildID string) {
	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()
	if channel, ok := s.channels[channelID]; ok && channel.GuildID != "" {
		guildID = channel.GuildID
	}
	delete(s.channels, channelID)
	if guildID != "" {
		s.indexRemove(s.guildChannels, guildID, channelID)
	}
}

func (s *Store) Channel(id string) mo.Option[models.CachedChannel] {
	s.channelsMu.RLock()
	defer s.channelsMu.RUnlock()
	if channel, ok := s.channels[id]; ok {
		return mo.Some(channel)
	}
	return mo.None[models.CachedChannel]()
}

func (s *Store) GuildChannelIDs(guildID string) []string {
	s.channelsMu.RLock()
	defer s.channelsMu.RUnlock()
	return indexKeys(s.guildChannels[guildID])
}

// --- roles ---

func (s *Store) UpsertRole(role models.CachedRole) {
	s.rolesMu.Lock()
	defer s.rolesMu.Unlock()
	s.roles[role.ID] = role
	if role.GuildID != "" {
		s.indexInsert(s.guildRoles, role.GuildID, role.ID)
	}
}

func (s *Store) RemoveRole(roleID, guildID string) {
	s.rolesMu.Lock()
	defer s.rolesMu.Unlock()
	if role, ok := s.roles[roleID]; ok && role.GuildID != "" {
		guildID = role.GuildID
	}
	delete(s.roles, roleID)
	if guildID != "" {
		s.indexRemove(s.guildRoles, guildID, roleID)
	}
}

func (s *Store) Role(id string) mo.Option[models.CachedRole] {
	s.rolesMu.RLock()
	defer s.rolesMu.RUnlock()
	if role, ok := s.roles[id]; ok {
		return mo.Some(role)
	}
	return mo.None[models.CachedRole]()
}

func (s *Store) GuildRoleIDs(guildID string) []string {
	s.rolesMu.RLock()
	defer s.rolesMu.RUnlock()
	return indexKeys(s.guildRoles[guildID])
}

// --- emojis ---

// ReplaceGuildEmojis swaps the guild's emoji set wholesale. The gateway sends
// the full list on every change, never a diff, so stale rows absent from the
// new list are removed in the same step.
func (s *Store) ReplaceGuildEmojis(guildID string, emojis []models.CachedEmoji) {
	s.emojisMu.Lock()
	defer s.emojisMu.Unlock()

	next := make(map[string]struct{}, len(emojis))
	for _, emoji := range emojis {
		s.emojis[emoji.ID] = emoji
		next[emoji.ID] = struct{}{}
	}
	for emojiID := range s.guildEmojis[guildID] {
		if _, kept := next[emojiID]; !kept {
			delete(s.emojis, emojiID)
		}
	}
	s.guildEmojis[guildID] = next
}

func (s *Store) Emoji(id string) mo.Option[models.CachedEmoji] {
	s.emojisMu.RLock()
	defer s.emojisMu.RUnlock()
	if emoji, ok := s.emojis[id]; ok {
		return mo.Some(emoji)
	}
	return mo.None[models.CachedEmoji]()
}

func (s *Store) GuildEmojiIDs(guildID string) []string {
	s.emojisMu.RLock()
	defer s.emojisMu.RUnlock()
	return indexKeys(s.guildEmojis[guildID])
}

// --- stickers ---

// ReplaceGuildStickers swaps the guild's sticker set wholesale, mirroring
// ReplaceGuildEmojis.
func (s *Store) ReplaceGuildStickers(guildID string, stickers []models.CachedSticker) {
	s.stickersMu.Lock()
	defer s.stickersMu.Unlock()

	next := make(map[string]struct{}, len(stickers))
	for _, sticker := range stickers {
		s.stickers[sticker.ID] = sticker
		next[sticker.ID] = struct{}{}
	}
	for stickerID := range s.guildStickers[guildID] {
		if _, kept := next[stickerID]; !kept {
			delete(s.stickers, stickerID)
		}
	}
	s.guildStickers[guildID] = next
}

func (s *Store) Sticker(id string) mo.Option[models.CachedSticker] {
	s.stickersMu.RLock()
	defer s.stickersMu.RUnlock()
	if sticker, ok := s.stickers[id]; ok {
		return mo.Some(sticker)
	}
	return mo.None[models.CachedSticker]()
}

func (s *Store) GuildStickerIDs(guildID string) []string {
	s.stickersMu.RLock()
	defer s.stickersMu.RUnlock()
	return indexKeys(s.guildStickers[guildID])
}

// --- bot member ---

func (s *Store) UpsertBotMember(member models.CachedBotMember) {
	s.botMembersMu.Lock()
	defer s.botMembersMu.Unlock()
	s.botMembers[member.GuildID] = member
}

func (s *Store) RemoveBotMember(guildID string) {
	s.botMembersMu.Lock()
	defer s.botMembersMu.Unlock()
	delete(s.botMembers, guildID)
}

func (s *Store) BotMember(guildID string) mo.Option[models.CachedBotMember] {
	s.botMembersMu.RLock()
	defer s.botMembersMu.RUnlock()
	if member, ok := s.botMembers[guildID]; ok {
		return mo.Some(member)
	}
	return mo.None[models.CachedBotMember]()
}

// --- index helpers ---

// indexInsert creates the guild's index set lazily: child events may arrive
// before their guild has been seen.
func (s *Store) indexInsert(index map[string]map[string]struct{}, guildID, childID string) {
	set, ok := index[guildID]
	if !ok {
		set = make(map[string]struct{})
		index[guildID] = set
	}
	set[childID] = struct{}{}
}

func (s *Store) indexRemove(index map[string]map[string]struct{}, guildID, childID string) {
	if set, ok := index[guildID]; ok {
		delete(set, childID)
	}
}

func indexKeys(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
