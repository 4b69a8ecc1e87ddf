package models

import (
	"github.com/bwmarrin/discordgo"
)

// Cached* types are the slimmed-down projections of Discord entities kept in
// the in-memory state cache. They hold only the fields needed for permission
// resolution and message building; everything else from the gateway payloads
// is dropped at the reducer boundary.

type CachedGuild struct {
	ID      string
	Name    string
	Icon    string
	OwnerID string
}

type CachedChannel struct {
	ID                   string
	GuildID              string
	ParentID             string
	Name                 string
	Type                 discordgo.ChannelType
	Position             int
	PermissionOverwrites []*discordgo.PermissionOverwrite
}

type CachedRole struct {
	ID      string
	GuildID string
	Name    string
	Managed bool
	// Permissions is the Discord permission bit-set for the role
	Permissions int64
	// Position orders roles in the guild hierarchy; equal positions are
	// treated as "not higher"
	Position int
}

type CachedEmoji struct {
	ID        string
	GuildID   string
	Name      string
	Animated  bool
	Available bool
	Managed   bool
}

type CachedSticker struct {
	ID      string
	GuildID string
	Name    string
}

// CachedBotMember tracks the bot's own role assignments per guild. Member
// events for other users are never cached, which keeps memory bounded
// independently of guild size.
type CachedBotMember struct {
	GuildID string
	RoleIDs []string
}
