package payload

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/bwmarrin/discordgo"
)

// IntegrityHash computes a SHA-256 fingerprint over the interactive
// substructure of a set of message components: every custom id and, for
// select menus, every option value. Free-text fields (labels, placeholders,
// embed content) are excluded on purpose, so editing visible text does not
// invalidate a recorded hash while any tampering with the identifiers that
// drive actions does.
func IntegrityHash(components []discordgo.MessageComponent) string {
	hasher := sha256.New()
	for _, component := range components {
		hashComponent(hasher, component)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// IntegrityHashForMessage fingerprints the components of a live Discord
// message using the same algorithm as IntegrityHash.
func IntegrityHashForMessage(msg *discordgo.Message) string {
	return IntegrityHash(msg.Components)
}

func hashComponent(hasher hash.Hash, component discordgo.MessageComponent) {
	// discordgo yields value types when building payloads and pointer types
	// when decoding messages, so both forms are matched here.
	switch c := component.(type) {
	case discordgo.ActionsRow:
		for _, inner := range c.Components {
			hashComponent(hasher, inner)
		}
	case *discordgo.ActionsRow:
		for _, inner := range c.Components {
			hashComponent(hasher, inner)
		}
	case discordgo.Button:
		hashButton(hasher, &c)
	case *discordgo.Button:
		hashButton(hasher, c)
	case discordgo.SelectMenu:
		hashSelectMenu(hasher, &c)
	case *discordgo.SelectMenu:
		hashSelectMenu(hasher, c)
	case discordgo.TextInput:
		hasher.Write([]byte(c.CustomID))
	case *discordgo.TextInput:
		hasher.Write([]byte(c.CustomID))
	}
}

func hashButton(hasher hash.Hash, button *discordgo.Button) {
	// link buttons have no custom id and carry no actions
	if button.CustomID != "" {
		hasher.Write([]byte(button.CustomID))
	}
}

func hashSelectMenu(hasher hash.Hash, menu *discordgo.SelectMenu) {
	hasher.Write([]byte(menu.CustomID))
	for _, option := range menu.Options {
		hasher.Write([]byte(option.Value))
	}
}
