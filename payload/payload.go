package payload

import (
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MessagePayload is the structured message document stored in saved messages
// and sent through webhooks. Embeds and components reuse the discordgo wire
// types so payloads round-trip to the Discord API without conversion.
type MessagePayload struct {
	Username   string                       `json:"username,omitempty"`
	AvatarURL  string                       `json:"avatar_url,omitempty"`
	Content    string                       `json:"content,omitempty"`
	Embeds     []*discordgo.MessageEmbed    `json:"embeds,omitempty"`
	Components []discordgo.MessageComponent `json:"components,omitempty"`
}

// UnmarshalJSON decodes a payload, resolving each component into its concrete
// discordgo type. discordgo.MessageComponent is an interface, so the default
// decoder cannot handle it.
func (p *MessagePayload) UnmarshalJSON(data []byte) error {
	type alias struct {
		Username   string                    `json:"username"`
		AvatarURL  string                    `json:"avatar_url"`
		Content    string                    `json:"content"`
		Embeds     []*discordgo.MessageEmbed `json:"embeds"`
		Components []json.RawMessage         `json:"components"`
	}

	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode message payload: %w", err)
	}

	p.Username = raw.Username
	p.AvatarURL = raw.AvatarURL
	p.Content = raw.Content
	p.Embeds = raw.Embeds
	p.Components = nil

	for i, rawComponent := range raw.Components {
		component, err := discordgo.MessageComponentFromJSON(rawComponent)
		if err != nil {
			return fmt.Errorf("failed to decode message component %d: %w", i, err)
		}
		p.Components = append(p.Components, component)
	}

	return nil
}

// ParseMessagePayload decodes a serialized message payload, typically the
// Data column of a saved message.
func ParseMessagePayload(data []byte) (*MessagePayload, error) {
	var p MessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FromMessage rebuilds a payload from a live Discord message, used by the
// restore flows to turn an existing message back into an editable document.
func FromMessage(msg *discordgo.Message) *MessagePayload {
	p := &MessagePayload{
		Content:    msg.Content,
		Embeds:     msg.Embeds,
		Components: msg.Components,
	}
	if msg.Author != nil {
		p.Username = msg.Author.Username
	}
	return p
}

// WebhookParams converts the payload into the discordgo webhook execution
// parameters.
func (p *MessagePayload) WebhookParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Username:   p.Username,
		AvatarURL:  p.AvatarURL,
		Content:    p.Content,
		Embeds:     p.Embeds,
		Components: p.Components,
	}
}
