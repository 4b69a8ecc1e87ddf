package payload

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessagePayload(t *testing.T) {
	data := []byte(`{
		"content": "hello {{user.name}}",
		"username": "Greeter",
		"embeds": [{"title": "Welcome", "description": "hi"}],
		"components": [
			{
				"type": 1,
				"components": [
					{"type": 2, "style": 1, "label": "Hi", "custom_id": "btn{0:sm_abc}"}
				]
			}
		]
	}`)

	p, err := ParseMessagePayload(data)
	require.NoError(t, err)

	assert.Equal(t, "hello {{user.name}}", p.Content)
	assert.Equal(t, "Greeter", p.Username)
	require.Len(t, p.Embeds, 1)
	assert.Equal(t, "Welcome", p.Embeds[0].Title)
	require.Len(t, p.Components, 1)

	// component decoding must produce the concrete discordgo types so the
	// integrity hash sees the custom ids
	assert.NotEmpty(t, IntegrityHash(p.Components))
	assert.NotEqual(t, IntegrityHash(nil), IntegrityHash(p.Components))
}

func TestParseMessagePayloadInvalid(t *testing.T) {
	_, err := ParseMessagePayload([]byte(`{"content": 42}`))
	assert.Error(t, err)
}

func TestWebhookParams(t *testing.T) {
	p := &MessagePayload{
		Username:  "Greeter",
		AvatarURL: "https://example.com/a.png",
		Content:   "hello",
		Embeds:    []*discordgo.MessageEmbed{{Title: "t"}},
	}

	params := p.WebhookParams()
	assert.Equal(t, "Greeter", params.Username)
	assert.Equal(t, "https://example.com/a.png", params.AvatarURL)
	assert.Equal(t, "hello", params.Content)
	assert.Len(t, params.Embeds, 1)
}

func TestFromMessage(t *testing.T) {
	msg := &discordgo.Message{
		Content: "restored",
		Author:  &discordgo.User{Username: "hook"},
		Embeds:  []*discordgo.MessageEmbed{{Title: "t"}},
	}

	p := FromMessage(msg)
	assert.Equal(t, "restored", p.Content)
	assert.Equal(t, "hook", p.Username)
	assert.Len(t, p.Embeds, 1)
}
