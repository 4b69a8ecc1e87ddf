package payload

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestSubstituteVariables(t *testing.T) {
	variables := map[string]string{
		"user.name":  "pres",
		"guild.name": "Test Guild",
	}

	t.Run("replaces resolvable tokens", func(t *testing.T) {
		out := SubstituteVariables("hello {{user.name}} from {{guild.name}}", variables)
		assert.Equal(t, "hello pres from Test Guild", out)
	})

	t.Run("falls back to inline default", func(t *testing.T) {
		out := SubstituteVariables("hi {{user.nickname|friend}}", variables)
		assert.Equal(t, "hi friend", out)
	})

	t.Run("empty default still counts as a default", func(t *testing.T) {
		out := SubstituteVariables("hi{{user.nickname|}}", variables)
		assert.Equal(t, "hi", out)
	})

	t.Run("keeps unresolved tokens verbatim", func(t *testing.T) {
		out := SubstituteVariables("hi {{user.nickname}}", variables)
		assert.Equal(t, "hi {{user.nickname}}", out)
	})

	t.Run("unresolved tokens are round-trip stable", func(t *testing.T) {
		input := "a {{unknown.one}} b {{unknown.two}}"
		once := SubstituteVariables(input, nil)
		twice := SubstituteVariables(once, nil)
		assert.Equal(t, once, twice)
		assert.Equal(t, input, once)
	})

	t.Run("resolved substitution without token injection is idempotent", func(t *testing.T) {
		once := SubstituteVariables("hello {{user.name}}", variables)
		twice := SubstituteVariables(once, variables)
		assert.Equal(t, once, twice)
	})
}

func TestApplyVariables(t *testing.T) {
	p := &MessagePayload{
		Content: "welcome {{user.name}}",
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "{{guild.name}}",
				Description: "enjoy your stay, {{user.name}}",
				Footer:      &discordgo.MessageEmbedFooter{Text: "{{guild.name}}"},
				Author:      &discordgo.MessageEmbedAuthor{Name: "{{user.name}}"},
				Fields: []*discordgo.MessageEmbedField{
					{Name: "{{guild.name}}", Value: "{{user.name}}"},
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "{{user.name}}", CustomID: "{{user.name}}"},
			}},
		},
	}

	p.ApplyVariables(map[string]string{
		"user.name":  "pres",
		"guild.name": "Test Guild",
	})

	assert.Equal(t, "welcome pres", p.Content)
	assert.Equal(t, "Test Guild", p.Embeds[0].Title)
	assert.Equal(t, "enjoy your stay, pres", p.Embeds[0].Description)
	assert.Equal(t, "Test Guild", p.Embeds[0].Footer.Text)
	assert.Equal(t, "pres", p.Embeds[0].Author.Name)
	assert.Equal(t, "Test Guild", p.Embeds[0].Fields[0].Name)
	assert.Equal(t, "pres", p.Embeds[0].Fields[0].Value)

	// custom ids must never be substituted, the integrity hash depends on them
	row := p.Components[0].(discordgo.ActionsRow)
	button := row.Components[0].(discordgo.Button)
	assert.Equal(t, "{{user.name}}", button.CustomID)
}
