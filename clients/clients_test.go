package clients_test

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egbackend/clients"
	"egbackend/clients/discord"
)

func TestResolveBotUserID(t *testing.T) {
	client := new(discord.MockDiscordClient)
	client.On("GetBotUser").Return(&discordgo.User{ID: "999", Username: "embedbot"}, nil).Once()

	id, err := clients.ResolveBotUserID(client)

	require.NoError(t, err)
	assert.Equal(t, "999", id)
	client.AssertExpectations(t)
}

func TestResolveBotUserIDPropagatesError(t *testing.T) {
	client := new(discord.MockDiscordClient)
	client.On("GetBotUser").Return(nil, errors.New("connection reset")).Once()

	_, err := clients.ResolveBotUserID(client)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve bot user")
}
