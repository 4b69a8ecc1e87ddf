package webhooks

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	discordclient "egbackend/clients/discord"
	"egbackend/models"
)

const appID = "500"

// unordered on purpose: the service must not rely on API response order
func unorderedWebhooks() []*discordgo.Webhook {
	return []*discordgo.Webhook{
		{ID: "303", ChannelID: "10", ApplicationID: appID, Token: "tok-303"},
		{ID: "101", ChannelID: "10", ApplicationID: appID, Token: "tok-101"},
		{ID: "202", ChannelID: "10", ApplicationID: "777"},
	}
}

func TestGetChannelWebhooksSortsAndCaches(t *testing.T) {
	client := new(discordclient.MockDiscordClient)
	client.On("ListChannelWebhooks", mock.Anything, "10").Return(unorderedWebhooks(), nil).Once()

	service := NewWebhooksService(client, appID)

	webhooks, err := service.GetChannelWebhooks(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, webhooks, 3)
	assert.Equal(t, "101", webhooks[0].ID)
	assert.Equal(t, "202", webhooks[1].ID)
	assert.Equal(t, "303", webhooks[2].ID)

	// second call is served from cache, no further RPC
	again, err := service.GetChannelWebhooks(context.Background(), "10")
	require.NoError(t, err)
	assert.Equal(t, webhooks, again)
	client.AssertExpectations(t)
}

func TestGetWebhookForChannelDeterministicSelection(t *testing.T) {
	// two independent services simulate two racing fetches of the same
	// unordered response; both must pick the same first-party webhook
	for i := 0; i < 2; i++ {
		client := new(discordclient.MockDiscordClient)
		client.On("ListChannelWebhooks", mock.Anything, "10").Return(unorderedWebhooks(), nil).Once()

		service := NewWebhooksService(client, appID)
		webhook, err := service.GetWebhookForChannel(context.Background(), "10")
		require.NoError(t, err)
		assert.Equal(t, "101", webhook.ID)
		assert.Equal(t, "tok-101", webhook.Token)
	}
}

func TestGetWebhookForChannelCreatesWhenMissing(t *testing.T) {
	client := new(discordclient.MockDiscordClient)
	client.On("ListChannelWebhooks", mock.Anything, "10").
		Return([]*discordgo.Webhook{{ID: "202", ChannelID: "10", ApplicationID: "777"}}, nil).Once()
	client.On("CreateWebhook", mock.Anything, "10", webhookName).
		Return(&discordgo.Webhook{ID: "404", ChannelID: "10", ApplicationID: appID, Token: "tok-404"}, nil).Once()

	service := NewWebhooksService(client, appID)

	webhook, err := service.GetWebhookForChannel(context.Background(), "10")
	require.NoError(t, err)
	assert.Equal(t, "404", webhook.ID)

	// the created webhook lands in the cache; next selection needs no RPC
	again, err := service.GetWebhookForChannel(context.Background(), "10")
	require.NoError(t, err)
	assert.Equal(t, "404", again.ID)
	client.AssertExpectations(t)
}

func TestGetWebhookForChannelLimitReached(t *testing.T) {
	full := make([]*discordgo.Webhook, channelWebhookLimit)
	for i := range full {
		full[i] = &discordgo.Webhook{ID: string(rune('a' + i)), ChannelID: "10", ApplicationID: "777"}
	}

	client := new(discordclient.MockDiscordClient)
	client.On("ListChannelWebhooks", mock.Anything, "10").Return(full, nil).Once()

	service := NewWebhooksService(client, appID)

	_, err := service.GetWebhookForChannel(context.Background(), "10")
	assert.ErrorIs(t, err, ErrWebhookLimitReached)
	// never silently adopt a foreign webhook
	client.AssertNotCalled(t, "CreateWebhook", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvalidateEvictsAndRefetches(t *testing.T) {
	client := new(discordclient.MockDiscordClient)
	client.On("ListChannelWebhooks", mock.Anything, "10").Return(unorderedWebhooks(), nil).Twice()

	service := NewWebhooksService(client, appID)

	_, err := service.GetChannelWebhooks(context.Background(), "10")
	require.NoError(t, err)

	service.Invalidate("10")

	_, err = service.GetChannelWebhooks(context.Background(), "10")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestGetChannelWebhooksPropagatesRPCErrors(t *testing.T) {
	rpcErr := errors.New("upstream down")
	client := new(discordclient.MockDiscordClient)
	client.On("ListChannelWebhooks", mock.Anything, "10").Return(nil, rpcErr).Once()

	service := NewWebhooksService(client, appID)

	_, err := service.GetChannelWebhooks(context.Background(), "10")
	assert.ErrorIs(t, err, rpcErr)
}

func TestChannelsAreCachedIndependently(t *testing.T) {
	client := new(discordclient.MockDiscordClient)
	client.On("ListChannelWebhooks", mock.Anything, "10").Return(unorderedWebhooks(), nil).Once()
	client.On("ListChannelWebhooks", mock.Anything, "11").Return([]*discordgo.Webhook{}, nil).Once()

	service := NewWebhooksService(client, appID)

	ten, err := service.GetChannelWebhooks(context.Background(), "10")
	require.NoError(t, err)
	assert.Len(t, ten, 3)

	eleven, err := service.GetChannelWebhooks(context.Background(), "11")
	require.NoError(t, err)
	assert.Empty(t, eleven)

	service.Invalidate("11")
	// channel 10 still cached after 11's invalidation
	_, err = service.GetChannelWebhooks(context.Background(), "10")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSortWebhooksNumericOrderWithMixedLengths(t *testing.T) {
	webhooks := []models.CachedWebhook{{ID: "10"}, {ID: "2"}, {ID: "1x"}, {ID: "100"}}

	sortWebhooksByID(webhooks)

	ids := make([]string, 0, len(webhooks))
	for _, webhook := range webhooks {
		ids = append(ids, webhook.ID)
	}
	// shorter ids sort first, equal lengths compare lexicographically, so
	// the order stays total even for ids that aren't valid snowflakes
	assert.Equal(t, []string{"2", "10", "1x", "100"}, ids)
}
