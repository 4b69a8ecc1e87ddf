package webhooks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"egbackend/clients"
	"egbackend/models"
)

// channelWebhookLimit is Discord's cap on webhooks per channel.
const channelWebhookLimit = 10

// webhookName is the display name used for webhooks this application creates.
const webhookName = "Embed Generator"

// ErrWebhookLimitReached signals that the channel already holds the maximum
// number of webhooks and none of them belongs to this application. The bot
// never adopts another application's webhook.
var ErrWebhookLimitReached = errors.New("webhook limit reached for channel")

// WebhooksService caches each channel's webhook list, fetched lazily over
// REST. Entries are immutable until a WebhooksUpdate gateway event (or a
// guild removal cascade) invalidates the channel, after which the next access
// re-fetches wholesale. Concurrent misses on the same channel may fetch
// twice; the deterministic sort below makes both racers converge on the same
// first-party webhook.
type WebhooksService struct {
	discordClient clients.DiscordClient
	// applicationID identifies webhooks created by this application
	applicationID string

	mu    sync.RWMutex
	cache map[string][]models.CachedWebhook
}

func NewWebhooksService(discordClient clients.DiscordClient, applicationID string) *WebhooksService {
	return &WebhooksService{
		discordClient: discordClient,
		applicationID: applicationID,
		cache:         make(map[string][]models.CachedWebhook),
	}
}

// GetChannelWebhooks returns the channel's webhooks, fetching and caching
// them on first access. The returned slice is sorted by ascending webhook id
// so repeated independent fetches order identically.
func (s *WebhooksService) GetChannelWebhooks(
	ctx context.Context,
	channelID string,
) ([]models.CachedWebhook, error) {
	s.mu.RLock()
	cached, ok := s.cache[channelID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	fetched, err := s.discordClient.ListChannelWebhooks(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch webhooks for channel %s: %w", channelID, err)
	}

	webhooks := make([]models.CachedWebhook, 0, len(fetched))
	for _, webhook := range fetched {
		webhooks = append(webhooks, models.CachedWebhook{
			ID:            webhook.ID,
			ChannelID:     webhook.ChannelID,
			GuildID:       webhook.GuildID,
			ApplicationID: webhook.ApplicationID,
			Token:         webhook.Token,
			Name:          webhook.Name,
		})
	}
	sortWebhooksByID(webhooks)

	s.mu.Lock()
	s.cache[channelID] = webhooks
	s.mu.Unlock()

	log.Printf("📋 Cached %d webhooks for channel %s", len(webhooks), channelID)
	return webhooks, nil
}

// GetWebhookForChannel returns the channel's first-party webhook, creating
// one when none exists and the channel is below Discord's webhook cap.
func (s *WebhooksService) GetWebhookForChannel(
	ctx context.Context,
	channelID string,
) (models.CachedWebhook, error) {
	webhooks, err := s.GetChannelWebhooks(ctx, channelID)
	if err != nil {
		return models.CachedWebhook{}, err
	}

	// the list is sorted by id, so the first match is stable across fetches
	for _, webhook := range webhooks {
		if webhook.ApplicationID == s.applicationID {
			return webhook, nil
		}
	}

	if len(webhooks) >= channelWebhookLimit {
		return models.CachedWebhook{}, fmt.Errorf(
			"channel %s has %d webhooks and none is ours: %w",
			channelID, len(webhooks), ErrWebhookLimitReached,
		)
	}

	created, err := s.discordClient.CreateWebhook(ctx, channelID, webhookName)
	if err != nil {
		return models.CachedWebhook{}, fmt.Errorf("failed to create webhook in channel %s: %w", channelID, err)
	}
	log.Printf("✅ Created webhook %s in channel %s", created.ID, channelID)

	webhook := models.CachedWebhook{
		ID:            created.ID,
		ChannelID:     created.ChannelID,
		GuildID:       created.GuildID,
		ApplicationID: created.ApplicationID,
		Token:         created.Token,
		Name:          created.Name,
	}

	s.mu.Lock()
	if cached, ok := s.cache[channelID]; ok {
		updated := append(append([]models.CachedWebhook{}, cached...), webhook)
		sortWebhooksByID(updated)
		s.cache[channelID] = updated
	}
	s.mu.Unlock()

	return webhook, nil
}

// Invalidate evicts the channel's entry outright; the next access re-fetches.
func (s *WebhooksService) Invalidate(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[channelID]; ok {
		delete(s.cache, channelID)
		log.Printf("🧹 Invalidated webhook cache for channel %s", channelID)
	}
}

// sortWebhooksByID orders webhooks by ascending snowflake id. Discord returns
// webhook lists in no guaranteed order; sorting makes first-party selection
// deterministic across independent fetches.
func sortWebhooksByID(webhooks []models.CachedWebhook) {
	sort.Slice(webhooks, func(i, j int) bool {
		return snowflakeLess(webhooks[i].ID, webhooks[j].ID)
	})
}

// snowflakeLess compares ids by length before content: snowflakes are
// decimal strings without leading zeros, so a shorter id is always the
// smaller number. The ordering stays total even for ids that aren't
// well-formed snowflakes.
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
