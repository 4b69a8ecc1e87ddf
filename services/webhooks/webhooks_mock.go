package webhooks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"egbackend/models"
)

type MockWebhooksService struct {
	mock.Mock
}

func (m *MockWebhooksService) GetChannelWebhooks(
	ctx context.Context,
	channelID string,
) ([]models.CachedWebhook, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CachedWebhook), args.Error(1)
}

func (m *MockWebhooksService) GetWebhookForChannel(
	ctx context.Context,
	channelID string,
) (models.CachedWebhook, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(models.CachedWebhook), args.Error(1)
}

func (m *MockWebhooksService) Invalidate(channelID string) {
	m.Called(channelID)
}
