package sentmessages

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

type MockSentMessagesService struct {
	mock.Mock
}

func (m *MockSentMessagesService) RecordSentMessage(
	ctx context.Context,
	channelID, messageID string,
	components []discordgo.MessageComponent,
) error {
	args := m.Called(ctx, channelID, messageID, components)
	return args.Error(0)
}

func (m *MockSentMessagesService) VerifyMessageIntegrity(
	ctx context.Context,
	msg *discordgo.Message,
) (bool, error) {
	args := m.Called(ctx, msg)
	return args.Bool(0), args.Error(1)
}

func (m *MockSentMessagesService) DeleteSentMessage(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}
