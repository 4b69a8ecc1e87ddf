package sentmessages

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"egbackend/core"
	"egbackend/models"
	"egbackend/payload"
)

// SentMessagesRepository is the persistence surface the service needs.
// Implemented by db.PostgresSentMessagesRepository.
type SentMessagesRepository interface {
	UpsertSentMessage(ctx context.Context, record *models.SentMessage) error
	GetSentMessage(ctx context.Context, channelID, messageID string) (mo.Option[*models.SentMessage], error)
	DeleteSentMessage(ctx context.Context, channelID, messageID string) (bool, error)
}

// SentMessagesService records the integrity hash of every message delivered
// through a webhook and verifies inbound interactions against it. Messages
// sent before trustCutover predate integrity recording and are implicitly
// trusted; everything newer must have a matching record.
type SentMessagesService struct {
	sentMessagesRepo SentMessagesRepository
	trustCutover     time.Time
}

func NewSentMessagesService(repo SentMessagesRepository, trustCutover time.Time) *SentMessagesService {
	return &SentMessagesService{sentMessagesRepo: repo, trustCutover: trustCutover}
}

func (s *SentMessagesService) RecordSentMessage(
	ctx context.Context,
	channelID, messageID string,
	components []discordgo.MessageComponent,
) error {
	if channelID == "" || messageID == "" {
		return fmt.Errorf("channel ID and message ID cannot be empty")
	}

	record := &models.SentMessage{
		ID:            core.NewID("sent"),
		ChannelID:     channelID,
		MessageID:     messageID,
		IntegrityHash: payload.IntegrityHash(components),
	}

	if err := s.sentMessagesRepo.UpsertSentMessage(ctx, record); err != nil {
		return fmt.Errorf("failed to record sent message: %w", err)
	}

	log.Printf("📋 Recorded integrity hash for message %s in channel %s", messageID, channelID)
	return nil
}

// VerifyMessageIntegrity reports whether the message's interactive components
// are unchanged since the bot sent it. A missing record rejects the message
// unless it predates the trust cutover.
func (s *SentMessagesService) VerifyMessageIntegrity(
	ctx context.Context,
	msg *discordgo.Message,
) (bool, error) {
	if msg == nil {
		return false, fmt.Errorf("message cannot be nil")
	}

	maybeRecord, err := s.sentMessagesRepo.GetSentMessage(ctx, msg.ChannelID, msg.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load sent message record: %w", err)
	}

	if record, ok := maybeRecord.Get(); ok {
		matches := record.IntegrityHash == payload.IntegrityHashForMessage(msg)
		if !matches {
			log.Printf("⚠️ Integrity mismatch for message %s in channel %s", msg.ID, msg.ChannelID)
		}
		return matches, nil
	}

	sentAt, err := discordgo.SnowflakeTimestamp(msg.ID)
	if err != nil {
		return false, fmt.Errorf("failed to parse message snowflake %s: %w", msg.ID, err)
	}
	if sentAt.Before(s.trustCutover) {
		// sent before integrity recording existed
		return true, nil
	}

	log.Printf("⚠️ No integrity record for post-cutover message %s in channel %s", msg.ID, msg.ChannelID)
	return false, nil
}

func (s *SentMessagesService) DeleteSentMessage(ctx context.Context, channelID, messageID string) error {
	if _, err := s.sentMessagesRepo.DeleteSentMessage(ctx, channelID, messageID); err != nil {
		return fmt.Errorf("failed to delete sent message record: %w", err)
	}
	return nil
}
