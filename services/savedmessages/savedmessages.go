package savedmessages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/samber/mo"

	"egbackend/core"
	"egbackend/models"
)

// ErrQuotaExceeded signals that the owner already holds the maximum number of
// saved messages; enforced at creation time only.
var ErrQuotaExceeded = errors.New("saved message quota exceeded")

// SavedMessagesRepository is the persistence surface the service needs.
// Implemented by db.PostgresSavedMessagesRepository.
type SavedMessagesRepository interface {
	CreateSavedMessage(ctx context.Context, message *models.SavedMessage) error
	UpdateSavedMessage(ctx context.Context, message *models.SavedMessage) (bool, error)
	GetSavedMessageByOwnerAndID(ctx context.Context, ownerID, id string) (mo.Option[*models.SavedMessage], error)
	GetSavedMessageByID(ctx context.Context, id string) (mo.Option[*models.SavedMessage], error)
	ListSavedMessagesByOwner(ctx context.Context, ownerID string) ([]*models.SavedMessage, error)
	CountSavedMessagesByOwner(ctx context.Context, ownerID string) (int, error)
	DeleteSavedMessage(ctx context.Context, ownerID, id string) (bool, error)
}

type SavedMessagesService struct {
	savedMessagesRepo SavedMessagesRepository
	// quota caps saved messages per owner
	quota int
}

func NewSavedMessagesService(repo SavedMessagesRepository, quota int) *SavedMessagesService {
	return &SavedMessagesService{savedMessagesRepo: repo, quota: quota}
}

func (s *SavedMessagesService) CreateSavedMessage(
	ctx context.Context,
	ownerID, name string,
	description *string,
	data []byte,
) (*models.SavedMessage, error) {
	log.Printf("📋 Starting to create saved message %q for owner %s", name, ownerID)

	if ownerID == "" {
		return nil, fmt.Errorf("owner ID cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("data must be valid JSON")
	}

	count, err := s.savedMessagesRepo.CountSavedMessagesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count saved messages: %w", err)
	}
	if count >= s.quota {
		return nil, fmt.Errorf("owner %s has %d saved messages: %w", ownerID, count, ErrQuotaExceeded)
	}

	message := &models.SavedMessage{
		ID:          core.NewID("sm"),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Data:        data,
	}

	if err := s.savedMessagesRepo.CreateSavedMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create saved message: %w", err)
	}

	log.Printf("📋 Completed successfully - created saved message with ID: %s", message.ID)
	return message, nil
}

func (s *SavedMessagesService) UpdateSavedMessage(
	ctx context.Context,
	ownerID, id, name string,
	description *string,
	data []byte,
) (*models.SavedMessage, error) {
	log.Printf("📋 Starting to update saved message %s for owner %s", id, ownerID)

	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("saved message ID must be a valid ULID")
	}
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("data must be valid JSON")
	}

	message := &models.SavedMessage{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Data:        data,
	}

	updated, err := s.savedMessagesRepo.UpdateSavedMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to update saved message: %w", err)
	}
	if !updated {
		return nil, fmt.Errorf("saved message %s for owner %s: %w", id, ownerID, core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - updated saved message: %s", id)
	return message, nil
}

func (s *SavedMessagesService) GetSavedMessage(
	ctx context.Context,
	ownerID, id string,
) (mo.Option[*models.SavedMessage], error) {
	return s.savedMessagesRepo.GetSavedMessageByOwnerAndID(ctx, ownerID, id)
}

func (s *SavedMessagesService) GetSavedMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.SavedMessage], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.SavedMessage](), nil
	}
	return s.savedMessagesRepo.GetSavedMessageByID(ctx, id)
}

func (s *SavedMessagesService) ListSavedMessages(
	ctx context.Context,
	ownerID string,
) ([]*models.SavedMessage, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner ID cannot be empty")
	}
	return s.savedMessagesRepo.ListSavedMessagesByOwner(ctx, ownerID)
}

// DeleteSavedMessage removes the message and reports whether it existed.
// Deleting an absent message is not an error (idempotent delete).
func (s *SavedMessagesService) DeleteSavedMessage(
	ctx context.Context,
	ownerID, id string,
) (bool, error) {
	log.Printf("📋 Starting to delete saved message %s for owner %s", id, ownerID)

	deleted, err := s.savedMessagesRepo.DeleteSavedMessage(ctx, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete saved message: %w", err)
	}

	log.Printf("📋 Completed - deleted saved message %s: %t", id, deleted)
	return deleted, nil
}
