package savedmessages

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"egbackend/models"
)

type MockSavedMessagesService struct {
	mock.Mock
}

func (m *MockSavedMessagesService) CreateSavedMessage(
	ctx context.Context,
	ownerID, name string,
	description *string,
	data []byte,
) (*models.SavedMessage, error) {
	args := m.Called(ctx, ownerID, name, description, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedMessage), args.Error(1)
}

func (m *MockSavedMessagesService) UpdateSavedMessage(
	ctx context.Context,
	ownerID, id, name string,
	description *string,
	data []byte,
) (*models.SavedMessage, error) {
	args := m.Called(ctx, ownerID, id, name, description, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedMessage), args.Error(1)
}

func (m *MockSavedMessagesService) GetSavedMessage(
	ctx context.Context,
	ownerID, id string,
) (mo.Option[*models.SavedMessage], error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(mo.Option[*models.SavedMessage]), args.Error(1)
}

func (m *MockSavedMessagesService) GetSavedMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.SavedMessage], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.SavedMessage]), args.Error(1)
}

func (m *MockSavedMessagesService) ListSavedMessages(
	ctx context.Context,
	ownerID string,
) ([]*models.SavedMessage, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SavedMessage), args.Error(1)
}

func (m *MockSavedMessagesService) DeleteSavedMessage(
	ctx context.Context,
	ownerID, id string,
) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}
