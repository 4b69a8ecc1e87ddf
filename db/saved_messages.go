package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"egbackend/models"
)

type PostgresSavedMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for saved_messages table
var savedMessagesColumns = []string{
	"id",
	"owner_id",
	"name",
	"description",
	"data",
	"created_at",
	"updated_at",
}

func NewPostgresSavedMessagesRepository(db *sqlx.DB, schema string) *PostgresSavedMessagesRepository {
	return &PostgresSavedMessagesRepository{db: db, schema: schema}
}

func (r *PostgresSavedMessagesRepository) CreateSavedMessage(
	ctx context.Context,
	message *models.SavedMessage,
) error {
	returningStr := strings.Join(savedMessagesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.saved_messages (id, owner_id, name, description, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := r.db.QueryRowxContext(
		ctx, query,
		message.ID, message.OwnerID, message.Name, message.Description, []byte(message.Data),
	).StructScan(message)
	if err != nil {
		return fmt.Errorf("failed to create saved message: %w", err)
	}

	return nil
}

func (r *PostgresSavedMessagesRepository) UpdateSavedMessage(
	ctx context.Context,
	message *models.SavedMessage,
) (bool, error) {
	returningStr := strings.Join(savedMessagesColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.saved_messages
		SET name = $3, description = $4, data = $5, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING %s`, r.schema, returningStr)

	err := r.db.QueryRowxContext(
		ctx, query,
		message.ID, message.OwnerID, message.Name, message.Description, []byte(message.Data),
	).StructScan(message)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update saved message: %w", err)
	}

	return true, nil
}

func (r *PostgresSavedMessagesRepository) GetSavedMessageByOwnerAndID(
	ctx context.Context,
	ownerID, id string,
) (mo.Option[*models.SavedMessage], error) {
	columnsStr := strings.Join(savedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.saved_messages
		WHERE owner_id = $1 AND id = $2`, columnsStr, r.schema)

	var message models.SavedMessage
	err := r.db.GetContext(ctx, &message, query, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.SavedMessage](), nil
		}
		return mo.None[*models.SavedMessage](), fmt.Errorf("failed to get saved message: %w", err)
	}

	return mo.Some(&message), nil
}

// GetSavedMessageByID fetches a saved message regardless of owner. Component
// actions reference saved messages by id only; the author granted access by
// embedding the id into the sent message.
func (r *PostgresSavedMessagesRepository) GetSavedMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.SavedMessage], error) {
	columnsStr := strings.Join(savedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.saved_messages
		WHERE id = $1`, columnsStr, r.schema)

	var message models.SavedMessage
	err := r.db.GetContext(ctx, &message, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.SavedMessage](), nil
		}
		return mo.None[*models.SavedMessage](), fmt.Errorf("failed to get saved message by id: %w", err)
	}

	return mo.Some(&message), nil
}

func (r *PostgresSavedMessagesRepository) ListSavedMessagesByOwner(
	ctx context.Context,
	ownerID string,
) ([]*models.SavedMessage, error) {
	columnsStr := strings.Join(savedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.saved_messages
		WHERE owner_id = $1
		ORDER BY updated_at DESC`, columnsStr, r.schema)

	var messages []*models.SavedMessage
	err := r.db.SelectContext(ctx, &messages, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved messages: %w", err)
	}

	return messages, nil
}

func (r *PostgresSavedMessagesRepository) CountSavedMessagesByOwner(
	ctx context.Context,
	ownerID string,
) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.saved_messages WHERE owner_id = $1`, r.schema)

	var count int
	err := r.db.GetContext(ctx, &count, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count saved messages: %w", err)
	}

	return count, nil
}

func (r *PostgresSavedMessagesRepository) DeleteSavedMessage(
	ctx context.Context,
	ownerID, id string,
) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.saved_messages WHERE owner_id = $1 AND id = $2`, r.schema)

	result, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete saved message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}
