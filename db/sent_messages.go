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

type PostgresSentMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for sent_messages table
var sentMessagesColumns = []string{
	"id",
	"channel_id",
	"message_id",
	"integrity_hash",
	"created_at",
	"updated_at",
}

func NewPostgresSentMessagesRepository(db *sqlx.DB, schema string) *PostgresSentMessagesRepository {
	return &PostgresSentMessagesRepository{db: db, schema: schema}
}

// UpsertSentMessage inserts or refreshes the integrity record for a
// channel+message pair. Edits through the webhook re-record the hash.
func (r *PostgresSentMessagesRepository) UpsertSentMessage(
	ctx context.Context,
	record *models.SentMessage,
) error {
	returningStr := strings.Join(sentMessagesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.sent_messages (id, channel_id, message_id, integrity_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (channel_id, message_id)
		DO UPDATE SET integrity_hash = EXCLUDED.integrity_hash, updated_at = NOW()
		RETURNING %s`, r.schema, returningStr)

	err := r.db.QueryRowxContext(
		ctx, query,
		record.ID, record.ChannelID, record.MessageID, record.IntegrityHash,
	).StructScan(record)
	if err != nil {
		return fmt.Errorf("failed to upsert sent message: %w", err)
	}

	return nil
}

func (r *PostgresSentMessagesRepository) GetSentMessage(
	ctx context.Context,
	channelID, messageID string,
) (mo.Option[*models.SentMessage], error) {
	columnsStr := strings.Join(sentMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.sent_messages
		WHERE channel_id = $1 AND message_id = $2`, columnsStr, r.schema)

	var record models.SentMessage
	err := r.db.GetContext(ctx, &record, query, channelID, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.SentMessage](), nil
		}
		return mo.None[*models.SentMessage](), fmt.Errorf("failed to get sent message: %w", err)
	}

	return mo.Some(&record), nil
}

func (r *PostgresSentMessagesRepository) DeleteSentMessage(
	ctx context.Context,
	channelID, messageID string,
) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.sent_messages WHERE channel_id = $1 AND message_id = $2`, r.schema)

	result, err := r.db.ExecContext(ctx, query, channelID, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to delete sent message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}
