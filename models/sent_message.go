package models

import (
	"time"
)

// SentMessage records a message the bot delivered through a webhook, together
// with the integrity hash of its interactive components. Inbound component
// interactions are only executed when the hash recomputed from the live
// message matches the recorded one.
type SentMessage struct {
	ID            string    `db:"id"`
	ChannelID     string    `db:"channel_id"`
	MessageID     string    `db:"message_id"`
	IntegrityHash string    `db:"integrity_hash"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
