package models

import (
	"encoding/json"
	"time"
)

// SavedMessage is a user-owned message template. Data holds the serialized
// message payload as authored in the editor; it is parsed and variable
// substituted at send time.
type SavedMessage struct {
	ID          string          `db:"id"`
	OwnerID     string          `db:"owner_id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Data        json.RawMessage `db:"data"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
