package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	// registers the postgres driver
	_ "github.com/lib/pq"
)

// NewConnection opens the shared Postgres pool backing the saved and sent
// message repositories, verifying it with a ping so a bad DB_URL fails at
// startup rather than on the first query.
func NewConnection(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
