package core

import (
	"errors"
)

// Sentinel errors shared across services and clients. Discord REST failures
// are classified into these so callers can branch without depending on
// discordgo error internals.
var (
	// ErrNotFound signals that a referenced guild, channel, role, message or
	// persisted row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden signals that the bot lacks access to the requested resource.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited signals that Discord rejected the request due to rate limits.
	ErrRateLimited = errors.New("rate limited")
)

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
