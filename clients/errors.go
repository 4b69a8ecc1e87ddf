package clients

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"egbackend/core"
)

// ClassifyError maps a discordgo REST failure onto the shared sentinel
// errors. Anything that isn't a recognisable API rejection is wrapped as a
// generic upstream failure.
func ClassifyError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", operation, core.ErrNotFound)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w", operation, core.ErrForbidden)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", operation, core.ErrRateLimited)
		}
	}

	var rateLimitErr *discordgo.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%s: %w", operation, core.ErrRateLimited)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
