package clients

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"egbackend/core"
)

func restError(status int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Message: "nope"},
	}
}

func TestClassifyError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, ClassifyError("fetch webhooks", nil))
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		err := ClassifyError("fetch message", restError(http.StatusNotFound))
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("403 maps to ErrForbidden", func(t *testing.T) {
		err := ClassifyError("create webhook", restError(http.StatusForbidden))
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("429 maps to ErrRateLimited", func(t *testing.T) {
		err := ClassifyError("create webhook", restError(http.StatusTooManyRequests))
		assert.ErrorIs(t, err, core.ErrRateLimited)
	})

	t.Run("wrapped REST errors are still classified", func(t *testing.T) {
		err := ClassifyError("fetch message", fmt.Errorf("request: %w", restError(http.StatusNotFound)))
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("transport errors stay generic", func(t *testing.T) {
		err := ClassifyError("fetch webhooks", errors.New("connection reset"))
		assert.Error(t, err)
		assert.False(t, core.IsNotFoundError(err))
		assert.False(t, errors.Is(err, core.ErrForbidden))
	})
}
