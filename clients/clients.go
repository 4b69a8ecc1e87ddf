package clients

import (
	"fmt"
)

// ResolveBotUserID fetches the bot's own user record over REST and returns
// its id. The bot user id usually matches the application id, but the two
// can diverge for older applications, so startup resolves it rather than
// assuming.
func ResolveBotUserID(client DiscordClient) (string, error) {
	user, err := client.GetBotUser()
	if err != nil {
		return "", fmt.Errorf("failed to resolve bot user: %w", err)
	}
	return user.ID, nil
}
