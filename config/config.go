package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	// ClientID is the application id, which is also the bot's user id
	ClientID string
	BotToken string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.ClientID != "" &&
		c.BotToken != ""
}

type AlertConfig struct {
	WebhookURL string
	LogsURL    string
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string

	// APISecret authenticates requests to the HTTP API
	APISecret string

	// WebsiteURL and InviteURL are surfaced by the bot commands
	WebsiteURL string
	InviteURL  string

	// SavedMessageQuota is the per-owner saved message limit
	SavedMessageQuota int

	// TrustCutoverTime marks when integrity tracking went live. Messages sent
	// before it have no sent-message record and are implicitly trusted.
	TrustCutoverTime time.Time

	DiscordConfig DiscordConfig
	AlertConfig   AlertConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	apiSecret, err := getEnvRequired("API_SECRET")
	if err != nil {
		return nil, err
	}

	quota := 25
	if raw := os.Getenv("SAVED_MESSAGE_QUOTA"); raw != "" {
		quota, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SAVED_MESSAGE_QUOTA value %q: %w", raw, err)
		}
	}

	trustCutover := time.Time{}
	if raw := os.Getenv("TRUST_CUTOVER_TIME"); raw != "" {
		trustCutover, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUST_CUTOVER_TIME value %q: %w", raw, err)
		}
	}

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		APISecret:          apiSecret,
		WebsiteURL:         getEnvWithDefault("WEBSITE_URL", "https://message.style"),
		InviteURL:          os.Getenv("INVITE_URL"),
		SavedMessageQuota:  quota,
		TrustCutoverTime:   trustCutover,

		DiscordConfig: DiscordConfig{
			ClientID: os.Getenv("DISCORD_CLIENT_ID"),
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},

		AlertConfig: AlertConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			LogsURL:    os.Getenv("SERVER_LOGS_URL"),
		},
	}

	if config.DiscordConfig.IsConfigured() {
		log.Printf("✅ Discord integration configured")
	} else {
		return nil, fmt.Errorf("discord integration is not fully configured")
	}

	if config.AlertConfig.WebhookURL != "" {
		log.Printf("✅ Error alerting configured")
	} else {
		log.Printf("⚠️ Error alerting not configured - alerts will only be logged")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
