package discordbot

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"egbackend/clients"
	"egbackend/services"
	"egbackend/services/statecache"
)

// commandHandler handles one application command interaction. Handlers are
// registered in a single dispatch table instead of one package per command.
type commandHandler func(ctx context.Context, interaction *discordgo.InteractionCreate) error

// DiscordBotUseCase handles all bot interaction traffic: application
// commands via the dispatch table and message component callbacks via the
// integrity-gated action path.
type DiscordBotUseCase struct {
	discordClient        clients.DiscordClient
	store                *statecache.Store
	permissionsService   services.PermissionsService
	webhooksService      services.WebhooksService
	savedMessagesService services.SavedMessagesService
	sentMessagesService  services.SentMessagesService
	websiteURL           string
	inviteURL            string

	commands map[string]commandHandler
}

// NewDiscordBotUseCase creates a new instance of DiscordBotUseCase
func NewDiscordBotUseCase(
	discordClient clients.DiscordClient,
	store *statecache.Store,
	permissionsService services.PermissionsService,
	webhooksService services.WebhooksService,
	savedMessagesService services.SavedMessagesService,
	sentMessagesService services.SentMessagesService,
	websiteURL string,
	inviteURL string,
) *DiscordBotUseCase {
	u := &DiscordBotUseCase{
		discordClient:        discordClient,
		store:                store,
		permissionsService:   permissionsService,
		webhooksService:      webhooksService,
		savedMessagesService: savedMessagesService,
		sentMessagesService:  sentMessagesService,
		websiteURL:           websiteURL,
		inviteURL:            inviteURL,
	}
	u.commands = map[string]commandHandler{
		"invite":          u.handleInviteCommand,
		"website":         u.handleWebsiteCommand,
		"webhook":         u.handleWebhookCommand,
		"Restore Message": u.handleRestoreMessageCommand,
	}
	return u
}

// ProcessInteraction routes one interaction to its handler. Unknown commands
// and component types are ignored rather than erroring, because command
// registration can lag behind deployments.
func (u *DiscordBotUseCase) ProcessInteraction(
	ctx context.Context,
	interaction *discordgo.InteractionCreate,
) error {
	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		data := interaction.ApplicationCommandData()
		handler, ok := u.commands[data.Name]
		if !ok {
			log.Printf("🔍 Unknown application command %s - ignoring", data.Name)
			return nil
		}
		log.Printf("📋 Starting to process application command %s from user %s", data.Name, interactionUserID(interaction))
		if err := handler(ctx, interaction); err != nil {
			log.Printf("❌ Failed to process command %s: %v", data.Name, err)
			return fmt.Errorf("failed to process command %s: %w", data.Name, err)
		}
		log.Printf("📋 Completed successfully - processed command %s", data.Name)
		return nil

	case discordgo.InteractionMessageComponent:
		log.Printf("📋 Starting to process component interaction from user %s in channel %s",
			interactionUserID(interaction), interaction.ChannelID)
		if err := u.processComponentInteraction(ctx, interaction); err != nil {
			log.Printf("❌ Failed to process component interaction: %v", err)
			return fmt.Errorf("failed to process component interaction: %w", err)
		}
		log.Printf("📋 Completed successfully - processed component interaction")
		return nil

	default:
		return nil
	}
}
