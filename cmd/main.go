package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"egbackend/clients"
	discordclient "egbackend/clients/discord"
	"egbackend/config"
	"egbackend/db"
	"egbackend/handlers"
	"egbackend/middleware"
	"egbackend/services/gateway"
	"egbackend/services/permissions"
	"egbackend/services/savedmessages"
	"egbackend/services/sentmessages"
	"egbackend/services/statecache"
	"egbackend/services/webhooks"
	"egbackend/usecases/discordbot"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertConfig.WebhookURL,
		Environment: cfg.Environment,
		AppName:     "egbackend",
		LogsURL:     cfg.AlertConfig.LogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	savedMessagesRepo := db.NewPostgresSavedMessagesRepository(dbConn, cfg.DatabaseSchema)
	sentMessagesRepo := db.NewPostgresSentMessagesRepository(dbConn, cfg.DatabaseSchema)

	// Initialize the Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildEmojis |
		discordgo.IntentGuildWebhooks |
		discordgo.IntentGuildMessages

	discordClient := discordclient.NewDiscordClient(session)

	// The bot user id can diverge from the application id on older
	// applications, so resolve it over REST instead of reusing ClientID
	botUserID, err := clients.ResolveBotUserID(discordClient)
	if err != nil {
		return err
	}
	log.Printf("🤖 Bot user resolved: %s", botUserID)

	// Initialize services
	store := statecache.NewStore()
	permissionsService := permissions.NewResolver(store, botUserID)
	webhooksService := webhooks.NewWebhooksService(discordClient, cfg.DiscordConfig.ClientID)
	savedMessagesService := savedmessages.NewSavedMessagesService(savedMessagesRepo, cfg.SavedMessageQuota)
	sentMessagesService := sentmessages.NewSentMessagesService(sentMessagesRepo, cfg.TrustCutoverTime)

	// Attach the gateway reducer before opening the session so the initial
	// guild stream is captured from the first event on
	reducer := gateway.NewReducer(store, webhooksService, sentMessagesService, botUserID)
	reducer.Register(session, alertMiddleware.WrapEventHandler)

	botUseCase := discordbot.NewDiscordBotUseCase(
		discordClient,
		store,
		permissionsService,
		webhooksService,
		savedMessagesService,
		sentMessagesService,
		cfg.WebsiteURL,
		cfg.InviteURL,
	)
	session.AddHandler(func(_ *discordgo.Session, interaction *discordgo.InteractionCreate) {
		alertMiddleware.WrapInteractionHandler(func() error {
			return botUseCase.ProcessInteraction(context.Background(), interaction)
		}, fmt.Sprintf("Interaction in channel %s", interaction.ChannelID))
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway connection: %w", err)
	}
	defer session.Close()
	log.Printf("✅ Discord gateway connection established")

	// Initialize HTTP surface
	authMiddleware := middleware.NewAPISecretAuthMiddleware(cfg.APISecret)
	savedMessagesHandler := handlers.NewSavedMessagesHTTPHandler(savedMessagesService)
	messagesHandler := handlers.NewMessagesHTTPHandler(
		discordClient,
		permissionsService,
		webhooksService,
		sentMessagesService,
	)

	router := mux.NewRouter()
	savedMessagesHandler.SetupEndpoints(router, authMiddleware)
	messagesHandler.SetupEndpoints(router, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
