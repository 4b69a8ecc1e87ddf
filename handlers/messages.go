package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"

	"egbackend/clients"
	"egbackend/middleware"
	"egbackend/payload"
	"egbackend/services"
)

// MessagesHTTPHandler sends message payloads through channel webhooks. The
// request supplies the acting principal and its role ids; the handler
// enforces Manage Webhooks in the target channel before anything leaves the
// service.
type MessagesHTTPHandler struct {
	discordClient       clients.DiscordClient
	permissionsService  services.PermissionsService
	webhooksService     services.WebhooksService
	sentMessagesService services.SentMessagesService
}

func NewMessagesHTTPHandler(
	discordClient clients.DiscordClient,
	permissionsService services.PermissionsService,
	webhooksService services.WebhooksService,
	sentMessagesService services.SentMessagesService,
) *MessagesHTTPHandler {
	return &MessagesHTTPHandler{
		discordClient:       discordClient,
		permissionsService:  permissionsService,
		webhooksService:     webhooksService,
		sentMessagesService: sentMessagesService,
	}
}

type SendMessageRequest struct {
	GuildID   string   `json:"guild_id"`
	ChannelID string   `json:"channel_id"`
	UserID    string   `json:"user_id"`
	RoleIDs   []string `json:"role_ids"`

	// MessageID, when set, edits an existing webhook message instead of
	// sending a new one
	MessageID string `json:"message_id,omitempty"`

	Data      json.RawMessage   `json:"data"`
	Variables map[string]string `json:"variables,omitempty"`
}

type SendMessageResponse struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

func (h *MessagesHTTPHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Send message request received from %s", r.RemoteAddr)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to decode request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.GuildID == "" || req.ChannelID == "" || req.UserID == "" {
		http.Error(w, "guild_id, channel_id and user_id are required", http.StatusBadRequest)
		return
	}

	perms, err := h.permissionsService.ResolveChannelPermissions(req.UserID, req.RoleIDs, req.GuildID, req.ChannelID)
	if err != nil {
		log.Printf("❌ Failed to resolve permissions for user %s in channel %s: %v", req.UserID, req.ChannelID, err)
		http.Error(w, "failed to resolve permissions", http.StatusNotFound)
		return
	}
	if perms&discordgo.PermissionManageWebhooks == 0 {
		log.Printf("⚠️ User %s lacks Manage Webhooks in channel %s", req.UserID, req.ChannelID)
		http.Error(w, "manage webhooks permission required", http.StatusForbidden)
		return
	}

	parsed, err := payload.ParseMessagePayload(req.Data)
	if err != nil {
		log.Printf("❌ Failed to parse message payload: %v", err)
		http.Error(w, "invalid message payload", http.StatusBadRequest)
		return
	}
	parsed.ApplyVariables(req.Variables)

	webhook, err := h.webhooksService.GetWebhookForChannel(r.Context(), req.ChannelID)
	if err != nil {
		log.Printf("❌ Failed to get webhook for channel %s: %v", req.ChannelID, err)
		http.Error(w, "failed to get channel webhook", http.StatusBadGateway)
		return
	}

	var msg *discordgo.Message
	if req.MessageID != "" {
		msg, err = h.discordClient.EditWebhookMessage(r.Context(), webhook.ID, webhook.Token, req.MessageID,
			&discordgo.WebhookEdit{
				Content:    &parsed.Content,
				Embeds:     &parsed.Embeds,
				Components: &parsed.Components,
			})
	} else {
		msg, err = h.discordClient.SendWebhookMessage(r.Context(), webhook.ID, webhook.Token, parsed.WebhookParams())
	}
	if err != nil {
		log.Printf("❌ Failed to send message to channel %s: %v", req.ChannelID, err)
		http.Error(w, "failed to send message", http.StatusBadGateway)
		return
	}

	if err := h.sentMessagesService.RecordSentMessage(r.Context(), msg.ChannelID, msg.ID, parsed.Components); err != nil {
		// the message is out; losing the record only disables its actions
		log.Printf("⚠️ Failed to record sent message %s: %v", msg.ID, err)
	}

	log.Printf("✅ Sent message %s to channel %s", msg.ID, msg.ChannelID)
	writeJSONResponse(w, http.StatusOK, SendMessageResponse{
		ChannelID: msg.ChannelID,
		MessageID: msg.ID,
	})
}

func (h *MessagesHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.APISecretAuthMiddleware) {
	log.Printf("🚀 Registering message API endpoints")

	router.HandleFunc("/messages/send", authMiddleware.WithAuth(h.HandleSendMessage)).Methods("POST")
}
