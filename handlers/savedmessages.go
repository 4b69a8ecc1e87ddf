package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"egbackend/appctx"
	"egbackend/core"
	"egbackend/middleware"
	"egbackend/services"
	"egbackend/services/savedmessages"
)

// SavedMessagesHTTPHandler exposes saved message CRUD over HTTP. The acting
// owner comes from the request context set by the auth middleware.
type SavedMessagesHTTPHandler struct {
	savedMessagesService services.SavedMessagesService
}

func NewSavedMessagesHTTPHandler(savedMessagesService services.SavedMessagesService) *SavedMessagesHTTPHandler {
	return &SavedMessagesHTTPHandler{
		savedMessagesService: savedMessagesService,
	}
}

type SavedMessageRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Data        json.RawMessage `json:"data"`
}

func (h *SavedMessagesHTTPHandler) HandleListSavedMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List saved messages request received from %s", r.RemoteAddr)

	ownerID, ok := appctx.GetOwnerID(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	messages, err := h.savedMessagesService.ListSavedMessages(r.Context(), ownerID)
	if err != nil {
		log.Printf("❌ Failed to list saved messages: %v", err)
		http.Error(w, "failed to list saved messages", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, messages)
}

func (h *SavedMessagesHTTPHandler) HandleCreateSavedMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Create saved message request received from %s", r.RemoteAddr)

	ownerID, ok := appctx.GetOwnerID(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SavedMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to decode request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.savedMessagesService.CreateSavedMessage(r.Context(), ownerID, req.Name, req.Description, req.Data)
	if err != nil {
		if errors.Is(err, savedmessages.ErrQuotaExceeded) {
			log.Printf("⚠️ Saved message quota exceeded for owner %s", ownerID)
			http.Error(w, "saved message quota exceeded", http.StatusForbidden)
			return
		}
		log.Printf("❌ Failed to create saved message: %v", err)
		http.Error(w, "failed to create saved message", http.StatusBadRequest)
		return
	}

	log.Printf("✅ Created saved message %s for owner %s", message.ID, ownerID)
	writeJSONResponse(w, http.StatusCreated, message)
}

func (h *SavedMessagesHTTPHandler) HandleUpdateSavedMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Update saved message request received from %s", r.RemoteAddr)

	ownerID, ok := appctx.GetOwnerID(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]

	var req SavedMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to decode request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.savedMessagesService.UpdateSavedMessage(r.Context(), ownerID, id, req.Name, req.Description, req.Data)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "saved message not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Failed to update saved message %s: %v", id, err)
		http.Error(w, "failed to update saved message", http.StatusBadRequest)
		return
	}

	log.Printf("✅ Updated saved message %s for owner %s", id, ownerID)
	writeJSONResponse(w, http.StatusOK, message)
}

func (h *SavedMessagesHTTPHandler) HandleDeleteSavedMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Delete saved message request received from %s", r.RemoteAddr)

	ownerID, ok := appctx.GetOwnerID(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]

	deleted, err := h.savedMessagesService.DeleteSavedMessage(r.Context(), ownerID, id)
	if err != nil {
		log.Printf("❌ Failed to delete saved message %s: %v", id, err)
		http.Error(w, "failed to delete saved message", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "saved message not found", http.StatusNotFound)
		return
	}

	log.Printf("✅ Deleted saved message %s for owner %s", id, ownerID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SavedMessagesHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.APISecretAuthMiddleware) {
	log.Printf("🚀 Registering saved message API endpoints")

	router.HandleFunc("/saved-messages", authMiddleware.WithAuth(h.HandleListSavedMessages)).Methods("GET")
	router.HandleFunc("/saved-messages", authMiddleware.WithAuth(h.HandleCreateSavedMessage)).Methods("POST")
	router.HandleFunc("/saved-messages/{id}", authMiddleware.WithAuth(h.HandleUpdateSavedMessage)).Methods("PUT")
	router.HandleFunc("/saved-messages/{id}", authMiddleware.WithAuth(h.HandleDeleteSavedMessage)).Methods("DELETE")
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to write JSON response: %v", err)
	}
}
