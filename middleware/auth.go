package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"egbackend/appctx"
)

// APISecretAuthMiddleware authenticates API requests against a single shared
// secret. The acting owner is carried in the X-User-ID header; full OAuth
// session handling lives outside this service.
type APISecretAuthMiddleware struct {
	apiSecret string
}

// NewAPISecretAuthMiddleware creates a new authentication middleware instance
func NewAPISecretAuthMiddleware(apiSecret string) *APISecretAuthMiddleware {
	return &APISecretAuthMiddleware{
		apiSecret: apiSecret,
	}
}

// WithAuth wraps an HTTP handler with bearer-token authentication
func (m *APISecretAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			m.writeErrorResponse(w, "missing authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Invalid Authorization header format")
			m.writeErrorResponse(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.apiSecret)) != 1 {
			log.Printf("❌ Invalid API secret from %s", r.RemoteAddr)
			m.writeErrorResponse(w, "invalid api secret", http.StatusUnauthorized)
			return
		}

		ownerID := r.Header.Get("X-User-ID")
		if ownerID == "" {
			log.Printf("❌ Missing X-User-ID header")
			m.writeErrorResponse(w, "missing x-user-id header", http.StatusUnauthorized)
			return
		}

		ctx := appctx.SetOwnerID(r.Context(), ownerID)
		next(w, r.WithContext(ctx))
	}
}

func (m *APISecretAuthMiddleware) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("❌ Failed to write error response: %v", err)
	}
}
