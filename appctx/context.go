package appctx

import (
	"context"
)

// Context key for storing the authenticated owner id
type contextKey string

const OwnerIDContextKey contextKey = "owner_id"

// SetOwnerID adds the authenticated owner id to the request context
func SetOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDContextKey, ownerID)
}

// GetOwnerID extracts the authenticated owner id from the request context
func GetOwnerID(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerIDContextKey).(string)
	return ownerID, ok
}
