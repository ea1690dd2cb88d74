package observability

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// ContextKey is a typed key for context values to avoid collisions
type ContextKey string

// RequestIDKey is the context key for request tracing ID
const RequestIDKey ContextKey = "requestID"

// WithRequestID attaches a request ID to the context, generating one when the
// caller does not supply it.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = generateRequestID()
	}
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// generateRequestID creates a random 16-byte hex request ID
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", os.Getpid())
	}
	return hex.EncodeToString(b)
}
