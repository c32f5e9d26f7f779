package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Generate returns a fresh request id.
func Generate() string {
	return uuid.New().String()
}

// ToContext stores the request id so log lines and error replies further
// down the chain reference the same id.
func ToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// FromContext returns the request id, or an empty string when none was
// assigned.
func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ctxKey{}).(string); ok {
		return requestID
	}
	return ""
}

// FromContextPtr is the omitempty-friendly variant used in error replies:
// nil when no id was assigned.
func FromContextPtr(ctx context.Context) *string {
	if requestID, ok := ctx.Value(ctxKey{}).(string); ok {
		return &requestID
	}
	return nil
}

func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}
