package contextutil

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID returns the request id previously injected by the
// RequestID middleware, or empty when the context carries none.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}
