package utils

import "context"

type ctxKey string

const (
	internalRequestKey ctxKey = "internal_request"
	clientIDKey        ctxKey = "client_id"
)

// WithInternalRequest marks a request coming from a trusted service.
func WithInternalRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalRequestKey, true)
}

func IsInternalRequest(ctx context.Context) bool {
	v, _ := ctx.Value(internalRequestKey).(bool)
	return v
}

// WithClientID stores the rate limiting identity (device or ip) of the caller.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

func ClientIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(clientIDKey).(string)
	return v
}
