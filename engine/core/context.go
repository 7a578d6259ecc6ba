package core

import (
	"context"
	"errors"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ErrRequestIDMissing is returned when no request id was attached to the context.
var ErrRequestIDMissing = errors.New("request id not found in context")

// WithRequestID attaches a request id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID extracts the request id attached by WithRequestID.
func GetRequestID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrRequestIDMissing
	}
	id, ok := ctx.Value(requestIDKey).(string)
	if !ok || id == "" {
		return "", ErrRequestIDMissing
	}
	return id, nil
}
