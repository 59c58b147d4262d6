package context

import (
	"context"
	"strings"
)

type contextKey string

const (
	requestIDKey  contextKey = "observability_request_id"
	propertyIDKey contextKey = "observability_property_id"
)

// WithRequestID stores the request correlation id on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request correlation id, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithPropertyID stores the property identifier for log correlation.
func WithPropertyID(ctx context.Context, propertyID string) context.Context {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return ctx
	}
	return context.WithValue(ctx, propertyIDKey, propertyID)
}

// PropertyIDFromContext returns the property identifier, if any.
func PropertyIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(propertyIDKey).(string); ok {
		return v
	}
	return ""
}
