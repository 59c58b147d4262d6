// Package propertyctx carries the active hotel property through request
// context. This is scoping, not access control: handlers resolve the
// property once and every query below filters on it.
package propertyctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey struct{}

// WithPropertyID returns a context scoped to the given property.
func WithPropertyID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// PropertyIDFromContext extracts the active property, if any.
func PropertyIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(contextKey{}).(snowflake.ID)
	return id, ok
}
