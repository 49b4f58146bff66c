// Package requestctx carries request-scoped actor identity.
//
// The engine itself never reads ambient session state; transports resolve
// the acting crew member and pass identity explicitly. This package exists
// for transport plumbing only.
package requestctx

import "context"

// actorIDContextKey is the context key for the acting crew member identity.
type actorIDContextKey struct{}

// WithActorID stores a crew member identifier in context.
func WithActorID(ctx context.Context, actorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorIDContextKey{}, actorID)
}

// ActorIDFromContext returns the crew member identifier stored in context.
func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(actorIDContextKey{}).(string)
	return value
}
