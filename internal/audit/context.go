package audit

import "context"

type actorKey struct{}

// SystemActor is recorded when no caller identity is known.
const SystemActor = "system"

// WithActor returns a context carrying the caller identity.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the caller identity stored in ctx, or SystemActor.
func ActorFrom(ctx context.Context) string {
	if ctx != nil {
		if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
			return actor
		}
	}
	return SystemActor
}
