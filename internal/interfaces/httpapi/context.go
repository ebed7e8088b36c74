package httpapi

import (
	"context"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
)

type contextKey string

const actorContextKey contextKey = "auth_actor"

func withActor(ctx context.Context, actor access.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// actorFromContext returns the zero actor for anonymous requests, which every
// guarded operation rejects as unauthenticated.
func actorFromContext(ctx context.Context) access.Actor {
	actor, _ := ctx.Value(actorContextKey).(access.Actor)
	return actor
}
