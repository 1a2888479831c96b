package actors

import "context"

// Actor identifies who triggered an operation: the token issuer and the client family
// parsed from the User-Agent header.
type Actor struct {
	Name   string
	Client string
}

type actorCtxKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// FromContext returns the actor stored in ctx, or the zero Actor.
func FromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorCtxKey{}).(Actor)
	return actor
}
