package policies

import (
	"context"
	"errors"
)

var ErrForbidden = errors.New("policies: action not permitted")

// Actor is the authenticated principal attempting an action.
type Actor struct {
	ID    string
	Name  string
	Roles []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Resource identifies what the action targets.
type Resource struct {
	Kind    string
	ID      string
	OwnerID string
}

// Authorizer is the single permission oracle. State machine guards and
// handlers consult it instead of hardcoding role comparisons.
type Authorizer interface {
	Check(ctx context.Context, actor Actor, action string, resource Resource) bool
}

type actorCtxKey struct{}

// ContextWithActor stores the authenticated actor in context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext retrieves the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	val := ctx.Value(actorCtxKey{})
	if val == nil {
		return Actor{}, false
	}
	actor, ok := val.(Actor)
	return actor, ok
}
