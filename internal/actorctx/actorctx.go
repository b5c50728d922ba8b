package actorctx

import "context"

type ctxKey string

const keyPrincipal ctxKey = "principal"

// Principal is the authenticated identity for the remainder of a request.
type Principal struct {
	Email string
	Roles []string
}

func (p Principal) HasAnyRole(roles ...string) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(keyPrincipal).(Principal)

	return p, ok && p.Email != ""
}
