package httpx

import (
	"context"
	"slices"
)

// Principal is the authenticated identity attached to a request's context:
// the token subject plus the role set resolved from the credential store at
// request time. It is immutable once attached and lives only as long as the
// request.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal holds the named role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

// ContextWithPrincipal attaches a principal to the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the request principal, if one was attached.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
