package httpx

import (
	"net/http"
	"strings"

	"github.com/spendtrack/spendtrack/pkg/slogx"
)

// Reason codes explain a policy decision for logging; the external response
// never carries them.
type Reason string

const (
	ReasonPublicPath       Reason = "public_path"
	ReasonRoleSatisfied    Reason = "role_satisfied"
	ReasonNoPrincipal      Reason = "no_principal"
	ReasonInsufficientRole Reason = "insufficient_role"
)

// Decision is the outcome of evaluating the policy for one request.
type Decision struct {
	Allow bool
	// Role is the role that was required, empty for public paths.
	Role   string
	Reason Reason
}

// Policy is the route access table: an exact allow-list of public paths, a
// prefix-matched administrative zone, and a default rule requiring the
// standard role for everything else. Evaluation is total — every path yields
// exactly one decision — and the evaluator imposes the match order, so rule
// authors never depend on ordering.
type Policy struct {
	PublicPaths []string // exact matches, always allowed
	AdminPrefix string   // e.g. "/admin/"
	AdminRole   string
	UserRole    string
}

// Evaluate decides whether the principal (nil when the request never
// authenticated) may access the path. Pure function, no side effects.
func (p Policy) Evaluate(path string, principal *Principal) Decision {
	for _, public := range p.PublicPaths {
		if path == public {
			return Decision{Allow: true, Reason: ReasonPublicPath}
		}
	}

	required := p.UserRole
	if p.AdminPrefix != "" && strings.HasPrefix(path, p.AdminPrefix) {
		required = p.AdminRole
	}

	switch {
	case principal == nil:
		return Decision{Allow: false, Role: required, Reason: ReasonNoPrincipal}
	case !principal.HasRole(required):
		return Decision{Allow: false, Role: required, Reason: ReasonInsufficientRole}
	default:
		return Decision{Allow: true, Role: required, Reason: ReasonRoleSatisfied}
	}
}

// PolicyMiddleware enforces the policy after authentication has run. It is
// the single stage that may terminate a request: 401 with a bearer challenge
// when no identity was established, 403 when the identity lacks the required
// role. Neither response says why authentication failed.
func PolicyMiddleware(p Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			var principal *Principal
			if pr, ok := PrincipalFromContext(ctx); ok {
				principal = &pr
			}

			decision := p.Evaluate(r.URL.Path, principal)
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			switch decision.Reason {
			case ReasonNoPrincipal:
				log.Warn("access denied: unauthenticated",
					"required_role", decision.Role,
				)
				writeBearerError(w, "authentication required")
			default:
				log.Warn("access denied: insufficient role",
					"subject", principal.Subject,
					"required_role", decision.Role,
				)
				WriteJSON(w, http.StatusForbidden, ErrorResponse{
					Error:            "access_denied",
					ErrorDescription: "insufficient role",
				})
			}
		})
	}
}

// RFC 6750-style error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:            "unauthorized",
		ErrorDescription: desc,
	})
}
