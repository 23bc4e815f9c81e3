package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spendtrack/spendtrack/pkg/jwtx"
	"github.com/spendtrack/spendtrack/pkg/slogx"
)

const bearerPrefix = "Bearer "

// IdentityLoader resolves a verified token subject into a full principal.
// Implementations return ErrUnknownSubject when no such identity exists;
// any other error is treated as a credential store failure.
type IdentityLoader interface {
	LoadPrincipal(ctx context.Context, subject string) (Principal, error)
}

// ErrUnknownSubject reports that a token's subject no longer resolves to an
// identity.
var ErrUnknownSubject = errors.New("httpx: unknown subject")

// AuthnMiddleware authenticates the request if it carries a bearer token.
// It is purely additive: a missing, malformed or expired token leaves the
// request unauthenticated and the pipeline continues — whether that matters
// is the authorization policy's call. The only failure this stage surfaces
// itself is a credential store outage, which must not masquerade as
// "unauthenticated".
func AuthnMiddleware(v jwtx.Verifier, loader IdentityLoader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			// An earlier stage already authenticated this request; never
			// overwrite its principal.
			if _, ok := PrincipalFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, bearerPrefix) {
				log.Debug("no bearer token supplied")
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, bearerPrefix))

			claims, err := v.Verify(raw)
			if err != nil {
				switch {
				case errors.Is(err, jwtx.ErrEmpty):
					log.Debug("empty bearer token")
				case errors.Is(err, jwtx.ErrExpired):
					log.Warn("token expired", "err", err)
				default:
					log.Warn("token verification failed", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			principal, err := loader.LoadPrincipal(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, ErrUnknownSubject) {
					log.Warn("token subject no longer exists", "subject", claims.Subject)
					next.ServeHTTP(w, r)
					return
				}

				log.Error("identity resolution failed", "err", err)
				WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error:            "server_error",
					ErrorDescription: "identity resolution failed",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, principal)))
		})
	}
}
