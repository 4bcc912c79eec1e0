package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/rackworks/rackdoc/pkg/sessiontoken"
	"github.com/rackworks/rackdoc/pkg/slogx"
)

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (sessiontoken.Claims, error)
}

// AuthnMiddleware verifies the Authorization bearer token and injects the
// subject user id into the request context. Requests without a valid token are
// rejected outright, never downgraded to limited access.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(strings.TrimSpace(strings.TrimPrefix(authz, "Bearer")))
			if err != nil {
				log.Warn("session token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx := context.WithValue(r.Context(), CtxKeyUserID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
