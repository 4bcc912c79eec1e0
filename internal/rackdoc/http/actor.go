package http

import (
	"context"
	"net/http"

	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/httpx"
	"github.com/rackworks/rackdoc/pkg/idx"
	"github.com/rackworks/rackdoc/pkg/slogx"
)

type actorCtxKey struct{}

// ActorFromContext returns the resolver view of the caller, or the anonymous
// actor when none was attached.
func ActorFromContext(ctx context.Context) perm.Actor {
	if a, ok := ctx.Value(actorCtxKey{}).(perm.Actor); ok {
		return a
	}
	return perm.Anonymous
}

// LoadActor builds the perm.Actor for the authenticated subject by re-reading
// the user row and membership set from the store. Nothing authorization-
// relevant is cached in the token, so role and membership changes take effect
// on the very next request. Runs after AuthnMiddleware.
func LoadActor(st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, err := idx.Parse(httpx.UserIDFromContext(ctx))
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
				return
			}

			user, err := st.Users().GetUserByID(ctx, userID)
			if err != nil {
				// Token outlived the account.
				slogx.FromContext(ctx).Warn("session subject no longer exists", "user_id", userID)
				httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "Account no longer exists")
				return
			}

			memberships, err := st.Memberships().ListByUser(ctx, userID)
			if err != nil {
				slogx.FromContext(ctx).Error("loading memberships failed", "err", err)
				httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Something went wrong")
				return
			}

			actor := perm.Actor{
				Authenticated: true,
				UserID:        user.ID,
				GlobalRole:    user.GlobalRole,
				Memberships:   memberships,
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, actorCtxKey{}, actor)))
		})
	}
}
