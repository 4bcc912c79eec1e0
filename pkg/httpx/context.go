package httpx

import "context"

type ctxKey string

// CtxKeyUserID carries the authenticated subject's user id, set by
// AuthnMiddleware.
const CtxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated user id, or "" when the request
// is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
