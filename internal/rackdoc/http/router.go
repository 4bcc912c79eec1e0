// Package http wires the HTTP surface: routing, per-route middleware chains
// and the handlers that translate between the wire and the services.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/httpx"
	"github.com/rackworks/rackdoc/pkg/metricsx"
	"github.com/rackworks/rackdoc/pkg/slogx"

	_ "github.com/rackworks/rackdoc/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	SessionService    *service.SessionService
	InviteService     *service.InviteService
	UserService       *service.UserService
	MembershipService *service.MembershipService
	SiteService       *service.SiteService
	OverviewService   *service.OverviewService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	metrics *metricsx.Metrics,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if metrics != nil {
		// Outside the mux so it can read the matched route pattern after
		// dispatch.
		r.middlewares = append(r.middlewares, metrics.Middleware)
		r.Mux.Handle("GET /metrics", metrics.Handler())
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerInvites()
	r.registerUsers()
	r.registerSites()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			Rackdoc Authorization Service API
//	@version		0.1.0
//	@description	Authorization and invitation core of the rackdoc infrastructure documentation tool: sessions, global and site roles, site memberships and single-use invitations.
//	@description
//	@description				Session tokens are EdDSA-signed JWTs carrying only the subject user id; authorization state is re-read on every request.
//
//	@contact.name				Rackworks Team
//	@contact.url				https://github.com/rackworks/rackdoc
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured builds the standard authenticated chain: verify the bearer token,
// load the actor from current store state, then rate limit by user.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		LoadActor(r.store),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerSession() {
	login := &LoginHandler{SessionService: r.SessionService}
	totp := &TOTPHandler{SessionService: r.SessionService}

	// POST /session/login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/session/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/session/totp/enroll",
		r.secured(http.HandlerFunc(totp.HandleEnroll), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/session/totp/verify",
		r.secured(http.HandlerFunc(totp.HandleVerify), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/session/totp",
		r.secured(http.HandlerFunc(totp.HandleDisable), httpx.ModerateLimit))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService}

	r.Mux.Handle("POST /v1/invites",
		r.secured(http.HandlerFunc(h.HandleIssue), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/invites",
		r.secured(http.HandlerFunc(h.HandleList), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/invites/{id}",
		r.secured(http.HandlerFunc(h.HandleCancel), httpx.ModerateLimit))

	// Public endpoints reached from the invite email, strict by IP.
	r.Mux.Handle("GET /v1/invites/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/invites/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	users := &UsersHandler{UserService: r.UserService}
	memberships := &MembershipsHandler{MembershipService: r.MembershipService}

	r.Mux.Handle("GET /v1/users",
		r.secured(http.HandlerFunc(users.HandleList), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/users/{id}/role",
		r.secured(http.HandlerFunc(users.HandleSetRole), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{id}",
		r.secured(http.HandlerFunc(users.HandleDelete), httpx.ModerateLimit))

	r.Mux.Handle("GET /v1/users/{id}/memberships",
		r.secured(http.HandlerFunc(memberships.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/users/{id}/memberships",
		r.secured(http.HandlerFunc(memberships.HandleReplace), httpx.ModerateLimit))
}

func (r *Router) registerSites() {
	h := &SitesHandler{SiteService: r.SiteService}

	r.Mux.Handle("POST /v1/sites",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/sites",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("DELETE /v1/sites/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerAdmin() {
	h := &OverviewHandler{OverviewService: r.OverviewService}

	r.Mux.Handle("GET /v1/admin/overview",
		r.secured(h, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
