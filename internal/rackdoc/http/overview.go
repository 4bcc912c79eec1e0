package http

import (
	"net/http"

	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/httpx"
)

type OverviewHandler struct {
	OverviewService *service.OverviewService
}

type OverviewResponse struct {
	PendingInvites          int  `json:"pending_invites"`
	ExpiredInvites          int  `json:"expired_invites"`
	UsersWithoutMemberships int  `json:"users_without_memberships"`
	SMTPConfigured          bool `json:"smtp_configured"`
}

// ServeHTTP godoc
//
//	@Summary		Admin Overview Endpoint
//	@Description	Aggregated operational counts for the admin landing page, computed on demand.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	OverviewResponse	"pending_invites, expired_invites, users_without_memberships, smtp_configured"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/overview [get].
func (h *OverviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	o, err := h.OverviewService.Get(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, OverviewResponse{
		PendingInvites:          o.PendingInvites,
		ExpiredInvites:          o.ExpiredInvites,
		UsersWithoutMemberships: o.UsersWithoutMemberships,
		SMTPConfigured:          o.SMTPConfigured,
	})
}
