package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/httpx"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type InvitesHandler struct {
	InviteService *service.InviteService
}

type IssueInviteRequest struct {
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name,omitempty"`
	Assignments []AssignmentRequest `json:"assignments,omitempty"`
}

type IssueInviteResponse struct {
	Invitation InvitationResponse `json:"invitation"`
	Token      string             `json:"token"`
	AcceptURL  string             `json:"accept_url"`
	EmailSent  bool               `json:"email_sent"`
	EmailError string             `json:"email_error,omitempty"`
}

// HandleIssue godoc
//
//	@Summary		Invitation Issue Endpoint
//	@Description	Creates a single-use, time-boxed invitation and emails the accept link. The plaintext token appears only in this response.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		IssueInviteRequest	true	"Invitee and site grants"
//	@Success		201		{object}	IssueInviteResponse	"invitation, token, accept_url, email_sent"
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InvitesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req IssueInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	assignments, err := parseAssignments(req.Assignments)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.InviteService.Issue(r.Context(), ActorFromContext(r.Context()), service.IssueInviteParams{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Assignments: assignments,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, IssueInviteResponse{
		Invitation: toInvitationResponse(res.Invitation, time.Now()),
		Token:      res.Token,
		AcceptURL:  res.AcceptURL,
		EmailSent:  res.EmailSent,
		EmailError: res.EmailError,
	})
}

type ListInvitesResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

// HandleList godoc
//
//	@Summary		Invitation Listing Endpoint
//	@Description	Lists invitations with their derived state. Site admins only see invitations entirely within their administered sites.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	ListInvitesResponse	"invitations"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	invs, err := h.InviteService.List(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := time.Now()
	out := ListInvitesResponse{Invitations: make([]InvitationResponse, 0, len(invs))}
	for _, inv := range invs {
		out.Invitations = append(out.Invitations, toInvitationResponse(inv, now))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type ValidateInviteResponse struct {
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name,omitempty"`
	Sites       []InviteSiteSummary `json:"sites"`
	ExpiresAt   string              `json:"expires_at"`
}

type InviteSiteSummary struct {
	SiteID   string `json:"site_id"`
	SiteCode string `json:"site_code"`
	SiteName string `json:"site_name"`
	SiteRole string `json:"site_role"`
}

// HandleValidate godoc
//
//	@Summary		Invitation Validation Endpoint
//	@Description	Resolves a plaintext invitation token to a pre-acceptance summary. Expired and used invitations return distinct errors.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	query		string					true	"Invitation token"
//	@Success		200		{object}	ValidateInviteResponse	"email, sites, expires_at"
//	@Failure		404		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		410		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/invites/validate [get].
func (h *InvitesHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	sum, err := h.InviteService.Validate(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := ValidateInviteResponse{
		Email:       sum.Email,
		DisplayName: sum.DisplayName,
		Sites:       make([]InviteSiteSummary, 0, len(sum.Sites)),
		ExpiresAt:   sum.ExpiresAt.UTC().Format(time.RFC3339),
	}
	for _, s := range sum.Sites {
		out.Sites = append(out.Sites, InviteSiteSummary{
			SiteID:   s.SiteID.String(),
			SiteCode: s.SiteCode,
			SiteName: s.SiteName,
			SiteRole: string(s.SiteRole),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type AcceptInviteRequest struct {
	Token       string `json:"token"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type AcceptInviteResponse struct {
	User UserResponse `json:"user"`
}

// HandleAccept godoc
//
//	@Summary		Invitation Acceptance Endpoint
//	@Description	Consumes the invitation and provisions the account plus site memberships atomically. A concurrent double-accept creates exactly one account.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AcceptInviteRequest		true	"Token and chosen password"
//	@Success		201		{object}	AcceptInviteResponse	"user"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		410		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/invites/accept [post].
func (h *InvitesHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	user, err := h.InviteService.Accept(r.Context(), service.AcceptInviteParams{
		Token:       req.Token,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, AcceptInviteResponse{User: toUserResponse(user)})
}

// HandleCancel godoc
//
//	@Summary		Invitation Cancellation Endpoint
//	@Description	Deletes an unaccepted invitation. Accepted invitations refuse deletion.
//	@Tags			Invitations
//	@Param			id	path	string	true	"Invitation id"
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/{id} [delete].
func (h *InvitesHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid invitation id")
		return
	}

	if err := h.InviteService.Cancel(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseAssignments converts wire assignments into domain values, validating
// only the id syntax; semantic checks belong to the services.
func parseAssignments(in []AssignmentRequest) ([]domain.SiteAssignment, error) {
	out := make([]domain.SiteAssignment, 0, len(in))
	for _, a := range in {
		siteID, err := idx.Parse(a.SiteID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SiteAssignment{
			SiteID:   siteID,
			SiteRole: domain.SiteRole(a.SiteRole),
		})
	}
	return out, nil
}
