package http

import (
	"encoding/json"
	"net/http"

	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/httpx"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type MembershipsHandler struct {
	MembershipService *service.MembershipService
}

type MembershipsResponse struct {
	Memberships []MembershipResponse `json:"memberships"`
}

// HandleGet godoc
//
//	@Summary		Membership Listing Endpoint
//	@Description	Returns the target user's site memberships joined with site details. Users read their own, admins anyone's.
//	@Tags			Memberships
//	@Produce		json
//	@Param			id	path		string				true	"User id"
//	@Success		200	{object}	MembershipsResponse	"memberships"
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/memberships [get].
func (h *MembershipsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	ms, err := h.MembershipService.Get(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MembershipsResponse{Memberships: toMembershipResponses(ms)})
}

type ReplaceMembershipsRequest struct {
	Assignments []AssignmentRequest `json:"assignments"`
}

// HandleReplace godoc
//
//	@Summary		Membership Replacement Endpoint
//	@Description	Atomically replaces the target user's memberships. Site admins may only shape assignments on sites they administer; everything else is preserved as-is.
//	@Tags			Memberships
//	@Accept			json
//	@Param			id		path	string						true	"User id"
//	@Param			request	body	ReplaceMembershipsRequest	true	"Full desired assignment list"
//	@Success		204
//	@Failure		400	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/memberships [put].
func (h *MembershipsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req ReplaceMembershipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	assignments, err := parseAssignments(req.Assignments)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.MembershipService.Replace(r.Context(), ActorFromContext(r.Context()), id, assignments); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
