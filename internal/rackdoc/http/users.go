package http

import (
	"encoding/json"
	"net/http"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/httpx"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type UsersHandler struct {
	UserService *service.UserService
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// HandleList godoc
//
//	@Summary		User Listing Endpoint
//	@Description	Lists user accounts. Global admins list everyone, site admins must scope with ?site_id= to a site they administer.
//	@Tags			Users
//	@Produce		json
//	@Param			site_id	query		string				false	"Restrict to members of this site"
//	@Success		200		{object}	ListUsersResponse	"users"
//	@Failure		401		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var params service.ListUsersParams
	if raw := r.URL.Query().Get("site_id"); raw != "" {
		siteID, err := idx.Parse(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid site_id")
			return
		}
		params.SiteID = siteID
	}

	users, err := h.UserService.List(r.Context(), ActorFromContext(r.Context()), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type SetGlobalRoleRequest struct {
	GlobalRole string `json:"global_role"`
}

// HandleSetRole godoc
//
//	@Summary		Global Role Endpoint
//	@Description	Sets a user's global role. Reserved to global admins; the last global admin can never be demoted.
//	@Tags			Users
//	@Accept			json
//	@Param			id		path	string					true	"User id"
//	@Param			request	body	SetGlobalRoleRequest	true	"New global role"
//	@Success		204
//	@Failure		400	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/role [put].
func (h *UsersHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req SetGlobalRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	err = h.UserService.SetGlobalRole(r.Context(), ActorFromContext(r.Context()),
		id, domain.GlobalRole(req.GlobalRole))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary		User Deletion Endpoint
//	@Description	Deletes a user account; memberships cascade away. Self-deletion and deleting the last global admin are refused.
//	@Tags			Users
//	@Param			id	path	string	true	"User id"
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	if err := h.UserService.Delete(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
