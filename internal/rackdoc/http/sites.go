package http

import (
	"encoding/json"
	"net/http"

	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/httpx"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type SitesHandler struct {
	SiteService *service.SiteService
}

type CreateSiteRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HandleCreate godoc
//
//	@Summary		Site Creation Endpoint
//	@Description	Registers a new site (tenant). Global admins only.
//	@Tags			Sites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateSiteRequest	true	"Site code and name"
//	@Success		201		{object}	SiteResponse		"id, code, name"
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/sites [post].
func (h *SitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	site, err := h.SiteService.Create(r.Context(), ActorFromContext(r.Context()), service.CreateSiteParams{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toSiteResponse(site))
}

type ListSitesResponse struct {
	Sites []SiteResponse `json:"sites"`
}

// HandleList godoc
//
//	@Summary		Site Listing Endpoint
//	@Description	Lists all sites. Any authenticated user may read the site list.
//	@Tags			Sites
//	@Produce		json
//	@Success		200	{object}	ListSitesResponse	"sites"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/sites [get].
func (h *SitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sites, err := h.SiteService.List(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := ListSitesResponse{Sites: make([]SiteResponse, 0, len(sites))}
	for _, s := range sites {
		out.Sites = append(out.Sites, toSiteResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete godoc
//
//	@Summary		Site Deletion Endpoint
//	@Description	Deletes a site. Memberships and invitation grants on the site cascade away. Global admins only.
//	@Tags			Sites
//	@Param			id	path	string	true	"Site id"
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/sites/{id} [delete].
func (h *SitesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid site id")
		return
	}

	if err := h.SiteService.Delete(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
