package http

import (
	"errors"
	"net/http"

	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/httpx"
	"github.com/rackworks/rackdoc/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses. The
// mapping is 1:1 and lives only here; services never see status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
	case errors.Is(err, service.ErrTOTPRequired):
		httpx.WriteError(w, http.StatusUnauthorized, "totp_required", "A one-time code is required for this account")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "You are not allowed to do that")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "The requested resource does not exist")
	case errors.Is(err, service.ErrExpired):
		httpx.WriteError(w, http.StatusGone, "expired", "The invitation has expired")
	case errors.Is(err, service.ErrAlreadyUsed):
		httpx.WriteError(w, http.StatusConflict, "already_used", "The invitation has already been used")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Something went wrong")
	}
}

func writeInvalidJSON(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
}
