package http

import (
	"encoding/json"
	"net/http"

	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/httpx"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Verifies email and password (plus a TOTP code when the account has a second factor) and returns a bearer session token.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest		true	"Credentials"
//	@Success		200		{object}	LoginResponse		"access_token, token_type, user"
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/session/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	res, err := h.SessionService.Login(r.Context(), service.LoginParams{
		Email:    req.Email,
		Password: req.Password,
		TOTPCode: req.TOTPCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		User:        toUserResponse(res.User),
	})
}

type TOTPHandler struct {
	SessionService *service.SessionService
}

type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// HandleEnroll godoc
//
//	@Summary		TOTP Enrollment Endpoint
//	@Description	Generates a TOTP secret for the authenticated user. The second factor only becomes required after the code is verified.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	TOTPEnrollResponse	"secret, url"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/session/totp/enroll [post].
func (h *TOTPHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	enr, err := h.SessionService.EnrollTOTP(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TOTPEnrollResponse{Secret: enr.Secret, URL: enr.URL})
}

// HandleVerify godoc
//
//	@Summary		TOTP Activation Endpoint
//	@Description	Confirms the enrollment code and makes the second factor required on future logins.
//	@Tags			Session
//	@Accept			json
//	@Param			request	body	TOTPCodeRequest	true	"Code from the authenticator"
//	@Success		204
//	@Failure		400	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/session/totp/verify [post].
func (h *TOTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req TOTPCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	actor := ActorFromContext(r.Context())
	if err := h.SessionService.VerifyTOTP(r.Context(), actor.UserID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable godoc
//
//	@Summary		TOTP Removal Endpoint
//	@Description	Disables the second factor. Requires a currently valid code.
//	@Tags			Session
//	@Accept			json
//	@Param			request	body	TOTPCodeRequest	true	"Code from the authenticator"
//	@Success		204
//	@Failure		400	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/session/totp [delete].
func (h *TOTPHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	var req TOTPCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	actor := ActorFromContext(r.Context())
	if err := h.SessionService.DisableTOTP(r.Context(), actor.UserID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
