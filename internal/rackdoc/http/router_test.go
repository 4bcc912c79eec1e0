package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rackworks/rackdoc/internal/rackdoc/mail"
	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/internal/rackdoc/store/drivers/sqlite"
	"github.com/rackworks/rackdoc/pkg/sessiontoken"
)

type testServer struct {
	srv    *httptest.Server
	store  store.Store
	mailer *mail.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := sessiontoken.NewSigner("rackdoc-test", time.Hour)
	require.NoError(t, err)

	rec := &mail.Recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(signer, "test", st, logger, nil)
	r.SessionService = service.NewSessionService(st, signer, "rackdoc-test")
	r.InviteService = service.NewInviteService(st, rec, "https://rackdoc.example.com")
	r.UserService = service.NewUserService(st)
	r.MembershipService = service.NewMembershipService(st)
	r.SiteService = service.NewSiteService(st)
	r.OverviewService = service.NewOverviewService(st, rec)
	r.ApplyRoutes()

	require.NoError(t, service.EnsureBootstrapAdmin(t.Context(), st, logger,
		"admin@example.com", "bootstrap-password"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: st, mailer: rec}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, data
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	resp, body := ts.do(t, http.MethodPost, "/v1/session/login", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "Bearer", out.TokenType)
	return out.AccessToken
}

func TestInviteFlowEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, "admin@example.com", "bootstrap-password")

	// Admin creates a site.
	resp, body := ts.do(t, http.MethodPost, "/v1/sites", adminToken,
		map[string]string{"code": "syd1", "name": "Sydney DC1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var site SiteResponse
	require.NoError(t, json.Unmarshal(body, &site))
	require.Equal(t, "SYD1", site.Code)

	// Admin issues an invitation granting SITE_USER on it.
	resp, body = ts.do(t, http.MethodPost, "/v1/invites", adminToken, map[string]any{
		"email":        "newbie@example.com",
		"display_name": "New Person",
		"assignments":  []map[string]string{{"site_id": site.ID, "site_role": "site_user"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var issued IssueInviteResponse
	require.NoError(t, json.Unmarshal(body, &issued))
	require.NotEmpty(t, issued.Token)
	require.True(t, issued.EmailSent)
	require.Equal(t, "pending", issued.Invitation.State)
	require.Len(t, ts.mailer.Sent(), 1)

	// The invitee validates the token without authenticating.
	resp, body = ts.do(t, http.MethodGet, "/v1/invites/validate?token="+issued.Token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var summary ValidateInviteResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	require.Equal(t, "newbie@example.com", summary.Email)
	require.Len(t, summary.Sites, 1)
	require.Equal(t, "SYD1", summary.Sites[0].SiteCode)

	// Accept, creating the account and memberships.
	resp, body = ts.do(t, http.MethodPost, "/v1/invites/accept", "", map[string]string{
		"token":    issued.Token,
		"password": "a-long-enough-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var accepted AcceptInviteResponse
	require.NoError(t, json.Unmarshal(body, &accepted))
	require.Equal(t, "user", accepted.User.GlobalRole)

	// Second accept must fail without creating anything.
	resp, _ = ts.do(t, http.MethodPost, "/v1/invites/accept", "", map[string]string{
		"token":    issued.Token,
		"password": "another-long-password",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// The new user logs in and sees their own memberships.
	userToken := ts.login(t, "newbie@example.com", "a-long-enough-password")
	resp, body = ts.do(t, http.MethodGet, "/v1/users/"+accepted.User.ID+"/memberships", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var ms MembershipsResponse
	require.NoError(t, json.Unmarshal(body, &ms))
	require.Len(t, ms.Memberships, 1)
	require.Equal(t, "site_user", ms.Memberships[0].SiteRole)

	// But the admin surface stays closed to them.
	resp, _ = ts.do(t, http.MethodGet, "/v1/admin/overview", userToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, "/v1/users", userToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The admin overview reflects the consumed invitation.
	resp, body = ts.do(t, http.MethodGet, "/v1/admin/overview", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var o OverviewResponse
	require.NoError(t, json.Unmarshal(body, &o))
	require.Zero(t, o.PendingInvites)
	require.True(t, o.SMTPConfigured)
}

func TestAuthenticationRequired(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/v1/users"},
		{http.MethodGet, "/v1/sites"},
		{http.MethodPost, "/v1/invites"},
		{http.MethodGet, "/v1/admin/overview"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, _ := ts.do(t, tc.method, tc.path, "", nil)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodGet, "/v1/sites", "not-a-token", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "invalid_token")
	})
}

func TestRoleAndMembershipChangesTakeImmediateEffect(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, "admin@example.com", "bootstrap-password")

	// Provision a second user through an invitation.
	resp, body := ts.do(t, http.MethodPost, "/v1/invites", adminToken,
		map[string]string{"email": "promotee@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var issued IssueInviteResponse
	require.NoError(t, json.Unmarshal(body, &issued))

	resp, body = ts.do(t, http.MethodPost, "/v1/invites/accept", "", map[string]string{
		"token":    issued.Token,
		"password": "a-long-enough-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var accepted AcceptInviteResponse
	require.NoError(t, json.Unmarshal(body, &accepted))

	userToken := ts.login(t, "promotee@example.com", "a-long-enough-password")
	resp, _ = ts.do(t, http.MethodGet, "/v1/admin/overview", userToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Promote; the very next request with the same token is authorized,
	// because roles are re-read from the store, never cached in the token.
	resp, _ = ts.do(t, http.MethodPut, "/v1/users/"+accepted.User.ID+"/role", adminToken,
		map[string]string{"global_role": "global_admin"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/v1/admin/overview", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, "admin@example.com", "bootstrap-password")

	resp, body := ts.do(t, http.MethodPost, "/v1/invites", adminToken,
		map[string]string{"email": "doomed@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var issued IssueInviteResponse
	require.NoError(t, json.Unmarshal(body, &issued))

	resp, body = ts.do(t, http.MethodPost, "/v1/invites/accept", "", map[string]string{
		"token":    issued.Token,
		"password": "a-long-enough-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var accepted AcceptInviteResponse
	require.NoError(t, json.Unmarshal(body, &accepted))

	userToken := ts.login(t, "doomed@example.com", "a-long-enough-password")

	resp, _ = ts.do(t, http.MethodDelete, "/v1/users/"+accepted.User.ID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The still-valid JWT no longer maps to an account.
	resp, _ = ts.do(t, http.MethodGet, "/v1/sites", userToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h HealthResponse
	require.NoError(t, json.Unmarshal(body, &h))
	require.Equal(t, "ok", h.Status)

	resp, body = ts.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &h))
	require.Equal(t, "ok", h.Checks.Database)
}
