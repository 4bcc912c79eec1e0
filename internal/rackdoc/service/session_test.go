package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/cryptox"
	"github.com/rackworks/rackdoc/pkg/idx"
	"github.com/rackworks/rackdoc/pkg/sessiontoken"
)

func newSessionService(t *testing.T) (*SessionService, store.Store, *sessiontoken.Signer) {
	t.Helper()

	st := newTestStore(t)
	signer, err := sessiontoken.NewSigner("rackdoc-test", time.Hour)
	require.NoError(t, err)
	return NewSessionService(st, signer, "rackdoc-test"), st, signer
}

func seedCredentialUser(t *testing.T, st store.Store, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New(),
		Email:        email,
		DisplayName:  "Login User",
		PasswordHash: hash,
		GlobalRole:   domain.GlobalUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	svc, st, signer := newSessionService(t)
	ctx := context.Background()

	u := seedCredentialUser(t, st, "login@example.com", "a-long-enough-password")

	t.Run("success mints a token carrying only the subject", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginParams{Email: "Login@Example.com", Password: "a-long-enough-password"})
		require.NoError(t, err)
		require.Equal(t, u.ID, res.User.ID)

		claims, err := signer.Verify(res.Token)
		require.NoError(t, err)
		require.Equal(t, u.ID.String(), claims.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Email: "login@example.com", Password: "wrong-password-here"})
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown email indistinguishable from wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "whatever-password"})
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestLoginWithTOTP(t *testing.T) {
	svc, st, _ := newSessionService(t)
	ctx := context.Background()

	u := seedCredentialUser(t, st, "mfa@example.com", "a-long-enough-password")

	enr, err := svc.EnrollTOTP(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enr.Secret)
	require.Contains(t, enr.URL, "otpauth://totp/")

	t.Run("enrollment inactive until verified", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Email: "mfa@example.com", Password: "a-long-enough-password"})
		require.NoError(t, err, "second factor not yet required")
	})

	code, err := totp.GenerateCode(enr.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyTOTP(ctx, u.ID, code))

	t.Run("code now required", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Email: "mfa@example.com", Password: "a-long-enough-password"})
		require.ErrorIs(t, err, ErrTOTPRequired)
	})

	t.Run("bad code rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{
			Email: "mfa@example.com", Password: "a-long-enough-password", TOTPCode: "000000",
		})
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("valid code accepted", func(t *testing.T) {
		code, err := totp.GenerateCode(enr.Secret, time.Now())
		require.NoError(t, err)
		_, err = svc.Login(ctx, LoginParams{
			Email: "mfa@example.com", Password: "a-long-enough-password", TOTPCode: code,
		})
		require.NoError(t, err)
	})

	t.Run("re-enrollment refused while active", func(t *testing.T) {
		_, err := svc.EnrollTOTP(ctx, u.ID)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("disable requires a valid code", func(t *testing.T) {
		err := svc.DisableTOTP(ctx, u.ID, "000000")
		require.ErrorIs(t, err, ErrValidation)

		code, err := totp.GenerateCode(enr.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.DisableTOTP(ctx, u.ID, code))

		_, err = svc.Login(ctx, LoginParams{Email: "mfa@example.com", Password: "a-long-enough-password"})
		require.NoError(t, err)
	})
}

func TestVerifyTOTPWithoutEnrollment(t *testing.T) {
	svc, st, _ := newSessionService(t)
	u := seedCredentialUser(t, st, "plain@example.com", "a-long-enough-password")

	err := svc.VerifyTOTP(context.Background(), u.ID, "123456")
	require.ErrorIs(t, err, ErrValidation)
}
