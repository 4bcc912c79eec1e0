package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/cryptox"
	"github.com/rackworks/rackdoc/pkg/idx"
	"github.com/rackworks/rackdoc/pkg/sessiontoken"
)

// SessionService authenticates credentials and mints session tokens. Tokens
// carry only the user id; authorization state is re-read on every request.
type SessionService struct {
	store  store.Store
	signer *sessiontoken.Signer
	issuer string
	now    func() time.Time
}

func NewSessionService(st store.Store, signer *sessiontoken.Signer, issuer string) *SessionService {
	return &SessionService{store: st, signer: signer, issuer: issuer, now: time.Now}
}

type LoginParams struct {
	Email    string
	Password string
	TOTPCode string
}

type LoginResult struct {
	Token string
	User  domain.User
}

// Login verifies email and password, plus a one-time code when the account
// has TOTP enrolled. All credential failures collapse to ErrUnauthenticated
// so responses do not leak which part was wrong; a missing code on an
// enrolled account is the one distinguished case.
func (s *SessionService) Login(ctx context.Context, p LoginParams) (LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(p.Email))

	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrUnauthenticated
		}
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(p.Password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, ErrUnauthenticated
		}
		return LoginResult{}, err
	}

	if user.HasTOTP() {
		if p.TOTPCode == "" {
			return LoginResult{}, ErrTOTPRequired
		}
		if !totp.Validate(p.TOTPCode, user.TOTPSecret) {
			return LoginResult{}, ErrUnauthenticated
		}
	}

	token, err := s.signer.Mint(user.ID.String(), s.now())
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user}, nil
}

type TOTPEnrollment struct {
	Secret string
	// URL is the otpauth:// provisioning URI encoded into authenticator QR
	// codes.
	URL string
}

// EnrollTOTP generates and stores a fresh TOTP secret for the user. The
// second factor only becomes required once VerifyTOTP confirms the
// authenticator produces matching codes.
func (s *SessionService) EnrollTOTP(ctx context.Context, userID idx.ID) (TOTPEnrollment, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TOTPEnrollment{}, ErrNotFound
		}
		return TOTPEnrollment{}, err
	}
	if user.HasTOTP() {
		return TOTPEnrollment{}, fmt.Errorf("%w: totp already enabled", ErrConflict)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return TOTPEnrollment{}, err
	}

	if err := s.store.Users().UpdateTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return TOTPEnrollment{}, err
	}
	return TOTPEnrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// VerifyTOTP confirms the enrollment code and activates the second factor.
func (s *SessionService) VerifyTOTP(ctx context.Context, userID idx.ID, code string) error {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.TOTPSecret == "" {
		return validationf("no pending totp enrollment")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return validationf("totp code does not match")
	}
	return s.store.Users().EnableTOTP(ctx, userID)
}

// DisableTOTP removes the second factor. Requires a currently valid code so a
// hijacked session cannot silently weaken the account.
func (s *SessionService) DisableTOTP(ctx context.Context, userID idx.ID, code string) error {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !user.HasTOTP() {
		return validationf("totp is not enabled")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return validationf("totp code does not match")
	}
	return s.store.Users().DisableTOTP(ctx, userID)
}
