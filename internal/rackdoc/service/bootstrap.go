package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/badoux/checkmail"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/cryptox"
	"github.com/rackworks/rackdoc/pkg/idx"
)

// EnsureBootstrapAdmin creates the first global admin on an empty database so
// a fresh deployment has someone who can issue invitations. It does nothing
// once any user exists.
func EnsureBootstrapAdmin(ctx context.Context, st store.Store, log *slog.Logger, email, password string) error {
	empty, err := st.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return fmt.Errorf("bootstrap admin email %q invalid: %w", email, err)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("bootstrap admin password must be at least %d characters", MinPasswordLength)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           idx.New(),
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: hash,
		GlobalRole:   domain.GlobalAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.Users().CreateUser(ctx, admin); err != nil {
		return err
	}

	log.Info("bootstrap admin created", slog.String("email", email), slog.String("user_id", admin.ID.String()))
	return nil
}
