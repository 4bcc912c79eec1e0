package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/cryptox"
)

func TestEnsureBootstrapAdmin(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	log := slog.Default()

	require.NoError(t, EnsureBootstrapAdmin(ctx, st, log, "root@example.com", "initial-admin-password"))

	admin, err := st.Users().GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.GlobalAdmin, admin.GlobalRole)
	require.NoError(t, cryptox.VerifyPassword("initial-admin-password", admin.PasswordHash))

	t.Run("no-op once users exist", func(t *testing.T) {
		require.NoError(t, EnsureBootstrapAdmin(ctx, st, log, "other@example.com", "another-long-password"))
		_, err := st.Users().GetUserByEmail(ctx, "other@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestEnsureBootstrapAdminValidation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	log := slog.Default()

	require.Error(t, EnsureBootstrapAdmin(ctx, st, log, "not-an-email", "long-enough-password"))
	require.Error(t, EnsureBootstrapAdmin(ctx, st, log, "root@example.com", "short"))
}
