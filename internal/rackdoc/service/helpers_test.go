package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/internal/rackdoc/store/drivers/sqlite"
	"github.com/rackworks/rackdoc/pkg/idx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, st store.Store, email string, role domain.GlobalRole) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New(),
		Email:        email,
		DisplayName:  "Seeded",
		PasswordHash: "$argon2id$fake",
		GlobalRole:   role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedSite(t *testing.T, st store.Store, code string) domain.Site {
	t.Helper()

	now := time.Now().UTC()
	s := domain.Site{ID: idx.New(), Code: code, Name: code + " datacentre", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Sites().CreateSite(context.Background(), s))
	return s
}

func grant(t *testing.T, st store.Store, user domain.User, assignments ...domain.SiteAssignment) {
	t.Helper()
	require.NoError(t, st.Memberships().ReplaceForUser(context.Background(), user.ID, assignments))
}

// actorFor builds the resolver view the way the HTTP layer does: from the
// user row plus freshly loaded memberships.
func actorFor(t *testing.T, st store.Store, u domain.User) perm.Actor {
	t.Helper()

	ms, err := st.Memberships().ListByUser(context.Background(), u.ID)
	require.NoError(t, err)
	return perm.Actor{
		Authenticated: true,
		UserID:        u.ID,
		GlobalRole:    u.GlobalRole,
		Memberships:   ms,
	}
}
