package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/mail"
	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/idx"
)

func seedRawInvitation(t *testing.T, st store.Store, email string, expiresAt time.Time) domain.Invitation {
	t.Helper()

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        idx.New(),
		Email:     email,
		TokenHash: "hash-" + idx.New().String(),
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Invitations().CreateInvitation(context.Background(), inv))
	return inv
}

func TestOverview(t *testing.T) {
	st := newTestStore(t)
	rec := &mail.Recorder{}
	svc := NewOverviewService(st, rec)
	ctx := context.Background()
	now := time.Now().UTC()

	site := seedSite(t, st, "SYD1")
	admin := seedUser(t, st, "admin@example.com", domain.GlobalAdmin)
	withSite := seedUser(t, st, "member@example.com", domain.GlobalUser)
	grant(t, st, withSite, domain.SiteAssignment{SiteID: site.ID, SiteRole: domain.SiteUser})
	seedUser(t, st, "floating@example.com", domain.GlobalUser)

	seedRawInvitation(t, st, "p1@example.com", now.Add(time.Hour))
	seedRawInvitation(t, st, "p2@example.com", now.Add(time.Hour))
	seedRawInvitation(t, st, "e1@example.com", now.Add(-time.Hour))

	o, err := svc.Get(ctx, actorFor(t, st, admin))
	require.NoError(t, err)
	require.Equal(t, 2, o.PendingInvites)
	require.Equal(t, 1, o.ExpiredInvites)
	// admin and floating both hold no memberships.
	require.Equal(t, 2, o.UsersWithoutMemberships)
	require.True(t, o.SMTPConfigured)

	t.Run("reflects mailer configuration", func(t *testing.T) {
		rec.Unconfigured = true
		o, err := svc.Get(ctx, actorFor(t, st, admin))
		require.NoError(t, err)
		require.False(t, o.SMTPConfigured)
	})

	t.Run("site admins may read it", func(t *testing.T) {
		sa := seedUser(t, st, "siteadmin@example.com", domain.GlobalUser)
		grant(t, st, sa, domain.SiteAssignment{SiteID: site.ID, SiteRole: domain.SiteAdmin})
		_, err := svc.Get(ctx, actorFor(t, st, sa))
		require.NoError(t, err)
	})

	t.Run("regular users may not", func(t *testing.T) {
		_, err := svc.Get(ctx, actorFor(t, st, withSite))
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Get(ctx, perm.Anonymous)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}
