package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/pkg/idx"
)

func TestListUsers(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st)
	ctx := context.Background()

	site := seedSite(t, st, "SYD1")
	admin := seedUser(t, st, "admin@example.com", domain.GlobalAdmin)
	siteAdmin := seedUser(t, st, "siteadmin@example.com", domain.GlobalUser)
	grant(t, st, siteAdmin, domain.SiteAssignment{SiteID: site.ID, SiteRole: domain.SiteAdmin})
	outsider := seedUser(t, st, "outsider@example.com", domain.GlobalUser)

	t.Run("global admin lists everyone", func(t *testing.T) {
		users, err := svc.List(ctx, actorFor(t, st, admin), ListUsersParams{})
		require.NoError(t, err)
		require.Len(t, users, 3)
	})

	t.Run("global admin may filter by site", func(t *testing.T) {
		users, err := svc.List(ctx, actorFor(t, st, admin), ListUsersParams{SiteID: site.ID})
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, siteAdmin.ID, users[0].ID)
	})

	t.Run("site admin must scope to an administered site", func(t *testing.T) {
		_, err := svc.List(ctx, actorFor(t, st, siteAdmin), ListUsersParams{})
		require.ErrorIs(t, err, ErrForbidden)

		users, err := svc.List(ctx, actorFor(t, st, siteAdmin), ListUsersParams{SiteID: site.ID})
		require.NoError(t, err)
		require.Len(t, users, 1)
	})

	t.Run("site admin cannot scope to a foreign site", func(t *testing.T) {
		foreign := seedSite(t, st, "MEL1")
		_, err := svc.List(ctx, actorFor(t, st, siteAdmin), ListUsersParams{SiteID: foreign.ID})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		_, err := svc.List(ctx, actorFor(t, st, outsider), ListUsersParams{SiteID: site.ID})
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestSetGlobalRole(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st)
	ctx := context.Background()

	admin := seedUser(t, st, "admin@example.com", domain.GlobalAdmin)
	target := seedUser(t, st, "target@example.com", domain.GlobalUser)

	t.Run("promote", func(t *testing.T) {
		require.NoError(t, svc.SetGlobalRole(ctx, actorFor(t, st, admin), target.ID, domain.GlobalAdmin))
		got, err := st.Users().GetUserByID(ctx, target.ID)
		require.NoError(t, err)
		require.Equal(t, domain.GlobalAdmin, got.GlobalRole)
	})

	t.Run("demote while another admin remains", func(t *testing.T) {
		require.NoError(t, svc.SetGlobalRole(ctx, actorFor(t, st, admin), target.ID, domain.GlobalUser))
	})

	t.Run("last admin cannot be demoted", func(t *testing.T) {
		err := svc.SetGlobalRole(ctx, actorFor(t, st, admin), admin.ID, domain.GlobalUser)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("reserved to global admins", func(t *testing.T) {
		err := svc.SetGlobalRole(ctx, actorFor(t, st, target), admin.ID, domain.GlobalUser)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid role", func(t *testing.T) {
		err := svc.SetGlobalRole(ctx, actorFor(t, st, admin), target.ID, domain.GlobalRole("superuser"))
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown target", func(t *testing.T) {
		err := svc.SetGlobalRole(ctx, actorFor(t, st, admin), idx.New(), domain.GlobalAdmin)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st)
	ctx := context.Background()

	site := seedSite(t, st, "SYD1")
	admin := seedUser(t, st, "admin@example.com", domain.GlobalAdmin)
	target := seedUser(t, st, "target@example.com", domain.GlobalUser)
	grant(t, st, target, domain.SiteAssignment{SiteID: site.ID, SiteRole: domain.SiteUser})

	t.Run("self-delete refused", func(t *testing.T) {
		err := svc.Delete(ctx, actorFor(t, st, admin), admin.ID)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("site admins cannot delete users", func(t *testing.T) {
		siteAdmin := seedUser(t, st, "siteadmin@example.com", domain.GlobalUser)
		grant(t, st, siteAdmin, domain.SiteAssignment{SiteID: site.ID, SiteRole: domain.SiteAdmin})
		err := svc.Delete(ctx, actorFor(t, st, siteAdmin), target.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delete cascades memberships", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, actorFor(t, st, admin), target.ID))

		ms, err := st.Memberships().ListByUser(ctx, target.ID)
		require.NoError(t, err)
		require.Empty(t, ms)
	})

	t.Run("last global admin cannot be deleted", func(t *testing.T) {
		// A different global-admin caller, so the self-delete guard is not
		// the one firing.
		other := perm.Actor{Authenticated: true, UserID: idx.New(), GlobalRole: domain.GlobalAdmin}

		err := svc.Delete(ctx, other, admin.ID)
		require.ErrorIs(t, err, ErrConflict)

		_, err = st.Users().GetUserByID(ctx, admin.ID)
		require.NoError(t, err)
	})
}
