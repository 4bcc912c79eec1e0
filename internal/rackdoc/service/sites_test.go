package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
)

func TestSiteCreate(t *testing.T) {
	st := newTestStore(t)
	svc := NewSiteService(st)

	admin := seedUser(t, st, "admin@example.com", domain.GlobalAdmin)
	user := seedUser(t, st, "user@example.com", domain.GlobalUser)

	t.Run("normalizes code to upper case", func(t *testing.T) {
		site, err := svc.Create(t.Context(), actorFor(t, st, admin),
			CreateSiteParams{Code: " syd1 ", Name: "Sydney DC1"})
		require.NoError(t, err)
		require.Equal(t, "SYD1", site.Code)
	})

	t.Run("duplicate code conflicts regardless of case", func(t *testing.T) {
		_, err := svc.Create(t.Context(), actorFor(t, st, admin),
			CreateSiteParams{Code: "Syd1", Name: "Sydney again"})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("rejects empty and oversized codes", func(t *testing.T) {
		_, err := svc.Create(t.Context(), actorFor(t, st, admin),
			CreateSiteParams{Code: "", Name: "nameless"})
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Create(t.Context(), actorFor(t, st, admin),
			CreateSiteParams{Code: "ABCDEFGHIJKLMNOPQ", Name: "too long"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("regular users cannot create sites", func(t *testing.T) {
		_, err := svc.Create(t.Context(), actorFor(t, st, user),
			CreateSiteParams{Code: "MEL1", Name: "Melbourne"})
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestSiteListAndDelete(t *testing.T) {
	st := newTestStore(t)
	svc := NewSiteService(st)

	admin := seedUser(t, st, "admin@example.com", domain.GlobalAdmin)
	member := seedUser(t, st, "member@example.com", domain.GlobalUser)

	syd := seedSite(t, st, "SYD1")
	seedSite(t, st, "MEL1")
	grant(t, st, member, domain.SiteAssignment{SiteID: syd.ID, SiteRole: domain.SiteUser})

	t.Run("any authenticated user sees every site", func(t *testing.T) {
		sites, err := svc.List(t.Context(), actorFor(t, st, member))
		require.NoError(t, err)
		require.Len(t, sites, 2)
	})

	t.Run("delete cascades the member's assignment", func(t *testing.T) {
		require.NoError(t, svc.Delete(t.Context(), actorFor(t, st, admin), syd.ID))

		ms, err := st.Memberships().ListByUser(t.Context(), member.ID)
		require.NoError(t, err)
		require.Empty(t, ms)
	})

	t.Run("deleting a missing site reports not found", func(t *testing.T) {
		err := svc.Delete(t.Context(), actorFor(t, st, admin), syd.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("members cannot delete sites", func(t *testing.T) {
		err := svc.Delete(t.Context(), actorFor(t, st, member), seedSite(t, st, "BNE1").ID)
		require.ErrorIs(t, err, ErrForbidden)
	})
}
