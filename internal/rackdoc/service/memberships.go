package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/idx"
)

// MembershipService reads and replaces a user's site memberships.
type MembershipService struct {
	store store.Store
}

func NewMembershipService(st store.Store) *MembershipService {
	return &MembershipService{store: st}
}

// Get returns the target user's memberships joined with site details. Users
// may read their own; admins may read anyone's.
func (s *MembershipService) Get(ctx context.Context, actor perm.Actor, userID idx.ID) ([]domain.SiteMembership, error) {
	if !actor.Authenticated {
		return nil, ErrUnauthenticated
	}
	if actor.UserID != userID && !perm.IsAdmin(actor) {
		return nil, ErrForbidden
	}

	if _, err := s.store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.store.Memberships().ListByUser(ctx, userID)
}

// Replace sets the target user's memberships to exactly the given list,
// atomically. Global admins replace wholesale. Site admins may only shape the
// slice of the list that falls on sites they administer: assignments on other
// sites are preserved as they are, and a request that tries to change one of
// them is forbidden. Memberships of a global admin cannot be touched by site
// admins at all.
func (s *MembershipService) Replace(ctx context.Context, actor perm.Actor, userID idx.ID, assignments []domain.SiteAssignment) error {
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	if !perm.Resolve(actor, perm.ResourceUsers).Update {
		return ErrForbidden
	}

	if err := validateAssignmentList(assignments); err != nil {
		return err
	}

	return s.store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		for _, a := range assignments {
			if _, err := tx.Sites().GetSiteByID(ctx, a.SiteID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return validationf("unknown site %s", a.SiteID)
				}
				return err
			}
		}

		if actor.GlobalRole == domain.GlobalAdmin {
			return tx.Memberships().ReplaceForUser(ctx, userID, assignments)
		}

		if target.GlobalRole == domain.GlobalAdmin {
			return fmt.Errorf("%w: cannot modify a global admin's memberships", ErrForbidden)
		}

		current, err := tx.Memberships().ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		merged, err := mergeForSiteAdmin(actor, current, assignments)
		if err != nil {
			return err
		}
		return tx.Memberships().ReplaceForUser(ctx, userID, merged)
	})
}

// mergeForSiteAdmin computes the effective replacement list for a site-admin
// actor: requested assignments on administered sites, plus the target's
// untouched assignments on every other site.
func mergeForSiteAdmin(actor perm.Actor, current []domain.SiteMembership, requested []domain.SiteAssignment) ([]domain.SiteAssignment, error) {
	administered := perm.AdministeredSites(actor)

	currentBySite := make(map[idx.ID]domain.SiteRole, len(current))
	for _, m := range current {
		currentBySite[m.SiteID] = m.SiteRole
	}

	var merged []domain.SiteAssignment
	for _, a := range requested {
		if _, ok := administered[a.SiteID]; ok {
			merged = append(merged, a)
			continue
		}
		// Echoing an existing out-of-scope assignment unchanged is fine,
		// changing or adding one is not.
		if role, exists := currentBySite[a.SiteID]; exists && role == a.SiteRole {
			merged = append(merged, a)
			continue
		}
		return nil, fmt.Errorf("%w: assignment targets a site you do not administer", ErrForbidden)
	}

	requestedSites := make(map[idx.ID]struct{}, len(requested))
	for _, a := range requested {
		requestedSites[a.SiteID] = struct{}{}
	}

	// Preserve out-of-scope assignments the request omitted; omitting an
	// administered one means removal, which is the point of a full replace.
	for _, m := range current {
		if _, inScope := administered[m.SiteID]; inScope {
			continue
		}
		if _, echoed := requestedSites[m.SiteID]; echoed {
			continue
		}
		merged = append(merged, domain.SiteAssignment{SiteID: m.SiteID, SiteRole: m.SiteRole})
	}
	return merged, nil
}

func validateAssignmentList(assignments []domain.SiteAssignment) error {
	seen := make(map[idx.ID]struct{}, len(assignments))
	for _, a := range assignments {
		if a.SiteID.IsZero() {
			return validationf("assignment missing site id")
		}
		if !a.SiteRole.Valid() {
			return validationf("unknown site role %q", a.SiteRole)
		}
		if _, dup := seen[a.SiteID]; dup {
			return validationf("duplicate site in assignments")
		}
		seen[a.SiteID] = struct{}{}
	}
	return nil
}
