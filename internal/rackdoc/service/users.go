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

// UserService lists and administers user accounts.
type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

type ListUsersParams struct {
	// SiteID narrows the listing to members of one site. Required for site
	// admins, optional for global admins.
	SiteID idx.ID
}

// List returns user accounts. Global admins see everyone; site admins must
// scope the listing to a site they administer.
func (s *UserService) List(ctx context.Context, actor perm.Actor, p ListUsersParams) ([]domain.User, error) {
	if !actor.Authenticated {
		return nil, ErrUnauthenticated
	}
	if !perm.Resolve(actor, perm.ResourceUsers).Read {
		return nil, ErrForbidden
	}

	if actor.GlobalRole != domain.GlobalAdmin {
		if p.SiteID.IsZero() {
			return nil, fmt.Errorf("%w: site scope required", ErrForbidden)
		}
		if !perm.CanAdministerSite(actor, p.SiteID) {
			return nil, ErrForbidden
		}
	}

	return s.store.Users().ListUsers(ctx, store.ListUsersFilter{SiteID: p.SiteID})
}

// SetGlobalRole changes a user's global role. Reserved to global admins, and
// the last remaining global admin can never be demoted.
func (s *UserService) SetGlobalRole(ctx context.Context, actor perm.Actor, userID idx.ID, role domain.GlobalRole) error {
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	if actor.GlobalRole != domain.GlobalAdmin {
		return ErrForbidden
	}
	if !role.Valid() {
		return validationf("unknown global role %q", role)
	}

	return s.store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if target.GlobalRole == role {
			return nil
		}

		if target.GlobalRole == domain.GlobalAdmin {
			n, err := tx.Users().CountGlobalAdmins(ctx)
			if err != nil {
				return err
			}
			if n <= 1 {
				return fmt.Errorf("%w: cannot demote the last global admin", ErrConflict)
			}
		}

		return tx.Users().UpdateGlobalRole(ctx, userID, role)
	})
}

// Delete removes a user account and, via cascade, their memberships. Reserved
// to global admins; self-deletion and deleting the last global admin are
// refused.
func (s *UserService) Delete(ctx context.Context, actor perm.Actor, userID idx.ID) error {
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	if !perm.Resolve(actor, perm.ResourceUsers).Delete {
		return ErrForbidden
	}
	if actor.UserID == userID {
		return fmt.Errorf("%w: cannot delete your own account", ErrConflict)
	}

	return s.store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		if target.GlobalRole == domain.GlobalAdmin {
			n, err := tx.Users().CountGlobalAdmins(ctx)
			if err != nil {
				return err
			}
			if n <= 1 {
				return fmt.Errorf("%w: cannot delete the last global admin", ErrConflict)
			}
		}

		return tx.Users().DeleteUser(ctx, userID)
	})
}
