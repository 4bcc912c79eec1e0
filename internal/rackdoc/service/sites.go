package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/idx"
)

// SiteService manages the tenant records that memberships and invitations
// point at.
type SiteService struct {
	store store.Store
	now   func() time.Time
}

func NewSiteService(st store.Store) *SiteService {
	return &SiteService{store: st, now: time.Now}
}

type CreateSiteParams struct {
	Code string
	Name string
}

// Create registers a new site. Global admins only.
func (s *SiteService) Create(ctx context.Context, actor perm.Actor, p CreateSiteParams) (domain.Site, error) {
	if !actor.Authenticated {
		return domain.Site{}, ErrUnauthenticated
	}
	if !perm.Resolve(actor, perm.ResourceSites).Create {
		return domain.Site{}, ErrForbidden
	}

	code := strings.ToUpper(strings.TrimSpace(p.Code))
	name := strings.TrimSpace(p.Name)
	if code == "" || len(code) > 16 {
		return domain.Site{}, validationf("site code must be 1-16 characters")
	}
	if name == "" {
		return domain.Site{}, validationf("site name required")
	}

	now := s.now().UTC()
	site := domain.Site{ID: idx.New(), Code: code, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Sites().CreateSite(ctx, site); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Site{}, fmt.Errorf("%w: site code %s already exists", ErrConflict, code)
		}
		return domain.Site{}, err
	}
	return site, nil
}

// List returns all sites. Any authenticated user may read the site list.
func (s *SiteService) List(ctx context.Context, actor perm.Actor) ([]domain.Site, error) {
	if !actor.Authenticated {
		return nil, ErrUnauthenticated
	}
	if !perm.Resolve(actor, perm.ResourceSites).Read {
		return nil, ErrForbidden
	}
	return s.store.Sites().ListSites(ctx)
}

// Delete removes a site; memberships and invitation grants cascade away.
// Global admins only.
func (s *SiteService) Delete(ctx context.Context, actor perm.Actor, id idx.ID) error {
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	if !perm.Resolve(actor, perm.ResourceSites).Delete {
		return ErrForbidden
	}

	if err := s.store.Sites().DeleteSite(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
