package service

import (
	"context"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/mail"
	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
)

// OverviewService aggregates the counts shown on the admin landing page.
// Everything is computed on demand; nothing here is cached or persisted.
type OverviewService struct {
	store  store.Store
	mailer mail.Mailer
	now    func() time.Time
}

func NewOverviewService(st store.Store, mailer mail.Mailer) *OverviewService {
	return &OverviewService{store: st, mailer: mailer, now: time.Now}
}

type Overview struct {
	PendingInvites          int
	ExpiredInvites          int
	UsersWithoutMemberships int
	SMTPConfigured          bool
}

// Get computes the overview for any admin-surface actor.
func (s *OverviewService) Get(ctx context.Context, actor perm.Actor) (Overview, error) {
	if !actor.Authenticated {
		return Overview{}, ErrUnauthenticated
	}
	if !perm.Resolve(actor, perm.ResourceAdmin).Read {
		return Overview{}, ErrForbidden
	}

	now := s.now()
	var o Overview
	var err error

	if o.PendingInvites, err = s.store.Invitations().CountPending(ctx, now); err != nil {
		return Overview{}, err
	}
	if o.ExpiredInvites, err = s.store.Invitations().CountExpired(ctx, now); err != nil {
		return Overview{}, err
	}
	if o.UsersWithoutMemberships, err = s.store.Users().CountWithoutMemberships(ctx); err != nil {
		return Overview{}, err
	}
	o.SMTPConfigured = s.mailer.Configured()
	return o, nil
}
