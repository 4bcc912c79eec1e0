package store

import (
	"context"
	"errors"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrAlreadyConsumed is returned by ConsumeInvitation when the
	// compare-and-set on accepted_at finds the invitation already accepted.
	ErrAlreadyConsumed = errors.New("store: invitation already consumed")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement it. Sub-repositories keep concerns tidy and stop
// callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	Sites() Sites
	Memberships() Memberships
	Invitations() Invitations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store. The
	// caller MUST Commit() or Rollback() the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns nil
	// and rolling back otherwise. This is the recommended way to run the
	// multi-step writes (membership replace, invitation accept) atomically.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store with Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// ListUsersFilter narrows ListUsers. The zero value lists everyone.
type ListUsersFilter struct {
	// SiteID restricts to users holding a membership on the site.
	SiteID idx.ID
}

type Users interface {
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists when the email
	// is already taken.
	CreateUser(ctx context.Context, u domain.User) error

	ListUsers(ctx context.Context, filter ListUsersFilter) ([]domain.User, error)

	UpdateGlobalRole(ctx context.Context, userID idx.ID, role domain.GlobalRole) error
	UpdateDisplayName(ctx context.Context, userID idx.ID, displayName string) error

	UpdateTOTPSecret(ctx context.Context, userID idx.ID, secret string) error
	EnableTOTP(ctx context.Context, userID idx.ID) error
	DisableTOTP(ctx context.Context, userID idx.ID) error

	// DeleteUser cascades to site_memberships (per schema).
	DeleteUser(ctx context.Context, userID idx.ID) error

	CountGlobalAdmins(ctx context.Context) (int, error)

	// CountWithoutMemberships counts users holding zero site memberships.
	CountWithoutMemberships(ctx context.Context) (int, error)

	// IsEmpty reports whether no users exist yet (first-run bootstrap).
	IsEmpty(ctx context.Context) (bool, error)
}

type Sites interface {
	GetSiteByID(ctx context.Context, id idx.ID) (domain.Site, error)

	// CreateSite inserts a new site. Returns ErrAlreadyExists on a duplicate
	// short code.
	CreateSite(ctx context.Context, s domain.Site) error

	// ListSites returns all sites ordered by code.
	ListSites(ctx context.Context) ([]domain.Site, error)

	// DeleteSite cascades to site_memberships and invitation assignments.
	DeleteSite(ctx context.Context, id idx.ID) error
}

type Memberships interface {
	// ListByUser returns the user's memberships joined with site name and
	// code, ordered by site code.
	ListByUser(ctx context.Context, userID idx.ID) ([]domain.SiteMembership, error)

	// ReplaceForUser removes the user's current membership rows and inserts
	// the given assignments. Call it inside a transaction: the delete and
	// inserts must be all-or-nothing.
	ReplaceForUser(ctx context.Context, userID idx.ID, assignments []domain.SiteAssignment) error
}

type Invitations interface {
	// CreateInvitation writes the invitation and its assignment rows.
	// token_hash is the SHA-256 fingerprint of the opaque bearer token.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	GetInvitationByID(ctx context.Context, id idx.ID) (domain.Invitation, error)

	// GetInvitationByTokenHash returns the invitation in any lifecycle state;
	// callers derive pending/expired/accepted themselves so they can report
	// the distinction.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// ConsumeInvitation atomically marks the invitation accepted. It is a
	// compare-and-set on accepted_at: when the invitation was already
	// consumed it returns ErrAlreadyConsumed and changes nothing, which is
	// what makes two racing accepts resolve to exactly one success.
	ConsumeInvitation(ctx context.Context, id idx.ID, acceptedBy idx.ID, now time.Time) error

	ListInvitations(ctx context.Context) ([]domain.Invitation, error)

	DeleteInvitation(ctx context.Context, id idx.ID) error

	CountPending(ctx context.Context, now time.Time) (int, error)
	CountExpired(ctx context.Context, now time.Time) (int, error)

	// DeleteExpiredBefore removes unaccepted invitations whose deadline
	// passed before cutoff. Housekeeping only; expiry itself is always a
	// read-time comparison.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error
}
