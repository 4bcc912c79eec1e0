package domain

import (
	"time"

	"github.com/rackworks/rackdoc/pkg/idx"
)

// InvitationState is derived, never stored: expiry is a wall-clock comparison
// at read time and acceptance is recorded by the accepted_at marker.
type InvitationState string

const (
	InvitationPending  InvitationState = "pending"
	InvitationExpired  InvitationState = "expired"
	InvitationAccepted InvitationState = "accepted"
)

// Invitation is a pending, time-boxed, single-use grant that provisions a new
// user with the listed site memberships upon acceptance. Only the SHA-256
// fingerprint of the bearer token is stored; the plaintext is returned to the
// inviter exactly once at issue time.
type Invitation struct {
	ID          idx.ID
	Email       string
	DisplayName string
	TokenHash   string
	CreatedBy   idx.ID
	Assignments []SiteAssignment // ordered as granted by the inviter
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	AcceptedBy  idx.ID // zero until accepted
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// State derives the lifecycle state at the given instant. Acceptance wins over
// expiry: an invitation accepted before its deadline stays accepted forever.
func (i Invitation) State(now time.Time) InvitationState {
	if i.AcceptedAt != nil {
		return InvitationAccepted
	}
	if now.After(i.ExpiresAt) {
		return InvitationExpired
	}
	return InvitationPending
}
