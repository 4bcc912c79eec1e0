// Package mail sends invitation emails. Delivery is best-effort: the issuing
// flow reports a send failure as a flag on the response rather than failing
// the invitation.
package mail

import (
	"context"
	"time"
)

// Invite is the rendered content of an invitation email.
type Invite struct {
	To          string
	DisplayName string
	InviterName string
	AcceptURL   string
	ExpiresAt   time.Time
}

// Mailer delivers invitation emails.
type Mailer interface {
	// SendInvite delivers the invitation. Implementations must honor ctx
	// cancellation where their transport allows it.
	SendInvite(ctx context.Context, inv Invite) error

	// Configured reports whether the mailer can actually deliver. The admin
	// overview surfaces this so operators notice missing SMTP settings.
	Configured() bool
}
