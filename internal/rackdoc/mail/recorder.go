package mail

import (
	"context"
	"sync"
)

// Recorder is an in-memory Mailer for tests and for deployments without SMTP
// when combined with Fail/Unconfigured knobs.
type Recorder struct {
	mu   sync.Mutex
	sent []Invite

	// FailWith, when set, is returned by every SendInvite call.
	FailWith error

	// Unconfigured makes Configured report false.
	Unconfigured bool
}

var _ Mailer = (*Recorder)(nil)

func (r *Recorder) SendInvite(ctx context.Context, inv Invite) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, inv)
	return nil
}

func (r *Recorder) Configured() bool { return !r.Unconfigured }

// Sent returns a copy of the delivered invites.
func (r *Recorder) Sent() []Invite {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Invite, len(r.sent))
	copy(out, r.sent)
	return out
}
