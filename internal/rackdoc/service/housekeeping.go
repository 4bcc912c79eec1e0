package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/store"
)

const (
	// DefaultHousekeepingInterval is how often the sweep runs.
	DefaultHousekeepingInterval = time.Hour

	// DefaultInviteRetention is how long expired invitations stay visible in
	// listings before the sweep removes them. Expiry itself is always a
	// read-time comparison; this only trims long-dead rows.
	DefaultInviteRetention = 30 * 24 * time.Hour
)

// Housekeeper periodically purges invitations that expired longer than the
// retention period ago.
type Housekeeper struct {
	store     store.Store
	log       *slog.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewHousekeeper(st store.Store, log *slog.Logger, interval, retention time.Duration) *Housekeeper {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if retention <= 0 {
		retention = DefaultInviteRetention
	}
	return &Housekeeper{store: st, log: log, interval: interval, retention: retention, now: time.Now}
}

// Run sweeps once immediately, then on every tick until ctx is canceled.
func (h *Housekeeper) Run(ctx context.Context) {
	h.sweep(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep(ctx)
		}
	}
}

func (h *Housekeeper) sweep(ctx context.Context) {
	cutoff := h.now().Add(-h.retention)
	if err := h.store.Invitations().DeleteExpiredBefore(ctx, cutoff); err != nil {
		h.log.Error("housekeeping sweep failed", slog.String("error", err.Error()))
		return
	}
	h.log.Debug("housekeeping sweep done", slog.Time("cutoff", cutoff))
}
