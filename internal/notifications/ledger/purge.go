package ledger

import (
	"context"
	"log/slog"
	"time"

	"opencatalogi/internal/platform/metrics"
)

const (
	// DefaultRetention keeps failed notifications for a week before the
	// purge job removes them.
	DefaultRetention = 7 * 24 * time.Hour

	defaultPurgeInterval = time.Hour
)

// Purger periodically deletes ledger entries older than the retention window.
type Purger struct {
	store     Store
	log       *slog.Logger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

type PurgerOption func(*Purger)

func WithRetention(d time.Duration) PurgerOption {
	return func(p *Purger) { p.retention = d }
}

func WithPurgeInterval(d time.Duration) PurgerOption {
	return func(p *Purger) { p.interval = d }
}

func WithClock(now func() time.Time) PurgerOption {
	return func(p *Purger) { p.now = now }
}

func NewPurger(store Store, log *slog.Logger, opts ...PurgerOption) *Purger {
	p := &Purger{
		store:     store,
		log:       log,
		retention: DefaultRetention,
		interval:  defaultPurgeInterval,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until ctx is cancelled, purging once per interval.
func (p *Purger) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.PurgeOnce(ctx); err != nil {
				p.log.Error("failed notification purge", "error", err)
			}
		}
	}
}

// PurgeOnce deletes everything logged before now minus retention.
func (p *Purger) PurgeOnce(ctx context.Context) error {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.FailedNotificationsPurgedTotal.Add(float64(n))
		p.log.Info("purged failed notifications", "count", n, "cutoff", cutoff)
	}
	return nil
}
