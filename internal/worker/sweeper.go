// Package worker hosts background maintenance jobs that run alongside the
// HTTP server.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

// Purger deletes soft-deleted rows older than the cutoff and reports how
// many rows were removed.
type Purger interface {
	PurgeSoftDeleted(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically purges soft-deleted records past the retention
// window. Soft-deleted rows stay invisible to queries the moment they are
// marked, so the sweep only reclaims storage.
type Sweeper struct {
	purger    Purger
	interval  time.Duration
	retention time.Duration
}

func NewSweeper(purger Purger, interval, retention time.Duration) *Sweeper {
	return &Sweeper{
		purger:    purger,
		interval:  interval,
		retention: retention,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. It returns nil on cancellation.
func (s *Sweeper) Run(ctx context.Context) error {
	if err := s.sweep(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial retention sweep failed", applog.FieldError, err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Retention sweeper stopping")
			return nil
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "Retention sweep failed", applog.FieldError, err)
			}
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.retention)

	purged, err := s.purger.PurgeSoftDeleted(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge soft-deleted rows: %w", err)
	}

	if purged > 0 {
		slog.InfoContext(ctx, "Purged soft-deleted rows",
			applog.FieldCount, purged,
			"cutoff", cutoff.Format(time.RFC3339))
	}

	return nil
}
