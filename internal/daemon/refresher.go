// Package daemon runs the background refresh that keeps the window inventory
// in step with the desktop.
package daemon

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 10 * time.Second

// RefreshFunc performs one discovery and merge pass.
type RefreshFunc func(ctx context.Context) error

// RefresherConfig holds configuration for the refresher.
type RefresherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Refresher periodically re-discovers windows and merges them into state.
type Refresher struct {
	interval time.Duration
	refresh  RefreshFunc
	logger   *slog.Logger
}

// NewRefresher creates a new refresher with the given configuration.
func NewRefresher(cfg RefresherConfig, refresh RefreshFunc) *Refresher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Refresher{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
	}
}

// Interval returns the refresh period.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Run starts the refresh loop. Blocks until context is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("refresher started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopped")
			return
		case <-ticker.C:
			r.pass(ctx)
		}
	}
}

// pass performs a single refresh and never lets a panic escape the loop.
func (r *Refresher) pass(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("refresher panic recovered", "error", rec)
		}
	}()

	if err = r.refresh(ctx); err != nil {
		r.logger.Warn("refresher: pass failed", "error", err)
	}
	return err
}

// RefreshNow triggers an immediate refresh pass.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	return r.pass(ctx)
}
