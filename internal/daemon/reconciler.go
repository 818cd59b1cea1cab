package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/deskgrid/internal/x11"
)

// RootReader returns the desktop state currently on the root window.
type RootReader func() (x11.RootState, error)

// Publisher is the state owner checked by the reconciler.
type Publisher interface {
	Snapshot() Snapshot
	Republish()
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks the root window for drift from the
// daemon's desktop state and republishes it.
type Reconciler struct {
	interval  time.Duration
	publisher Publisher
	readRoot  RootReader
	logger    *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, publisher Publisher, readRoot RootReader) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval:  interval,
		publisher: publisher,
		readRoot:  readRoot,
		logger:    logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single pass and reports whether it republished.
func (r *Reconciler) reconcile() (republished bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
			republished = false
		}
	}()

	got, err := r.readRoot()
	if err != nil {
		r.logger.Warn("reconciler: failed to read root window", "error", err)
		return false
	}

	diffs := Drift(r.publisher.Snapshot(), got)
	if len(diffs) == 0 {
		return false
	}

	r.logger.Info("reconciler: root window drift detected", "diffs", diffs)
	r.publisher.Republish()
	return true
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() bool {
	return r.reconcile()
}
