package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/varcoaccess/varco/internal/varco/store"
)

// TransitPruner periodically deletes transit records older than a
// configurable retention period.  It runs as a background goroutine and
// is safe to stop via its context or the Stop method.
//
// Retention 0 keeps transits forever (the default; pruned transits
// disappear from statistics and reports).
type TransitPruner struct {
	store     store.TransitStore
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// PrunerConfig holds the parameters for NewTransitPruner.
type PrunerConfig struct {
	// RetentionDays is how many days of transit history to keep.
	// 0 means keep everything (pruner will not start).
	RetentionDays int

	// IntervalHours is how often the pruner runs.  Defaults to 6.
	IntervalHours int
}

// NewTransitPruner creates a pruner but does not start it.
// Call Start to begin the background loop.
func NewTransitPruner(s store.TransitStore, cfg PrunerConfig, logger *slog.Logger) *TransitPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &TransitPruner{
		store:     s,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins the background pruning loop.  It runs an immediate prune
// on startup, then repeats on the configured interval.  The loop exits
// when ctx is cancelled or Stop is called.
func (p *TransitPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Info("transit pruner disabled (retention=0)")
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Info("transit pruner started",
		"retention_days", int(p.retention.Hours()/24),
		"interval_hours", int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *TransitPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *TransitPruner) loop(ctx context.Context) {
	defer close(p.done)

	// Run immediately on startup to clean up any backlog.
	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *TransitPruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)
	deleted, err := p.store.PruneCreatedBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("transit prune failed", "err", err)
		return
	}
	if deleted > 0 {
		p.logger.Info("transit prune",
			"deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
}
