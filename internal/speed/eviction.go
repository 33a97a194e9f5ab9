package speed

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"trafficaqi/internal/store"
)

// Evictor runs the periodic maintenance task (§4.4, default every 60s)
// that marks stale real-time rows inactive.
type Evictor struct {
	Store     store.Store
	Retention time.Duration
	Logger    *zap.SugaredLogger

	lastRun time.Time
}

// NewEvictor constructs an Evictor.
func NewEvictor(st store.Store, retention time.Duration, logger *zap.SugaredLogger) *Evictor {
	return &Evictor{Store: st, Retention: retention, Logger: logger}
}

// Run performs one eviction pass, suitable as a scheduler.Task.
func (e *Evictor) Run(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-e.Retention)
	count, err := e.Store.EvictStaleRealtime(ctx, cutoff)
	if err != nil {
		e.Logger.Errorw("eviction pass failed", "error", err)
		return
	}
	e.lastRun = time.Now().UTC()
	if count > 0 {
		e.Logger.Infow("evicted stale realtime rows", "count", count, "retention", e.Retention)
	}
}

// LastRunAgo reports a human-readable time since the last successful
// eviction pass, or "never" before the first one.
func (e *Evictor) LastRunAgo() string {
	if e.lastRun.IsZero() {
		return "never"
	}
	return humanize.Time(e.lastRun)
}
