// Package health wires the pipeline's liveness and readiness indicators
// (§6 "Operational surface") onto the reusable probe/aggregator framework.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkghealth "trafficaqi/pkg/health"
)

// SchedulerLivenessProbe reports liveness for one scheduled task: alive
// iff its last successful run completed within N times its configured
// period (§6: "the scheduler is alive and the last cycle/consume
// completed within N× its period").
type SchedulerLivenessProbe struct {
	probeName string
	period    time.Duration
	factor    float64

	mu      sync.RWMutex
	lastRun time.Time
}

// NewSchedulerLivenessProbe constructs a probe for a task with the given
// period; factor defaults to 3 when <= 0.
func NewSchedulerLivenessProbe(name string, period time.Duration, factor float64) *SchedulerLivenessProbe {
	if factor <= 0 {
		factor = 3
	}
	return &SchedulerLivenessProbe{probeName: name, period: period, factor: factor}
}

// MarkRun records a successful completion, called by the task itself.
func (p *SchedulerLivenessProbe) MarkRun() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastRun = time.Now().UTC()
}

func (p *SchedulerLivenessProbe) Name() string { return p.probeName }

func (p *SchedulerLivenessProbe) Check(ctx context.Context) error {
	p.mu.RLock()
	last := p.lastRun
	p.mu.RUnlock()

	if last.IsZero() {
		return fmt.Errorf("%s: has not completed a cycle yet", p.probeName)
	}
	limit := time.Duration(float64(p.period) * p.factor)
	if age := time.Since(last); age > limit {
		return fmt.Errorf("%s: last run %s ago exceeds %s limit", p.probeName, age, limit)
	}
	return nil
}

// PingerProbe wraps anything with a Ping(ctx) error method — satisfied by
// both the store and the bus — into a readiness probe.
type PingerProbe struct {
	probeName string
	pinger    func(ctx context.Context) error
}

// NewPingerProbe constructs a PingerProbe.
func NewPingerProbe(name string, pinger func(ctx context.Context) error) *PingerProbe {
	return &PingerProbe{probeName: name, pinger: pinger}
}

func (p *PingerProbe) Name() string { return p.probeName }

func (p *PingerProbe) Check(ctx context.Context) error {
	return p.pinger(ctx)
}

var _ pkghealth.Probe = (*SchedulerLivenessProbe)(nil)
var _ pkghealth.Probe = (*PingerProbe)(nil)
