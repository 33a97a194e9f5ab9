// Package ingestion implements the Ingestion Poller (§4.3): on a fixed
// cadence it fetches one sample per configured location from the two
// upstream feeds, merges them, derives classifications, and emits the
// result to the bus and the raw log.
package ingestion

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trafficaqi/internal/bus"
	"trafficaqi/internal/locations"
	"trafficaqi/internal/model"
	"trafficaqi/internal/store"
	"trafficaqi/internal/upstream"
)

// Poller runs the ingestion cycle described in §4.3.
type Poller struct {
	Feed              upstream.Feed
	Bus               *bus.Bus
	Store             store.Store
	Locations         *locations.Set
	Clock             model.LocalClock
	Topic             string
	UpstreamTimeout   time.Duration
	FanoutConcurrency int
	Logger            *zap.SugaredLogger

	mu             sync.Mutex
	lagCounter     int64
	failureCounter map[string]int64
	cycleRunning   bool
}

// NewPoller constructs a Poller; callers must pass a non-zero fanout and
// upstreamTimeout, which RunCycle uses as given.
func NewPoller(feed upstream.Feed, b *bus.Bus, st store.Store, locs *locations.Set, clock model.LocalClock, topic string, upstreamTimeout time.Duration, fanout int, logger *zap.SugaredLogger) *Poller {
	return &Poller{
		Feed:              feed,
		Bus:               b,
		Store:             st,
		Locations:         locs,
		Clock:             clock,
		Topic:             topic,
		UpstreamTimeout:   upstreamTimeout,
		FanoutConcurrency: fanout,
		Logger:            logger,
		failureCounter:    make(map[string]int64),
	}
}

// RunCycle executes a single ingestion cycle (§4.3 steps 1-7). It returns
// immediately without doing work if a previous cycle is still in flight,
// incrementing the lag counter instead (no overlapping cycles).
func (p *Poller) RunCycle(ctx context.Context) {
	p.mu.Lock()
	if p.cycleRunning {
		p.lagCounter++
		p.mu.Unlock()
		p.Logger.Warnw("ingestion cycle skipped, previous cycle still running", "lag_total", p.lagCounter)
		return
	}
	p.cycleRunning = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.cycleRunning = false
		p.mu.Unlock()
	}()

	correlationID := uuid.NewString()
	log := p.Logger.With("correlation_id", correlationID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.FanoutConcurrency)

	for _, loc := range p.Locations.All() {
		loc := loc
		g.Go(func() error {
			p.processLocation(gctx, loc, log)
			return nil
		})
	}
	// errors from processLocation are handled internally (per-location
	// failures never abort the cycle); Wait only waits for completion.
	_ = g.Wait()
}

func (p *Poller) processLocation(ctx context.Context, loc locations.Location, log *zap.SugaredLogger) {
	now := time.Now().UTC()
	deadline := now.Add(p.UpstreamTimeout)

	trafficResult, trafficErr := p.fetchWithRetry(ctx, upstream.KindTraffic, loc.Name, deadline)
	aqiResult, aqiErr := p.fetchWithRetry(ctx, upstream.KindAQI, loc.Name, deadline)

	if trafficErr != nil && aqiErr != nil {
		p.mu.Lock()
		p.failureCounter[loc.Name]++
		p.mu.Unlock()
		log.Warnw("both upstream feeds failed for location, skipping", "location", loc.Name)
		return
	}

	sample := model.LocationSample{
		Timestamp: now,
		Location:  loc.Name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
	if trafficErr == nil {
		v := trafficResult.Value
		sample.TrafficLevel = &v
	}
	if aqiErr == nil {
		v := aqiResult.Value
		sample.AQIValue = &v
	}
	sample.Derive(p.Clock)

	if err := sample.Validate(); err != nil {
		log.Warnw("sample failed validation after merge, dropping", "location", loc.Name, "error", err)
		return
	}

	p.emit(ctx, sample, log)
}

// fetchWithRetry implements the two-try retry on transient failures
// (§4.3 step 2, §7 TransientUpstream policy).
func (p *Poller) fetchWithRetry(ctx context.Context, kind upstream.Kind, location string, deadline time.Time) (upstream.Result, error) {
	var result upstream.Result

	op := func() error {
		var err error
		if kind == upstream.KindTraffic {
			result, err = p.Feed.FetchTraffic(ctx, location, deadline)
		} else {
			result, err = p.Feed.FetchAQI(ctx, location, deadline)
		}
		if err == nil {
			return nil
		}
		if upstream.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), 1) // one retry = two tries total
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return upstream.Result{}, err
	}
	return result, nil
}

// emit publishes the sample to the bus and appends it to the raw log
// (§4.3 steps 5-6). Publish failures are non-fatal: the raw log append
// still proceeds as the fallback path.
func (p *Poller) emit(ctx context.Context, sample model.LocationSample, log *zap.SugaredLogger) {
	payload, err := bus.EncodeSample(sample)
	if err != nil {
		log.Errorw("failed to encode sample", "location", sample.Location, "error", err)
	} else {
		policy := bus.DefaultRetryPolicy()
		if pubErr := bus.PublishWithRetry(ctx, p.Bus, policy, p.Topic, sample.Location, payload); pubErr != nil {
			log.Warnw("publish failed permanently, relying on raw log fallback", "location", sample.Location, "error", pubErr)
		}
	}

	rawID := ulid.Make().String()
	rec := model.RawRecord{ID: rawID, LocationSample: sample}

	appendOp := func() error {
		return p.Store.AppendRaw(ctx, rec)
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.Retry(appendOp, backoff.WithContext(policy, ctx)); err != nil {
		log.Errorw("raw log append failed permanently, dropping sample", "location", sample.Location, "error", err)
	}
}

// LagTotal reports how many cycles have been skipped due to overlap.
func (p *Poller) LagTotal() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lagCounter
}

// FailureCount reports how many cycles produced no sample at all for loc.
func (p *Poller) FailureCount(loc string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failureCounter[loc]
}
