package upstream

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig mirrors the panel's router circuit-breaker defaults,
// retuned for a feed call instead of a router SSH/API session: a feed
// that fails three times in a row is given a minute to recover before
// the breaker lets another probe through.
type BreakerConfig struct {
	MaxFailures uint32
	Timeout     time.Duration
	MaxRequests uint32
}

// DefaultBreakerConfig returns the standard per-feed breaker tuning.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 3,
		Timeout:     time.Minute,
		MaxRequests: 1,
	}
}

// BreakerFeed wraps a Feed with one circuit breaker per leg (traffic, aqi),
// so a sustained outage on one feed does not also poison the other.
type BreakerFeed struct {
	inner         Feed
	trafficBreaker *gobreaker.CircuitBreaker[Result]
	aqiBreaker     *gobreaker.CircuitBreaker[Result]
}

// NewBreakerFeed wraps inner with per-leg circuit breakers.
func NewBreakerFeed(inner Feed, cfg BreakerConfig) *BreakerFeed {
	mk := func(name string) *gobreaker.CircuitBreaker[Result] {
		return gobreaker.NewCircuitBreaker[Result](gobreaker.Settings{
			Name:        name,
			MaxRequests: cfg.MaxRequests,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.MaxFailures
			},
		})
	}
	return &BreakerFeed{
		inner:          inner,
		trafficBreaker: mk("upstream-traffic"),
		aqiBreaker:     mk("upstream-aqi"),
	}
}

func (b *BreakerFeed) FetchTraffic(ctx context.Context, location string, deadline time.Time) (Result, error) {
	return b.trafficBreaker.Execute(func() (Result, error) {
		return b.inner.FetchTraffic(ctx, location, deadline)
	})
}

func (b *BreakerFeed) FetchAQI(ctx context.Context, location string, deadline time.Time) (Result, error) {
	return b.aqiBreaker.Execute(func() (Result, error) {
		return b.inner.FetchAQI(ctx, location, deadline)
	})
}

// State reports the current breaker state for each leg.
func (b *BreakerFeed) State() (traffic, aqi gobreaker.State) {
	return b.trafficBreaker.State(), b.aqiBreaker.State()
}
