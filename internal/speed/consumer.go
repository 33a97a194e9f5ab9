// Package speed implements the Speed Layer (§4.4): consumes bus records,
// maintains the real-time active set, and incrementally updates hourly
// aggregates.
package speed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trafficaqi/internal/bus"
	"trafficaqi/internal/model"
	"trafficaqi/internal/store"
)

// Consumer processes decoded bus records into the store.
type Consumer struct {
	Store  store.Store
	Clock  model.LocalClock
	Logger *zap.SugaredLogger
}

// NewConsumer constructs a Consumer.
func NewConsumer(st store.Store, clock model.LocalClock, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{Store: st, Clock: clock, Logger: logger}
}

// Handle implements bus.Handler (§4.4 steps 1-4). Any store failure is
// transient per §7 TransientStore: returning an error here leaves the
// bus record unacknowledged so it is redelivered.
func (c *Consumer) Handle(ctx context.Context, rec bus.Record) error {
	sample, err := bus.DecodeSample(rec.Payload)
	if err != nil {
		// DataContract violation: acknowledge and drop (§4.4 step 1, §7).
		c.Logger.Warnw("dropping malformed record", "topic", rec.Topic, "key", rec.Key, "error", err)
		return nil
	}

	row := model.RealtimeRow{
		LocationSample:      sample,
		ProcessingTimestamp: time.Now().UTC(),
		IsActive:            true,
	}

	date := c.Clock.Date(sample.Timestamp)
	hour := c.Clock.Hour(sample.Timestamp)

	// IngestRealtimeSample runs the realtime upsert and the hourly
	// increment in one transaction, so a failure on either side rolls
	// back both: redelivery always retries the full pair instead of
	// risking a hourly increment that never happens because a prior
	// attempt already overwrote the realtime row before failing.
	if err := c.Store.IngestRealtimeSample(ctx, row, date, hour); err != nil {
		return err
	}

	return nil
}
