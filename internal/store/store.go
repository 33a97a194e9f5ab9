// Package store implements the Store Adapter (§4.2): relational
// persistence for the raw append log, the real-time active set, per-hour
// and per-day aggregations, and peak-hour summaries.
package store

import (
	"context"
	"time"

	"trafficaqi/internal/model"
)

// Store is the narrow set of operations the rest of the pipeline depends
// on. All operations that hit the database return a *StoreUnavailable on
// transient connection failure (§4.2).
type Store interface {
	// AppendRaw inserts one row into the raw append log. Duplicates on
	// (timestamp, location) are permitted; aggregation must tolerate them.
	AppendRaw(ctx context.Context, rec model.RawRecord) error

	// UpsertRealtime inserts or overwrites the real-time row keyed by
	// (location, timestamp). inserted reports whether this call created a
	// brand-new row (true) or overwrote an existing one (false); the Speed
	// Layer uses this to guard the hourly increment against double-count
	// on redelivery.
	UpsertRealtime(ctx context.Context, row model.RealtimeRow) (inserted bool, err error)

	// EvictStaleRealtime marks is_active=false for rows whose
	// processing_timestamp is older than cutoff, returning the count of
	// rows affected.
	EvictStaleRealtime(ctx context.Context, cutoff time.Time) (count int, err error)

	// UpsertHourlyIncrement atomically folds one sample's metrics into the
	// (date, hour, location) hourly row using the incremental average
	// formula of §4.3, tracking per-metric counts independently.
	UpsertHourlyIncrement(ctx context.Context, date time.Time, hour int, location string, trafficLevel, aqiValue *int, isPeakHour bool) error

	// IngestRealtimeSample performs the realtime upsert and, only on first
	// insertion of this (location, timestamp), the hourly increment, as one
	// atomic transaction. The Speed Layer uses this instead of calling
	// UpsertRealtime and UpsertHourlyIncrement separately, so a transient
	// failure partway through rolls back both writes and a bus redelivery
	// retries the full pair rather than silently skipping the increment.
	IngestRealtimeSample(ctx context.Context, row model.RealtimeRow, date time.Time, hour int) error

	// WriteHourly overwrites the (date, hour, location) hourly row with an
	// authoritative, already-computed aggregation (used by the Batch
	// Layer's hourly job, which recomputes from the raw log).
	WriteHourly(ctx context.Context, agg model.HourlyAggregation) error

	// WriteDaily is an idempotent upsert keyed by (date, location, hour).
	WriteDaily(ctx context.Context, rec model.DailyAggregation) error

	// WritePeak is an idempotent upsert keyed by analysis_date.
	WritePeak(ctx context.Context, rec model.PeakHourSummary) error

	// FetchRecentRealtime returns active real-time rows whose
	// processing_timestamp is no older than maxAge, most recent sample
	// timestamp first.
	FetchRecentRealtime(ctx context.Context, maxAge time.Duration) ([]model.RealtimeRow, error)

	// FetchHourly returns hourly aggregations for the last `days` days,
	// sorted by (location, date, hour).
	FetchHourly(ctx context.Context, days int) ([]model.HourlyAggregation, error)

	// FetchHourlyWindow returns hourly aggregations for one local calendar
	// date, used by the peak-hour job.
	FetchHourlyWindow(ctx context.Context, date time.Time) ([]model.HourlyAggregation, error)

	// FetchRawWindow returns raw records whose timestamp falls within
	// [from, to), used by the Batch Layer to rebuild aggregations.
	FetchRawWindow(ctx context.Context, from, to time.Time) ([]model.RawRecord, error)

	// FetchLatestRawPerLocation returns the most recent raw record for
	// each location, used by the Serving Layer's final fallback tier.
	FetchLatestRawPerLocation(ctx context.Context) ([]model.RawRecord, error)

	// FetchPeakSummary returns the PeakHourSummary for date, or nil if
	// none exists.
	FetchPeakSummary(ctx context.Context, date time.Time) (*model.PeakHourSummary, error)

	// Ping verifies the store connection is usable (readiness probe).
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
