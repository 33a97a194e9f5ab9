// Package serving implements the Serving Layer (§4.6): a read-only
// façade that merges the real-time set and batch aggregations into one
// freshness-ranked view.
package serving

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"trafficaqi/internal/model"
	"trafficaqi/internal/store"
)

// SourceLabel names which tier supplied a unified view's rows (§4.6, §8 I7).
type SourceLabel string

const (
	SourceSpeed SourceLabel = "speed"
	SourceBatch SourceLabel = "batch"
	SourceRaw   SourceLabel = "raw"
)

// defaultRawCacheTTL bounds how long the raw-fallback tier may serve a
// cached read before re-querying the store. The raw log tier is only ever
// consulted once the speed and batch tiers are both empty, so a short TTL
// here still keeps it from degrading into a permanently stale snapshot.
const defaultRawCacheTTL = 30 * time.Second

// View is the serving layer's read surface over a Store.
type View struct {
	Store       store.Store
	Logger      *zap.SugaredLogger
	rawCache    *lru.Cache[string, rawCacheEntry]
	rawCacheTTL time.Duration
}

type rawCacheEntry struct {
	records  []model.RawRecord
	cachedAt time.Time
}

// NewView constructs a View. rawCacheSize bounds the read-through cache
// backing the final raw-log fallback tier; it never suppresses
// StoreUnavailable, only avoids re-querying the raw log on every call
// when the speed and batch tiers are both empty. Cached entries
// expire after defaultRawCacheTTL so the tier cannot serve stale rows
// indefinitely once new raw records have landed.
func NewView(st store.Store, logger *zap.SugaredLogger, rawCacheSize int) (*View, error) {
	if rawCacheSize <= 0 {
		rawCacheSize = 1
	}
	cache, err := lru.New[string, rawCacheEntry](rawCacheSize)
	if err != nil {
		return nil, err
	}
	return &View{Store: st, Logger: logger, rawCache: cache, rawCacheTTL: defaultRawCacheTTL}, nil
}

const rawCacheKey = "latest-per-location"

// GetUnifiedView implements §4.6's three-tier fallback. It never hides a
// StoreUnavailable error from any tier behind an empty result.
func (v *View) GetUnifiedView(ctx context.Context, maxRealtimeAge time.Duration) ([]model.RealtimeRow, SourceLabel, error) {
	realtime, err := v.Store.FetchRecentRealtime(ctx, maxRealtimeAge)
	if err != nil {
		return nil, "", err
	}
	if len(realtime) > 0 && isFreshEnough(realtime, maxRealtimeAge) {
		return realtime, SourceSpeed, nil
	}

	hourly, err := v.Store.FetchHourly(ctx, 1)
	if err != nil {
		return nil, "", err
	}
	if latest := latestHourlyPerLocation(hourly); len(latest) > 0 {
		return hourlyToRows(latest), SourceBatch, nil
	}

	raw, err := v.fetchLatestRawCached(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(raw) > 0 {
		return rawToRows(raw), SourceRaw, nil
	}

	return nil, "", nil
}

// isFreshEnough reports whether any row's timestamp is within maxAge of
// now (§8 I7: "speed" iff some row has timestamp >= now - max_realtime_age).
func isFreshEnough(rows []model.RealtimeRow, maxAge time.Duration) bool {
	cutoff := time.Now().UTC().Add(-maxAge)
	for _, r := range rows {
		if !r.Timestamp.Before(cutoff) {
			return true
		}
	}
	return false
}

func (v *View) fetchLatestRawCached(ctx context.Context) ([]model.RawRecord, error) {
	if cached, ok := v.rawCache.Get(rawCacheKey); ok && time.Since(cached.cachedAt) < v.rawCacheTTL {
		return cached.records, nil
	}
	records, err := v.Store.FetchLatestRawPerLocation(ctx)
	if err != nil {
		return nil, err
	}
	v.rawCache.Add(rawCacheKey, rawCacheEntry{records: records, cachedAt: time.Now()})
	return records, nil
}

// latestHourlyPerLocation picks, for each location, the row with the
// greatest (date, hour) — the most recent batch-computed hour available.
func latestHourlyPerLocation(hourly []model.HourlyAggregation) []model.HourlyAggregation {
	best := make(map[string]model.HourlyAggregation, len(hourly))
	for _, h := range hourly {
		cur, ok := best[h.Location]
		if !ok || h.Date.After(cur.Date) || (h.Date.Equal(cur.Date) && h.Hour > cur.Hour) {
			best[h.Location] = h
		}
	}
	out := make([]model.HourlyAggregation, 0, len(best))
	for _, h := range best {
		out = append(out, h)
	}
	return out
}

func hourlyToRows(hourly []model.HourlyAggregation) []model.RealtimeRow {
	out := make([]model.RealtimeRow, 0, len(hourly))
	for _, h := range hourly {
		row := model.RealtimeRow{
			LocationSample: model.LocationSample{
				Location:     h.Location,
				AQIValue:     avgToIntPtr(h.AvgAQIValue),
				TrafficLevel: avgToIntPtr(h.AvgTrafficLevel),
				IsPeakHour:   h.IsPeakHour,
			},
			ProcessingTimestamp: h.UpdatedAt,
			IsActive:            true,
		}
		if row.AQIValue != nil {
			cat := model.ClassifyAQI(*row.AQIValue)
			row.AQICategory = &cat
		}
		out = append(out, row)
	}
	return out
}

func rawToRows(raw []model.RawRecord) []model.RealtimeRow {
	out := make([]model.RealtimeRow, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.RealtimeRow{
			LocationSample:      r.LocationSample,
			ProcessingTimestamp: r.Timestamp,
			IsActive:            true,
		})
	}
	return out
}

func avgToIntPtr(avg *float64) *int {
	if avg == nil {
		return nil
	}
	v := int(*avg + 0.5)
	return &v
}

// GetHourlySeries returns hourly aggregations for the last `days` days,
// sorted by (location, date, hour) (§4.6).
func (v *View) GetHourlySeries(ctx context.Context, days int) ([]model.HourlyAggregation, error) {
	return v.Store.FetchHourly(ctx, days)
}

// GetPeakSummary returns the PeakHourSummary for date, or nil if none
// exists (§4.6).
func (v *View) GetPeakSummary(ctx context.Context, date time.Time) (*model.PeakHourSummary, error) {
	return v.Store.FetchPeakSummary(ctx, date)
}
