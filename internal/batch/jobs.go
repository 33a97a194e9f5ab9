// Package batch implements the Batch Layer (§4.5): scheduled jobs that
// rebuild hourly, daily, and peak-hour aggregations from the raw log,
// authoritatively overwriting the Speed Layer's incremental values.
package batch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trafficaqi/internal/model"
	"trafficaqi/internal/store"
)

// Jobs bundles the three scheduled batch aggregation jobs over a shared
// Store and LocalClock.
type Jobs struct {
	Store  store.Store
	Clock  model.LocalClock
	Logger *zap.SugaredLogger
}

// NewJobs constructs a Jobs bundle.
func NewJobs(st store.Store, clock model.LocalClock, logger *zap.SugaredLogger) *Jobs {
	return &Jobs{Store: st, Clock: clock, Logger: logger}
}

// HourlyJob rebuilds the hourly aggregation for the previous completed
// local hour, scanning the raw log directly (§4.5). It overwrites
// whatever the Speed Layer computed incrementally; this is the
// authoritative source of truth for that hour.
func (j *Jobs) HourlyJob(ctx context.Context) {
	now := time.Now().UTC()
	localNow := j.Clock.Local(now)
	prevHourLocal := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), localNow.Hour(), 0, 0, 0, time.UTC).Add(-time.Hour)
	j.rebuildHour(ctx, prevHourLocal)
}

// rebuildHour rebuilds the hourly aggregation for every location observed
// in the raw log during the local hour starting at hourStartLocal.
func (j *Jobs) rebuildHour(ctx context.Context, hourStartLocal time.Time) {
	fromUTC := hourStartLocal.Add(-time.Duration(j.Clock.OffsetHours) * time.Hour)
	toUTC := fromUTC.Add(time.Hour)

	records, err := j.Store.FetchRawWindow(ctx, fromUTC, toUTC)
	if err != nil {
		j.Logger.Errorw("hourly job: fetch raw window failed", "error", err)
		return
	}

	byLocation := groupByLocation(records)
	date := j.Clock.Date(fromUTC)
	hour := j.Clock.Hour(fromUTC)

	for location, recs := range byLocation {
		agg := aggregateHourly(date, hour, location, recs, j.Clock)
		if err := j.Store.WriteHourly(ctx, agg); err != nil {
			j.Logger.Errorw("hourly job: write failed", "location", location, "error", err)
		}
	}
}

// DailyJob rebuilds the daily aggregation for the previous calendar day
// (§4.5, runs at 02:00 local).
func (j *Jobs) DailyJob(ctx context.Context) {
	now := time.Now().UTC()
	localNow := j.Clock.Local(now)
	prevDayLocal := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	j.rebuildDay(ctx, prevDayLocal)
}

func (j *Jobs) rebuildDay(ctx context.Context, dayStartLocal time.Time) {
	fromUTC := dayStartLocal.Add(-time.Duration(j.Clock.OffsetHours) * time.Hour)
	toUTC := fromUTC.Add(24 * time.Hour)

	records, err := j.Store.FetchRawWindow(ctx, fromUTC, toUTC)
	if err != nil {
		j.Logger.Errorw("daily job: fetch raw window failed", "error", err)
		return
	}

	byLocation := groupByLocation(records)
	for location, recs := range byLocation {
		agg := aggregateDaily(dayStartLocal, location, recs, j.Clock)
		if err := j.Store.WriteDaily(ctx, agg); err != nil {
			j.Logger.Errorw("daily job: write failed", "location", location, "error", err)
		}
	}
}

// PeakHourJob reads the previous day's hourly aggregations and writes a
// single PeakHourSummary row naming the busiest traffic hour and the
// worst AQI hour (§4.5, runs at 03:00 local).
func (j *Jobs) PeakHourJob(ctx context.Context) {
	now := time.Now().UTC()
	localNow := j.Clock.Local(now)
	prevDayLocal := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	j.rebuildPeak(ctx, prevDayLocal)
}

func (j *Jobs) rebuildPeak(ctx context.Context, dayLocal time.Time) {
	hourly, err := j.Store.FetchHourlyWindow(ctx, dayLocal)
	if err != nil {
		j.Logger.Errorw("peak job: fetch hourly window failed", "error", err)
		return
	}
	if len(hourly) == 0 {
		j.Logger.Infow("peak job: no hourly rows for date, skipping", "date", dayLocal)
		return
	}

	summary := model.PeakHourSummary{AnalysisDate: dayLocal}
	var haveTraffic, haveAQI bool

	for _, h := range hourly {
		if h.AvgTrafficLevel != nil && (!haveTraffic || *h.AvgTrafficLevel > summary.PeakTrafficAvg) {
			summary.PeakTrafficAvg = *h.AvgTrafficLevel
			summary.PeakTrafficHour = h.Hour
			summary.PeakTrafficLoc = h.Location
			haveTraffic = true
		}
		if h.AvgAQIValue != nil && (!haveAQI || *h.AvgAQIValue > summary.PeakAQIAvg) {
			summary.PeakAQIAvg = *h.AvgAQIValue
			summary.PeakAQIHour = h.Hour
			summary.PeakAQILoc = h.Location
			haveAQI = true
		}
	}

	if !haveTraffic && !haveAQI {
		j.Logger.Infow("peak job: no metrics present in hourly rows, skipping", "date", dayLocal)
		return
	}

	if err := j.Store.WritePeak(ctx, summary); err != nil {
		j.Logger.Errorw("peak job: write failed", "error", err)
	}
}

func groupByLocation(records []model.RawRecord) map[string][]model.RawRecord {
	out := make(map[string][]model.RawRecord)
	for _, r := range records {
		out[r.Location] = append(out[r.Location], r)
	}
	return out
}

// aggregateHourly computes an authoritative HourlyAggregation from raw
// records observed in one local hour window (§4.5, §8 I2: rebuilding from
// the same raw log must yield bit-identical averages and counts).
func aggregateHourly(date time.Time, hour int, location string, recs []model.RawRecord, clock model.LocalClock) model.HourlyAggregation {
	var trafficSum, aqiSum float64
	var trafficCount, aqiCount, total int

	for _, r := range recs {
		total++
		if r.TrafficLevel != nil {
			trafficSum += float64(*r.TrafficLevel)
			trafficCount++
		}
		if r.AQIValue != nil {
			aqiSum += float64(*r.AQIValue)
			aqiCount++
		}
	}

	agg := model.HourlyAggregation{
		Date: date, Hour: hour, Location: location,
		TrafficCount: trafficCount, AQICount: aqiCount, TotalRecords: total,
		IsPeakHour: clock.IsPeakHourValue(hour),
		UpdatedAt:  time.Now().UTC(),
	}
	if trafficCount > 0 {
		avg := trafficSum / float64(trafficCount)
		agg.AvgTrafficLevel = &avg
	}
	if aqiCount > 0 {
		avg := aqiSum / float64(aqiCount)
		agg.AvgAQIValue = &avg
	}
	return agg
}

// aggregateDaily computes min/avg/max for each metric over one local
// calendar day (§4.5).
func aggregateDaily(date time.Time, location string, recs []model.RawRecord, clock model.LocalClock) model.DailyAggregation {
	var trafficSum, aqiSum float64
	var trafficCount, aqiCount int
	var minTraffic, maxTraffic, minAQI, maxAQI *int

	for _, r := range recs {
		if r.TrafficLevel != nil {
			trafficSum += float64(*r.TrafficLevel)
			trafficCount++
			if minTraffic == nil || *r.TrafficLevel < *minTraffic {
				v := *r.TrafficLevel
				minTraffic = &v
			}
			if maxTraffic == nil || *r.TrafficLevel > *maxTraffic {
				v := *r.TrafficLevel
				maxTraffic = &v
			}
		}
		if r.AQIValue != nil {
			aqiSum += float64(*r.AQIValue)
			aqiCount++
			if minAQI == nil || *r.AQIValue < *minAQI {
				v := *r.AQIValue
				minAQI = &v
			}
			if maxAQI == nil || *r.AQIValue > *maxAQI {
				v := *r.AQIValue
				maxAQI = &v
			}
		}
	}

	agg := model.DailyAggregation{
		Date: date, Location: location, Hour: nil,
		DataPointsCount: len(recs),
		MinTrafficLevel: minTraffic, MaxTrafficLevel: maxTraffic,
		MinAQIValue: minAQI, MaxAQIValue: maxAQI,
	}
	if trafficCount > 0 {
		avg := trafficSum / float64(trafficCount)
		agg.AvgTrafficLevel = &avg
	}
	if aqiCount > 0 {
		avg := aqiSum / float64(aqiCount)
		agg.AvgAQIValue = &avg
	}
	// A day's is_peak_hour summarizes whether the day contains any peak
	// hour sample at all (distinct from the per-hour predicate).
	for _, r := range recs {
		if r.IsPeakHour {
			agg.IsPeakHour = true
			break
		}
	}
	return agg
}
