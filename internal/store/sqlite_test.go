package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trafficaqi/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, Config{Path: ":memory:", JournalMode: "MEMORY", Synchronous: "OFF", BusyTimeoutMS: 1000})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func sampleRow(location string, ts time.Time, traffic, aqi *int) model.RealtimeRow {
	return model.RealtimeRow{
		LocationSample: model.LocationSample{
			Timestamp:    ts,
			Location:     location,
			Latitude:     10,
			Longitude:    20,
			AQIValue:     aqi,
			TrafficLevel: traffic,
		},
		ProcessingTimestamp: ts,
		IsActive:            true,
	}
}

func TestUpsertRealtimeInsertedFlag(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ts := time.Now().UTC().Truncate(time.Second)
	row := sampleRow("main-st", ts, intPtr(3), intPtr(42))

	inserted, err := s.UpsertRealtime(ctx, row)
	require.NoError(t, err)
	require.True(t, inserted, "first write must be an insert")

	row.TrafficLevel = intPtr(4)
	inserted, err = s.UpsertRealtime(ctx, row)
	require.NoError(t, err)
	require.False(t, inserted, "second write to the same key must overwrite, not insert")

	rows, err := s.FetchRecentRealtime(ctx, time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 4, *rows[0].TrafficLevel)
}

func TestUpsertHourlyIncrementTracksCountsIndependently(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	date := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertHourlyIncrement(ctx, date, 8, "main-st", intPtr(2), intPtr(40), true))
	require.NoError(t, s.UpsertHourlyIncrement(ctx, date, 8, "main-st", intPtr(4), nil, true))
	require.NoError(t, s.UpsertHourlyIncrement(ctx, date, 8, "main-st", nil, intPtr(60), true))

	rows, err := s.FetchHourlyWindow(ctx, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	agg := rows[0]
	require.Equal(t, 2, agg.TrafficCount)
	require.Equal(t, 2, agg.AQICount)
	require.Equal(t, 3, agg.TotalRecords)
	require.InDelta(t, 3.0, *agg.AvgTrafficLevel, 0.0001)
	require.InDelta(t, 50.0, *agg.AvgAQIValue, 0.0001)
}

func TestIngestRealtimeSampleIncrementsHourlyOnlyOnFirstInsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ts := time.Date(2026, 7, 30, 6, 0, 0, 0, time.UTC)
	date := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	row := sampleRow("main-st", ts, intPtr(3), intPtr(42))

	require.NoError(t, s.IngestRealtimeSample(ctx, row, date, 8))

	hourly, err := s.FetchHourlyWindow(ctx, date)
	require.NoError(t, err)
	require.Len(t, hourly, 1)
	require.Equal(t, 1, hourly[0].TotalRecords)

	// Redelivery of the same (location, timestamp): the realtime row is
	// overwritten, not inserted, so the hourly increment must not run
	// again.
	require.NoError(t, s.IngestRealtimeSample(ctx, row, date, 8))

	hourly, err = s.FetchHourlyWindow(ctx, date)
	require.NoError(t, err)
	require.Len(t, hourly, 1)
	require.Equal(t, 1, hourly[0].TotalRecords, "redelivery must not double-count the hourly total")
}

func TestWriteDailyWholeDaySentinel(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	date := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	rec := model.DailyAggregation{
		Date:            date,
		Location:        "main-st",
		Hour:            nil,
		DataPointsCount: 10,
	}
	require.NoError(t, s.WriteDaily(ctx, rec))

	rec2 := rec
	rec2.DataPointsCount = 20
	require.NoError(t, s.WriteDaily(ctx, rec2))

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM daily_aggregations WHERE "date" = ? AND location = ?`,
		"2026-07-30", "main-st").Scan(&count))
	require.Equal(t, 1, count, "whole-day upsert must not create duplicate rows")
}

func TestEvictStaleRealtime(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	fresh := time.Now().UTC().Truncate(time.Second)
	old := fresh.Add(-24 * time.Hour)

	_, err := s.UpsertRealtime(ctx, sampleRow("a", old, intPtr(1), intPtr(10)))
	require.NoError(t, err)
	_, err = s.UpsertRealtime(ctx, sampleRow("b", fresh, intPtr(1), intPtr(10)))
	require.NoError(t, err)

	cutoff := fresh.Add(-8 * time.Hour)
	n, err := s.EvictStaleRealtime(ctx, cutoff)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rows, err := s.FetchRecentRealtime(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "b", rows[0].Location)
}

func TestAppendRawAndFetchLatestPerLocation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t1 := time.Date(2026, 7, 30, 7, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)

	mk := func(id, loc string, ts time.Time) model.RawRecord {
		return model.RawRecord{
			ID: id,
			LocationSample: model.LocationSample{
				Timestamp: ts, Location: loc, Latitude: 1, Longitude: 2,
				TrafficLevel: intPtr(2),
			},
		}
	}

	require.NoError(t, s.AppendRaw(ctx, mk("01", "main-st", t1)))
	require.NoError(t, s.AppendRaw(ctx, mk("02", "main-st", t2)))

	latest, err := s.FetchLatestRawPerLocation(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, "02", latest[0].ID)
}

func TestFetchPeakSummaryMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, err := s.FetchPeakSummary(ctx, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Nil(t, rec)

	require.NoError(t, s.WritePeak(ctx, model.PeakHourSummary{
		AnalysisDate:    time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC),
		PeakTrafficHour: 8, PeakTrafficLoc: "main-st", PeakTrafficAvg: 4.5,
		PeakAQIHour: 17, PeakAQILoc: "river-rd", PeakAQIAvg: 130,
	}))

	rec, err = s.FetchPeakSummary(ctx, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "main-st", rec.PeakTrafficLoc)
}
