package serving

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trafficaqi/internal/model"
	"trafficaqi/internal/store"
)

func testView(t *testing.T) (*View, store.Store) {
	t.Helper()
	ctx := context.Background()
	st, err := store.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	v, err := NewView(st, zap.NewNop().Sugar(), 16)
	require.NoError(t, err)
	return v, st
}

func intPtr(v int) *int { return &v }

func TestGetUnifiedViewPrefersSpeedWhenFresh(t *testing.T) {
	v, st := testView(t)
	ctx := context.Background()

	row := model.RealtimeRow{
		LocationSample:      model.LocationSample{Location: "A", TrafficLevel: intPtr(3), Timestamp: time.Now().UTC()},
		ProcessingTimestamp: time.Now().UTC(),
		IsActive:            true,
	}
	_, err := st.UpsertRealtime(ctx, row)
	require.NoError(t, err)

	rows, label, err := v.GetUnifiedView(ctx, time.Hour)
	require.NoError(t, err)
	require.Equal(t, SourceSpeed, label)
	require.Len(t, rows, 1)
}

func TestGetUnifiedViewFallsBackToBatchWhenSpeedStale(t *testing.T) {
	v, st := testView(t)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-3 * time.Hour)
	_, err := st.UpsertRealtime(ctx, model.RealtimeRow{
		LocationSample:      model.LocationSample{Location: "A", TrafficLevel: intPtr(3), Timestamp: stale},
		ProcessingTimestamp: stale,
		IsActive:            true,
	})
	require.NoError(t, err)

	avg := 4.2
	require.NoError(t, st.WriteHourly(ctx, model.HourlyAggregation{
		Date: model.NewLocalClock(7, nil).Date(time.Now()), Hour: 10, Location: "A",
		AvgTrafficLevel: &avg, TrafficCount: 3, TotalRecords: 3, UpdatedAt: time.Now(),
	}))

	rows, label, err := v.GetUnifiedView(ctx, time.Hour)
	require.NoError(t, err)
	require.Equal(t, SourceBatch, label)
	require.Len(t, rows, 1)
	require.Equal(t, 4, *rows[0].TrafficLevel)
}

func TestGetUnifiedViewFallsBackToRawWhenAllElseEmpty(t *testing.T) {
	v, st := testView(t)
	ctx := context.Background()

	require.NoError(t, st.AppendRaw(ctx, model.RawRecord{
		ID: ulid.Make().String(),
		LocationSample: model.LocationSample{
			Location: "A", TrafficLevel: intPtr(2), Timestamp: time.Now().UTC().Add(-10 * time.Hour),
		},
	}))

	rows, label, err := v.GetUnifiedView(ctx, time.Hour)
	require.NoError(t, err)
	require.Equal(t, SourceRaw, label)
	require.Len(t, rows, 1)
}

func TestGetUnifiedViewEmptyWhenNothingExists(t *testing.T) {
	v, _ := testView(t)
	rows, label, err := v.GetUnifiedView(context.Background(), time.Hour)
	require.NoError(t, err)
	require.Equal(t, SourceLabel(""), label)
	require.Empty(t, rows)
}
