package speed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trafficaqi/internal/bus"
	"trafficaqi/internal/model"
	"trafficaqi/internal/store"
)

func testConsumer(t *testing.T) (*Consumer, store.Store) {
	t.Helper()
	ctx := context.Background()
	st, err := store.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	clock := model.NewLocalClock(7, nil)
	return NewConsumer(st, clock, zap.NewNop().Sugar()), st
}

func encodeRecord(t *testing.T, s model.LocationSample) bus.Record {
	t.Helper()
	payload, err := bus.EncodeSample(s)
	require.NoError(t, err)
	return bus.Record{Topic: "traffic-aqi-data", Key: s.Location, Payload: payload, Timestamp: time.Now()}
}

func TestHandleMalformedRecordIsDroppedNotError(t *testing.T) {
	c, _ := testConsumer(t)
	err := c.Handle(context.Background(), bus.Record{Topic: "t", Key: "k", Payload: []byte("not json")})
	require.NoError(t, err)
}

func TestHandleInsertsRealtimeAndIncrementsHourly(t *testing.T) {
	c, st := testConsumer(t)
	traffic := 3
	aqi := 45
	ts := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC) // local 13:00
	sample := model.LocationSample{Timestamp: ts, Location: "A", Latitude: 1, Longitude: 1, TrafficLevel: &traffic, AQIValue: &aqi}
	sample.Derive(c.Clock)

	require.NoError(t, c.Handle(context.Background(), encodeRecord(t, sample)))

	rows, err := st.FetchRecentRealtime(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	hourly, err := st.FetchHourlyWindow(context.Background(), c.Clock.Date(ts))
	require.NoError(t, err)
	require.Len(t, hourly, 1)
	require.Equal(t, 1, hourly[0].TrafficCount)
	require.Equal(t, 1, hourly[0].AQICount)
	require.False(t, hourly[0].IsPeakHour)
}

func TestHandleDuplicateDeliveryDoesNotDoubleCount(t *testing.T) {
	c, st := testConsumer(t)
	traffic := 3
	ts := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	sample := model.LocationSample{Timestamp: ts, Location: "A", Latitude: 1, Longitude: 1, TrafficLevel: &traffic}
	sample.Derive(c.Clock)
	rec := encodeRecord(t, sample)

	require.NoError(t, c.Handle(context.Background(), rec))
	require.NoError(t, c.Handle(context.Background(), rec)) // redelivery

	rows, err := st.FetchRecentRealtime(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1, "duplicate delivery must not create a second realtime row")

	hourly, err := st.FetchHourlyWindow(context.Background(), c.Clock.Date(ts))
	require.NoError(t, err)
	require.Equal(t, 1, hourly[0].TotalRecords, "duplicate delivery must not double-count the hourly total")
}
