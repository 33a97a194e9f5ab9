package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestEverySkipsOverlappingTick(t *testing.T) {
	s := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running int32
	var overlapDetected int32
	var calls int32

	s.Every(ctx, "test", 10*time.Millisecond, func(ctx context.Context) {
		if !atomic.CompareAndSwapInt32(&running, 0, 1) {
			atomic.StoreInt32(&overlapDetected, 1)
			return
		}
		atomic.AddInt32(&calls, 1)
		time.Sleep(30 * time.Millisecond)
		atomic.StoreInt32(&running, 0)
	})

	time.Sleep(120 * time.Millisecond)
	s.Shutdown(time.Second)

	require.Equal(t, int32(0), atomic.LoadInt32(&overlapDetected), "scheduler must never invoke task concurrently with itself")
	require.Greater(t, atomic.LoadInt32(&calls), int32(0))
}

func TestRunOnceFiresAtDeadline(t *testing.T) {
	s := New(zerolog.Nop())
	fired := make(chan struct{})
	s.RunOnce(context.Background(), time.Now().Add(20*time.Millisecond), func(ctx context.Context) {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("RunOnce did not fire")
	}
	s.Shutdown(time.Second)
}

func TestNextDailyAtWrapsToTomorrow(t *testing.T) {
	next := NextDailyAt(7, 2, 0)
	from := time.Date(2026, 7, 30, 19, 0, 0, 0, time.UTC) // local 02:00 already passed today
	got := next(from)
	require.Equal(t, time.Date(2026, 7, 31, 19, 0, 0, 0, time.UTC), got)
}

func TestNextHourlyAtMinute(t *testing.T) {
	next := NextHourlyAtMinute(7, 5)
	from := time.Date(2026, 7, 30, 8, 10, 0, 0, time.UTC) // local 15:10, next trigger local 16:05
	got := next(from)
	require.Equal(t, time.Date(2026, 7, 30, 9, 5, 0, 0, time.UTC), got)
}
