package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerLivenessProbeFailsBeforeFirstRun(t *testing.T) {
	p := NewSchedulerLivenessProbe("poller", time.Second, 3)
	require.Error(t, p.Check(context.Background()))
}

func TestSchedulerLivenessProbeHealthyAfterRecentRun(t *testing.T) {
	p := NewSchedulerLivenessProbe("poller", time.Second, 3)
	p.MarkRun()
	require.NoError(t, p.Check(context.Background()))
}

func TestSchedulerLivenessProbeUnhealthyWhenStale(t *testing.T) {
	p := NewSchedulerLivenessProbe("poller", 10*time.Millisecond, 2)
	p.MarkRun()
	time.Sleep(50 * time.Millisecond)
	require.Error(t, p.Check(context.Background()))
}

func TestPingerProbeDelegates(t *testing.T) {
	called := false
	p := NewPingerProbe("store", func(ctx context.Context) error {
		called = true
		return errors.New("down")
	})
	require.Error(t, p.Check(context.Background()))
	require.True(t, called)
}
