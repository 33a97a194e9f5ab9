package bus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBus(t *testing.T) *Bus {
	t.Helper()
	b := New(Options{BufferSize: 16, RedeliveryDelay: 20 * time.Millisecond}, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestPublishRejectsOversizedPayload(t *testing.T) {
	b := testBus(t)
	big := make([]byte, MaxPayloadBytes+1)
	err := b.Publish(context.Background(), "topic", "key", big)
	var perm *PermanentPublishFailure
	require.ErrorAs(t, err, &perm)
}

func TestSubscribeDeliversPublishedRecord(t *testing.T) {
	b := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Record, 1)
	require.NoError(t, b.Subscribe(ctx, "topic", "group", func(ctx context.Context, rec Record) error {
		received <- rec
		return nil
	}))

	require.NoError(t, b.Publish(ctx, "topic", "loc-a", []byte(`{"v":1}`)))

	select {
	case rec := <-received:
		require.Equal(t, "loc-a", rec.Key)
		require.Equal(t, []byte(`{"v":1}`), rec.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestSubscribeRedeliversOnHandlerError(t *testing.T) {
	b := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts int64
	done := make(chan struct{})
	require.NoError(t, b.Subscribe(ctx, "topic", "group", func(ctx context.Context, rec Record) error {
		n := atomic.AddInt64(&attempts, 1)
		if n == 1 {
			return errors.New("transient failure")
		}
		close(done)
		return nil
	}))

	require.NoError(t, b.Publish(ctx, "topic", "loc-a", []byte("payload")))

	select {
	case <-done:
		require.Equal(t, int64(2), atomic.LoadInt64(&attempts))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for redelivery")
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	b := New(Options{}, zap.NewNop().Sugar())
	require.NoError(t, b.Close())
	err := b.Publish(context.Background(), "topic", "key", []byte("x"))
	require.ErrorIs(t, err, ErrBusClosed)
}

func TestPingReportsClosedState(t *testing.T) {
	b := New(Options{}, zap.NewNop().Sugar())
	require.NoError(t, b.Ping(context.Background()))
	require.NoError(t, b.Close())
	require.ErrorIs(t, b.Ping(context.Background()), ErrBusClosed)
}
