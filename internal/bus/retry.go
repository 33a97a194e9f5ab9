package bus

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the exponential backoff with jitter §7 mandates for
// TransientBus failures: "producer drops after a cap and logs".
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy returns the standard producer-side retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  30 * time.Second,
	}
}

// PublishWithRetry publishes payload to topic/key, retrying
// TransientPublishFailure with exponential backoff and jitter up to
// policy.MaxElapsedTime. A PermanentPublishFailure is never retried. On
// exhaustion the last transient error is returned so the caller can drop
// and log per §4.3 step 5.
func PublishWithRetry(ctx context.Context, b *Bus, policy RetryPolicy, topic, key string, payload []byte) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval
	bo.MaxInterval = policy.MaxInterval
	bo.MaxElapsedTime = policy.MaxElapsedTime

	var permanent *PermanentPublishFailure

	operation := func() error {
		err := b.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}
		if errors.As(err, &permanent) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}
