// Package bus provides a thin publish/subscribe wrapper (§4.1) over an
// ordered, partitioned, at-least-once message bus. The default
// implementation is an in-process watermill gochannel pub/sub; production
// deployments swap the underlying watermill Publisher/Subscriber pair for
// a Kafka or NATS binding without touching call sites.
package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

const metadataKeyField = "key"

// Options configures the Bus.
type Options struct {
	// BufferSize bounds the in-process channel buffer per topic; once full,
	// Publish blocks, giving the back-pressure behaviour §4.1 requires
	// (the adapter never buffers unboundedly).
	BufferSize int64

	// RedeliveryDelay is the bounded delay before a nacked record is
	// redelivered (§4.1).
	RedeliveryDelay time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		BufferSize:      1024,
		RedeliveryDelay: 2 * time.Second,
	}
}

// Bus is the Bus Adapter of §4.1.
type Bus struct {
	pubsub  *gochannel.GoChannel
	opts    Options
	log     *zap.SugaredLogger
	closed  bool
	closeMu sync.RWMutex
	wg      sync.WaitGroup
}

// New creates a Bus backed by an in-process gochannel pub/sub.
func New(opts Options, log *zap.SugaredLogger) *Bus {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultOptions().BufferSize
	}
	if opts.RedeliveryDelay <= 0 {
		opts.RedeliveryDelay = DefaultOptions().RedeliveryDelay
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            opts.BufferSize,
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, watermill.NopLogger{})

	return &Bus{pubsub: pubsub, opts: opts, log: log}
}

// Publish sends payload to topic, keyed so records for the same key
// preserve order (§4.1). It fails fast with PermanentPublishFailure if the
// payload exceeds MaxPayloadBytes, or TransientPublishFailure if the
// broker rejects the publish (callers retry with backoff; see
// internal/bus.PublishWithRetry).
func (b *Bus) Publish(ctx context.Context, topic, key string, payload []byte) error {
	if len(payload) > MaxPayloadBytes {
		return &PermanentPublishFailure{Topic: topic, Size: len(payload)}
	}

	b.closeMu.RLock()
	if b.closed {
		b.closeMu.RUnlock()
		return ErrBusClosed
	}
	b.closeMu.RUnlock()

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataKeyField, key)
	msg.Metadata.Set("published_at", time.Now().UTC().Format(time.RFC3339Nano))
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return &TransientPublishFailure{Topic: topic, Cause: err}
	}
	return nil
}

// Subscribe runs a long-lived consumer for topic under group, invoking
// handler once per record (§4.1). Messages for a topic are delivered to
// the single consuming goroutine in publish order, so per-key ordering is
// automatically preserved. On handler error the record is nacked and
// republished after RedeliveryDelay (simulating a bus-native redelivery)
// so at-least-once semantics hold without the consumer blocking forever
// on one poison record — it still blocks that topic's progress, which is
// the intended back-pressure behaviour.
func (b *Bus) Subscribe(ctx context.Context, topic, group string, handler Handler) error {
	msgs, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("bus: subscribe %s/%s: %w", topic, group, err)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		var offset int64
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				offset++
				b.handleOne(ctx, topic, handler, msg, offset)
			}
		}
	}()
	return nil
}

func (b *Bus) handleOne(ctx context.Context, topic string, handler Handler, msg *message.Message, offset int64) {
	rec := Record{
		Topic:     topic,
		Key:       msg.Metadata.Get(metadataKeyField),
		Payload:   msg.Payload,
		Timestamp: time.Now().UTC(),
		Offset:    offset,
	}

	if err := handler(ctx, rec); err != nil {
		b.log.Warnw("bus: handler failed, scheduling redelivery",
			"topic", topic, "key", rec.Key, "offset", offset, "error", err)
		msg.Nack()
		b.scheduleRedelivery(ctx, topic, msg)
		return
	}
	msg.Ack()
}

// scheduleRedelivery republishes msg to the same topic after the
// configured delay, preserving its key so ordering for that key is not
// violated relative to records published after it.
func (b *Bus) scheduleRedelivery(ctx context.Context, topic string, msg *message.Message) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		select {
		case <-ctx.Done():
			return
		case <-time.After(b.opts.RedeliveryDelay):
		}

		b.closeMu.RLock()
		closed := b.closed
		b.closeMu.RUnlock()
		if closed {
			return
		}

		redelivered := msg.Copy()
		if err := b.pubsub.Publish(topic, redelivered); err != nil {
			b.log.Errorw("bus: redelivery publish failed", "topic", topic, "error", err)
		}
	}()
}

// Close gracefully shuts down the bus, waiting for in-flight redelivery
// goroutines to observe cancellation.
func (b *Bus) Close() error {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return nil
	}
	b.closed = true
	b.closeMu.Unlock()

	err := b.pubsub.Close()
	b.wg.Wait()
	return err
}

// Ping reports whether the bus is usable, for the readiness probe (§6).
func (b *Bus) Ping(ctx context.Context) error {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	return nil
}
