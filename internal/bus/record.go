package bus

import (
	"context"
	"time"
)

// Record is one decoded bus record handed to a Handler.
type Record struct {
	Topic     string
	Key       string
	Payload   []byte
	Timestamp time.Time
	Offset    int64
}

// Handler processes one record with at-least-once semantics (§4.1). The
// adapter acknowledges only after Handler returns nil; on error the record
// is redelivered after a bounded delay.
type Handler func(ctx context.Context, rec Record) error
