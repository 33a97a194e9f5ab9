package upstream

import (
	"context"
	"sync"
	"time"
)

// FakeFeed is the test fake referenced by §9 ("two implementations plus a
// test fake"). Responses and failures are scripted per (kind, location).
type FakeFeed struct {
	mu        sync.Mutex
	responses map[fakeKey][]fakeResponse
	calls     map[fakeKey]int
}

type fakeKey struct {
	kind     Kind
	location string
}

type fakeResponse struct {
	result Result
	err    error
}

// NewFakeFeed returns an empty FakeFeed; use Script to queue responses.
func NewFakeFeed() *FakeFeed {
	return &FakeFeed{
		responses: make(map[fakeKey][]fakeResponse),
		calls:     make(map[fakeKey]int),
	}
}

// Script queues a response to be returned on the next call for (kind,
// location), FIFO. If the queue is exhausted, subsequent calls return a
// TransientError so tests can exercise the two-try retry path explicitly.
func (f *FakeFeed) Script(kind Kind, location string, result Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fakeKey{kind, location}
	f.responses[key] = append(f.responses[key], fakeResponse{result: result, err: err})
}

// Calls reports how many times (kind, location) has been invoked.
func (f *FakeFeed) Calls(kind Kind, location string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[fakeKey{kind, location}]
}

func (f *FakeFeed) FetchTraffic(ctx context.Context, location string, deadline time.Time) (Result, error) {
	return f.next(KindTraffic, location)
}

func (f *FakeFeed) FetchAQI(ctx context.Context, location string, deadline time.Time) (Result, error) {
	return f.next(KindAQI, location)
}

func (f *FakeFeed) next(kind Kind, location string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fakeKey{kind, location}
	f.calls[key]++
	queue := f.responses[key]
	if len(queue) == 0 {
		return Result{}, &TransientError{Location: location, Kind: kind, Reason: "fake feed: no scripted response"}
	}
	next := queue[0]
	f.responses[key] = queue[1:]
	return next.result, next.err
}
