package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClient implements Feed against two HTTP endpoints returning JSON
// bodies of the shape {"value": <int>} on 2xx, treated as permanent on 4xx
// and transient on 5xx/network failure/timeout (§6 upstream feed shape).
//
// Each leg carries its own rate.Limiter so a burst of polling cycles
// across many locations cannot exceed the upstream's request quota even
// when FANOUT_CONCURRENCY lets many calls race concurrently.
type HTTPClient struct {
	TrafficBaseURL string
	AQIBaseURL     string
	HTTP           *http.Client

	trafficLimiter *rate.Limiter
	aqiLimiter     *rate.Limiter
}

// NewHTTPClient constructs an HTTPClient with a private http.Client tuned
// for short-lived per-call deadlines; callers still pass ctx deadlines per
// call, this Timeout is only a hard backstop. ratePerSecond bounds each
// leg independently; a non-positive value disables limiting.
func NewHTTPClient(trafficBaseURL, aqiBaseURL string, ratePerSecond float64) *HTTPClient {
	c := &HTTPClient{
		TrafficBaseURL: trafficBaseURL,
		AQIBaseURL:     aqiBaseURL,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	if ratePerSecond > 0 {
		burst := int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}
		c.trafficLimiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
		c.aqiLimiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return c
}

func (c *HTTPClient) FetchTraffic(ctx context.Context, location string, deadline time.Time) (Result, error) {
	return c.fetch(ctx, KindTraffic, c.TrafficBaseURL, c.trafficLimiter, location, deadline)
}

func (c *HTTPClient) FetchAQI(ctx context.Context, location string, deadline time.Time) (Result, error) {
	return c.fetch(ctx, KindAQI, c.AQIBaseURL, c.aqiLimiter, location, deadline)
}

func (c *HTTPClient) fetch(ctx context.Context, kind Kind, baseURL string, limiter *rate.Limiter, location string, deadline time.Time) (Result, error) {
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return Result{}, &TransientError{Location: location, Kind: kind, Reason: "rate limit wait: " + err.Error()}
		}
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return Result{}, &PermanentError{Location: location, Kind: kind, Reason: err.Error()}
	}
	q := u.Query()
	q.Set("location", location)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, &PermanentError{Location: location, Kind: kind, Reason: err.Error()}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Result{}, &TransientError{Location: location, Kind: kind, Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Result{}, &TransientError{Location: location, Kind: kind, Reason: err.Error()}
	}

	switch {
	case resp.StatusCode >= 500:
		return Result{}, &TransientError{Location: location, Kind: kind, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return Result{}, &PermanentError{Location: location, Kind: kind, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 300:
		return Result{}, &TransientError{Location: location, Kind: kind, Reason: fmt.Sprintf("unexpected redirect status %d", resp.StatusCode)}
	}

	var payload struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, &PermanentError{Location: location, Kind: kind, Reason: "malformed response body"}
	}

	return Result{Value: payload.Value, OK: true}, nil
}
