// Package config loads the pipeline's environment-driven configuration
// (§6), including the path of the static location-set file; the file
// itself is parsed by package locations.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-driven setting from §6. Zero-value fields
// are never used directly; Load always fills defaults before validating.
type Config struct {
	PollIntervalSeconds          int
	UpstreamTimeoutSeconds       int
	FanoutConcurrency            int
	RealtimeRetentionSeconds     int
	RealtimeEvictionIntervalSecs int

	BatchHourlyMinute   int
	BatchDailyHourLocal int
	BatchPeakHourLocal  int

	PeakHoursLocal  []int
	LocalOffsetHours int

	BusTopic string

	StorePath string

	LocationsFile string

	HealthAddr string

	TrafficUpstreamURL   string
	AQIUpstreamURL       string
	UpstreamRatePerSecond float64
}

// Default returns the documented defaults for every field (§6). Load always
// starts from this and overrides from the environment.
func Default() Config {
	return Config{
		PollIntervalSeconds:          15,
		UpstreamTimeoutSeconds:       10,
		FanoutConcurrency:            32,
		RealtimeRetentionSeconds:     3600,
		RealtimeEvictionIntervalSecs: 60,
		BatchHourlyMinute:            5,
		BatchDailyHourLocal:          2,
		BatchPeakHourLocal:           3,
		PeakHoursLocal:               []int{6, 7, 8, 9, 16, 17, 18, 19},
		LocalOffsetHours:             7,
		BusTopic:                     "traffic-aqi-data",
		StorePath:                    "trafficaqi.db",
		LocationsFile:                "locations.yaml",
		HealthAddr:                   ":8080",
		TrafficUpstreamURL:           "http://localhost:9001/traffic",
		AQIUpstreamURL:               "http://localhost:9002/aqi",
		UpstreamRatePerSecond:        20,
	}
}

// Load reads environment variables on top of Default(), validates the
// result, and returns a ConfigError (§7, fatal at startup) on any problem.
func Load(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	var err error
	if cfg.PollIntervalSeconds, err = intEnv(getenv, "POLL_INTERVAL_SECONDS", cfg.PollIntervalSeconds); err != nil {
		return cfg, err
	}
	if cfg.UpstreamTimeoutSeconds, err = intEnv(getenv, "UPSTREAM_TIMEOUT_SECONDS", cfg.UpstreamTimeoutSeconds); err != nil {
		return cfg, err
	}
	if cfg.FanoutConcurrency, err = intEnv(getenv, "FANOUT_CONCURRENCY", cfg.FanoutConcurrency); err != nil {
		return cfg, err
	}
	if cfg.RealtimeRetentionSeconds, err = intEnv(getenv, "REALTIME_RETENTION_SECONDS", cfg.RealtimeRetentionSeconds); err != nil {
		return cfg, err
	}
	if cfg.RealtimeEvictionIntervalSecs, err = intEnv(getenv, "REALTIME_EVICTION_INTERVAL_SECONDS", cfg.RealtimeEvictionIntervalSecs); err != nil {
		return cfg, err
	}
	if cfg.BatchHourlyMinute, err = intEnv(getenv, "BATCH_HOURLY_MINUTE", cfg.BatchHourlyMinute); err != nil {
		return cfg, err
	}
	if cfg.BatchDailyHourLocal, err = intEnv(getenv, "BATCH_DAILY_HOUR_LOCAL", cfg.BatchDailyHourLocal); err != nil {
		return cfg, err
	}
	if cfg.BatchPeakHourLocal, err = intEnv(getenv, "BATCH_PEAK_HOUR_LOCAL", cfg.BatchPeakHourLocal); err != nil {
		return cfg, err
	}
	if cfg.LocalOffsetHours, err = intEnv(getenv, "LOCAL_OFFSET_HOURS", cfg.LocalOffsetHours); err != nil {
		return cfg, err
	}
	if v := getenv("PEAK_HOURS_LOCAL"); v != "" {
		hours, err := parseIntList(v)
		if err != nil {
			return cfg, NewConfigError("PEAK_HOURS_LOCAL", err)
		}
		cfg.PeakHoursLocal = hours
	}
	if v := getenv("BUS_TOPIC"); v != "" {
		cfg.BusTopic = v
	}
	if v := getenv("STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := getenv("LOCATIONS_FILE"); v != "" {
		cfg.LocationsFile = v
	}
	if v := getenv("HEALTH_ADDR"); v != "" {
		cfg.HealthAddr = v
	}
	if v := getenv("TRAFFIC_UPSTREAM_URL"); v != "" {
		cfg.TrafficUpstreamURL = v
	}
	if v := getenv("AQI_UPSTREAM_URL"); v != "" {
		cfg.AQIUpstreamURL = v
	}
	if v := getenv("UPSTREAM_RATE_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return cfg, NewConfigError("UPSTREAM_RATE_PER_SECOND", err)
		}
		cfg.UpstreamRatePerSecond = f
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the invariants §6 implies: positive intervals, a sane
// batch schedule, and in-range hours.
func (c Config) Validate() error {
	if c.PollIntervalSeconds <= 0 {
		return NewConfigError("POLL_INTERVAL_SECONDS", fmt.Errorf("must be positive"))
	}
	if c.UpstreamTimeoutSeconds <= 0 {
		return NewConfigError("UPSTREAM_TIMEOUT_SECONDS", fmt.Errorf("must be positive"))
	}
	if c.FanoutConcurrency <= 0 {
		return NewConfigError("FANOUT_CONCURRENCY", fmt.Errorf("must be positive"))
	}
	if c.RealtimeRetentionSeconds <= 0 {
		return NewConfigError("REALTIME_RETENTION_SECONDS", fmt.Errorf("must be positive"))
	}
	if c.RealtimeEvictionIntervalSecs <= 0 {
		return NewConfigError("REALTIME_EVICTION_INTERVAL_SECONDS", fmt.Errorf("must be positive"))
	}
	if c.BatchHourlyMinute < 0 || c.BatchHourlyMinute > 59 {
		return NewConfigError("BATCH_HOURLY_MINUTE", fmt.Errorf("must be in [0,59]"))
	}
	if c.BatchDailyHourLocal < 0 || c.BatchDailyHourLocal > 23 {
		return NewConfigError("BATCH_DAILY_HOUR_LOCAL", fmt.Errorf("must be in [0,23]"))
	}
	if c.BatchPeakHourLocal < 0 || c.BatchPeakHourLocal > 23 {
		return NewConfigError("BATCH_PEAK_HOUR_LOCAL", fmt.Errorf("must be in [0,23]"))
	}
	for _, h := range c.PeakHoursLocal {
		if h < 0 || h > 23 {
			return NewConfigError("PEAK_HOURS_LOCAL", fmt.Errorf("hour %d out of [0,23]", h))
		}
	}
	if c.BusTopic == "" {
		return NewConfigError("BUS_TOPIC", fmt.Errorf("must not be empty"))
	}
	if c.TrafficUpstreamURL == "" {
		return NewConfigError("TRAFFIC_UPSTREAM_URL", fmt.Errorf("must not be empty"))
	}
	if c.AQIUpstreamURL == "" {
		return NewConfigError("AQI_UPSTREAM_URL", fmt.Errorf("must not be empty"))
	}
	return nil
}

// PollInterval returns the poll cadence as a time.Duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// UpstreamTimeout returns the per-call upstream deadline.
func (c Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// RealtimeRetention returns the real-time row retention window.
func (c Config) RealtimeRetention() time.Duration {
	return time.Duration(c.RealtimeRetentionSeconds) * time.Second
}

// RealtimeEvictionInterval returns the maintenance task cadence.
func (c Config) RealtimeEvictionInterval() time.Duration {
	return time.Duration(c.RealtimeEvictionIntervalSecs) * time.Second
}

func intEnv(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, NewConfigError(key, err)
	}
	return n, nil
}

func parseIntList(v string) ([]int, error) {
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
