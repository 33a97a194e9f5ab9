package model

import "time"

// RealtimeRow is the mutable real-time set row the Speed Layer maintains
// (§3). Rows are keyed by (Location, Timestamp); eviction marks them
// inactive rather than deleting them immediately.
type RealtimeRow struct {
	LocationSample
	ProcessingTimestamp time.Time
	IsActive            bool
}

// HourlyAggregation is the conflict-free upsert row keyed by
// (Date, Hour, Location). TrafficCount and AQICount track per-metric sample
// counts independently so averaging one metric never double-counts a
// sample that lacked the other (§9 open question 2).
type HourlyAggregation struct {
	Date            time.Time
	Hour            int
	Location        string
	AvgTrafficLevel *float64
	AvgAQIValue     *float64
	TrafficCount    int
	AQICount        int
	TotalRecords    int
	IsPeakHour      bool
	UpdatedAt       time.Time
}

// DailyAggregation is the idempotent rebuild row keyed by (Date, Location,
// Hour), Hour being nullable when the row summarizes the whole day.
type DailyAggregation struct {
	Date             time.Time
	Location         string
	Hour             *int
	AvgTrafficLevel  *float64
	MinTrafficLevel  *int
	MaxTrafficLevel  *int
	AvgAQIValue      *float64
	MinAQIValue      *int
	MaxAQIValue      *int
	DataPointsCount  int
	IsPeakHour       bool
}

// PeakHourSummary names the single busiest traffic hour and the single
// worst AQI hour observed for a calendar date.
type PeakHourSummary struct {
	AnalysisDate      time.Time
	PeakTrafficHour   int
	PeakTrafficLoc    string
	PeakTrafficAvg    float64
	PeakAQIHour       int
	PeakAQILoc        string
	PeakAQIAvg        float64
}

// RawRecord is the append-only log entry the Ingestion Poller writes for
// every sample it emits, including derived fields, so the Batch Layer can
// reconstruct aggregations independently of the Speed Layer.
type RawRecord struct {
	ID string // ULID, time-sortable
	LocationSample
}
