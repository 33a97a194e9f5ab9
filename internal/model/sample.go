// Package model defines the core entities that flow through the pipeline:
// LocationSample, RealtimeRow, HourlyAggregation, DailyAggregation,
// PeakHourSummary, and RawRecord.
package model

import (
	"fmt"
	"time"
)

// AQICategory is the derived AQI band tag.
type AQICategory string

const (
	AQIGood                AQICategory = "Good"
	AQIModerate            AQICategory = "Moderate"
	AQIUnhealthySensitive  AQICategory = "UnhealthySensitive"
	AQIUnhealthy           AQICategory = "Unhealthy"
	AQIVeryUnhealthy       AQICategory = "VeryUnhealthy"
	AQIHazardous           AQICategory = "Hazardous"
)

// LocationSample is the transient record produced by the Ingestion Poller,
// carried on the bus, and appended to the raw log.
type LocationSample struct {
	Timestamp     time.Time
	Location      string
	Latitude      float64
	Longitude     float64
	AQIValue      *int
	TrafficLevel  *int
	AQICategory   *AQICategory
	IsPeakHour    bool
}

// Validate enforces the sample's data-contract invariants (§3, §7
// DataContract errors). It does not set derived fields; call Derive first.
func (s *LocationSample) Validate() error {
	if s.Location == "" {
		return fmt.Errorf("%w: location is empty", ErrDataContract)
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrDataContract, s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrDataContract, s.Longitude)
	}
	if s.AQIValue == nil && s.TrafficLevel == nil {
		return fmt.Errorf("%w: sample for %s at %s has neither metric present",
			ErrDataContract, s.Location, s.Timestamp)
	}
	if s.AQIValue != nil && *s.AQIValue < 0 {
		return fmt.Errorf("%w: negative AQI value %d", ErrDataContract, *s.AQIValue)
	}
	if s.TrafficLevel != nil && (*s.TrafficLevel < 1 || *s.TrafficLevel > 5) {
		return fmt.Errorf("%w: traffic level %d out of [1,5]", ErrDataContract, *s.TrafficLevel)
	}
	return nil
}

// Derive sets AQICategory and IsPeakHour from the sample's current fields.
// It is deterministic and side-effect free beyond the receiver (§4.3 step 4).
func (s *LocationSample) Derive(clock LocalClock) {
	if s.AQIValue != nil {
		cat := ClassifyAQI(*s.AQIValue)
		s.AQICategory = &cat
	} else {
		s.AQICategory = nil
	}
	s.IsPeakHour = clock.IsPeakHour(s.Timestamp)
}

// ClassifyAQI maps an AQI integer to its band per §3:
// 0–50 Good, 51–100 Moderate, 101–150 UnhealthySensitive,
// 151–200 Unhealthy, 201–300 VeryUnhealthy, 301+ Hazardous.
func ClassifyAQI(aqi int) AQICategory {
	switch {
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthySensitive
	case aqi <= 200:
		return AQIUnhealthy
	case aqi <= 300:
		return AQIVeryUnhealthy
	default:
		return AQIHazardous
	}
}
