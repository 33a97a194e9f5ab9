package model

import "time"

// LocalClock derives local-time facts (§5 "Timezone coupling": every
// timestamp is stored in UTC; local hours are computed by adding a fixed
// offset, and the peak-hour predicate is the only place local hours are
// consulted in the pipeline).
type LocalClock struct {
	// OffsetHours is LOCAL_OFFSET_HOURS, a fixed UTC offset (default 7).
	OffsetHours int
	// PeakHoursLocal is PEAK_HOURS_LOCAL, the configured set of local hours
	// (0-23) considered peak (default {6,7,8,9,16,17,18,19}).
	PeakHoursLocal map[int]struct{}
}

// NewLocalClock builds a LocalClock from an offset and an explicit peak-hour
// set. An empty set falls back to the documented default.
func NewLocalClock(offsetHours int, peakHours []int) LocalClock {
	if len(peakHours) == 0 {
		peakHours = []int{6, 7, 8, 9, 16, 17, 18, 19}
	}
	set := make(map[int]struct{}, len(peakHours))
	for _, h := range peakHours {
		set[h] = struct{}{}
	}
	return LocalClock{OffsetHours: offsetHours, PeakHoursLocal: set}
}

// Local returns t shifted by the fixed offset. The result is NOT a
// time.Location-aware conversion; it is the fixed-offset arithmetic §5
// mandates so the "peak hour" predicate is reproducible independent of the
// host's tzdata.
func (c LocalClock) Local(t time.Time) time.Time {
	return t.UTC().Add(time.Duration(c.OffsetHours) * time.Hour)
}

// Hour returns the local hour (0-23) of t.
func (c LocalClock) Hour(t time.Time) int {
	return c.Local(t).Hour()
}

// Date returns the local calendar date of t, truncated to midnight UTC so
// it is safe to use as a map/SQL key.
func (c LocalClock) Date(t time.Time) time.Time {
	local := c.Local(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// IsPeakHour implements I3: true iff the sample's local hour is in the
// configured PeakHoursLocal set.
func (c LocalClock) IsPeakHour(t time.Time) bool {
	_, ok := c.PeakHoursLocal[c.Hour(t)]
	return ok
}

// IsPeakHourValue reports whether an hour (already computed) is peak,
// for call sites that only have the hour and not the full timestamp
// (e.g. the Batch Layer reconstructing from stored rows).
func (c LocalClock) IsPeakHourValue(hour int) bool {
	_, ok := c.PeakHoursLocal[hour]
	return ok
}
