package scheduler

import "time"

// NextDailyAt returns a nextFire function for Cron that fires once per day
// when the wall clock (shifted by offsetHours) reaches hourLocal:minuteLocal.
func NextDailyAt(offsetHours, hourLocal, minuteLocal int) func(from time.Time) time.Time {
	return func(from time.Time) time.Time {
		local := from.UTC().Add(time.Duration(offsetHours) * time.Hour)
		candidate := time.Date(local.Year(), local.Month(), local.Day(), hourLocal, minuteLocal, 0, 0, time.UTC)
		if !candidate.After(local) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate.Add(-time.Duration(offsetHours) * time.Hour)
	}
}

// NextHourlyAtMinute returns a nextFire function for Cron that fires once
// per hour when the wall clock (shifted by offsetHours) reaches :minuteLocal.
func NextHourlyAtMinute(offsetHours, minuteLocal int) func(from time.Time) time.Time {
	return func(from time.Time) time.Time {
		local := from.UTC().Add(time.Duration(offsetHours) * time.Hour)
		candidate := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), minuteLocal, 0, 0, time.UTC)
		if !candidate.After(local) {
			candidate = candidate.Add(time.Hour)
		}
		return candidate.Add(-time.Duration(offsetHours) * time.Hour)
	}
}
