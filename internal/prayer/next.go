package prayer

import (
	"fmt"
	"time"
)

// TomorrowSentinel is returned as TimeUntil when every prayer has passed.
// It is a sentinel, not a computed duration: tomorrow's Fajr can shift
// slightly day to day, so the engine does not pretend to know it.
const TomorrowSentinel = "Tomorrow"

// NextPrayerResult names the next unoccurred prayer with a live countdown.
// Its validity window is seconds; callers re-evaluate on a fixed interval
// and never cache it.
type NextPrayerResult struct {
	Name      string `json:"name"`
	Time      string `json:"time"`
	TimeUntil string `json:"time_until"`
}

// Next returns the first prayer whose time is still ahead of now, scanning
// Fajr through Isha. Sunrise is excluded. When every prayer has passed, it
// returns Fajr with the Tomorrow sentinel. Pure and reentrant; the caller
// owns the re-evaluation timer.
func Next(times PrayerTimes, now time.Time) NextPrayerResult {
	nowMins := now.Hour()*60 + now.Minute()

	for _, name := range Names {
		clock := times.At(name)
		mins, err := MinutesOfDay(clock)
		if err != nil {
			continue
		}
		if mins > nowMins {
			return NextPrayerResult{
				Name:      name,
				Time:      clock,
				TimeUntil: FormatRemaining(mins - nowMins),
			}
		}
	}

	return NextPrayerResult{
		Name:      "Fajr",
		Time:      times.Fajr,
		TimeUntil: TomorrowSentinel,
	}
}

// FormatRemaining formats a minute count as "Xh Ym", or "Ym" under an hour.
func FormatRemaining(mins int) string {
	if mins < 0 {
		mins = 0
	}
	if mins >= 60 {
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	}
	return fmt.Sprintf("%dm", mins)
}
