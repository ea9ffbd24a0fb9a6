// Package prayer holds the prayer-times model, the fetch service with its
// cache and static-fallback chain, and the next-prayer engine.
package prayer

import (
	"fmt"
	"strings"
)

// Source records where a PrayerTimes value came from. Callers are expected
// to show an "approximate" affordance when the source is the fallback.
type Source string

const (
	SourceCache    Source = "cache"
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Names lists the five daily prayers in wall-clock order. Sunrise is
// deliberately absent: it is informational, never a next-prayer candidate.
var Names = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// ShortNames maps prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Sunrise": "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
}

// PrayerTimes is one day's prayer schedule at one location.
// Times are local clock strings in "HH:MM" 24h form.
type PrayerTimes struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`

	// Date is the local calendar day this schedule belongs to, "YYYY-MM-DD".
	Date string `json:"date"`
	// HijriDate is the display form of the Hijri date, e.g. "10 Ramaḍān 1447 AH".
	HijriDate string `json:"hijri_date,omitempty"`

	Source Source `json:"source"`
}

// NamedTime pairs a prayer/event name with its clock string.
type NamedTime struct {
	Name string
	Time string
}

// At returns the clock string for a prayer or event name.
func (pt PrayerTimes) At(name string) string {
	switch name {
	case "Fajr":
		return pt.Fajr
	case "Sunrise":
		return pt.Sunrise
	case "Dhuhr":
		return pt.Dhuhr
	case "Asr":
		return pt.Asr
	case "Maghrib":
		return pt.Maghrib
	case "Isha":
		return pt.Isha
	default:
		return ""
	}
}

// Schedule returns the full display order including sunrise.
func (pt PrayerTimes) Schedule() []NamedTime {
	return []NamedTime{
		{"Fajr", pt.Fajr},
		{"Sunrise", pt.Sunrise},
		{"Dhuhr", pt.Dhuhr},
		{"Asr", pt.Asr},
		{"Maghrib", pt.Maghrib},
		{"Isha", pt.Isha},
	}
}

// Validate checks that the five prayers (sunrise excluded) are strictly
// increasing within the day. A schedule that is not is malformed.
func (pt PrayerTimes) Validate() error {
	prev := -1
	for _, name := range Names {
		mins, err := MinutesOfDay(pt.At(name))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if mins <= prev {
			return fmt.Errorf("%s (%s) is not after the preceding prayer", name, pt.At(name))
		}
		prev = mins
	}
	return nil
}

// NormalizeClock strips timezone suffixes and seconds from a provider time
// string, returning plain "HH:MM". Examples: "05:30 (BST)" and "05:30:15"
// both normalize to "05:30".
func NormalizeClock(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.IndexByte(s, ' '); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return "", fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return "", fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return "", fmt.Errorf("time out of range: %q", raw)
	}

	return fmt.Sprintf("%02d:%02d", hour, min), nil
}

// MinutesOfDay converts an "HH:MM" clock string to minutes since midnight.
func MinutesOfDay(clock string) (int, error) {
	var hour, min int
	if _, err := fmt.Sscanf(clock, "%d:%d", &hour, &min); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("clock out of range: %q", clock)
	}
	return hour*60 + min, nil
}

// Fallback returns the static default schedule used when no accurate
// computation is available. It is a constant: never location-accurate,
// and never cached.
func Fallback(date string) PrayerTimes {
	return PrayerTimes{
		Fajr:    "05:30",
		Sunrise: "06:45",
		Dhuhr:   "12:30",
		Asr:     "15:45",
		Maghrib: "18:15",
		Isha:    "19:45",
		Date:    date,
		Source:  SourceFallback,
	}
}
