package geocache

import (
	"testing"
	"time"

	"github.com/Bahtiyorjon05/salat/internal/geo"
	"github.com/Bahtiyorjon05/salat/internal/prayer"
)

func testLocation() geo.LocationInfo {
	return geo.LocationInfo{
		Latitude:  40.0,
		Longitude: -73.0,
		City:      "New York",
		Country:   "United States",
		Source:    geo.SourceIP,
	}
}

func testTimes(date string) prayer.PrayerTimes {
	return prayer.PrayerTimes{
		Fajr:    "05:00",
		Sunrise: "06:30",
		Dhuhr:   "12:00",
		Asr:     "15:30",
		Maghrib: "18:00",
		Isha:    "19:30",
		Date:    date,
		Source:  prayer.SourceProvider,
	}
}

func TestLocation_RoundTrip(t *testing.T) {
	c := New(NewMemStore())
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if got := c.LoadLocation(now); got != nil {
		t.Fatalf("LoadLocation on empty cache = %+v, want nil", got)
	}

	loc := testLocation()
	if err := c.SaveLocation(loc, now); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}

	got := c.LoadLocation(now.Add(time.Hour))
	if got == nil {
		t.Fatal("LoadLocation after save = nil, want hit")
	}
	if *got != loc {
		t.Errorf("LoadLocation = %+v, want %+v", *got, loc)
	}
}

func TestLocation_TTL(t *testing.T) {
	c := New(NewMemStore())
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if err := c.SaveLocation(testLocation(), now); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}

	// Six days later: still valid.
	if got := c.LoadLocation(now.Add(6 * 24 * time.Hour)); got == nil {
		t.Error("LoadLocation at 6 days = nil, want hit (7-day TTL)")
	}

	// Seven days later: expired.
	if got := c.LoadLocation(now.Add(7 * 24 * time.Hour)); got != nil {
		t.Error("LoadLocation at 7 days = hit, want miss")
	}
}

func TestTimings_FingerprintTolerance(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	date := "2026-03-02"
	stored := geo.Fingerprint{Latitude: 40.0, Longitude: -73.0}

	tests := []struct {
		name  string
		query geo.Fingerprint
		want  bool
	}{
		{"exact", geo.Fingerprint{Latitude: 40.0, Longitude: -73.0}, true},
		{"within half degree", geo.Fingerprint{Latitude: 40.3, Longitude: -73.3}, true},
		{"edge of tolerance", geo.Fingerprint{Latitude: 40.5, Longitude: -73.0}, true},
		{"one degree apart", geo.Fingerprint{Latitude: 41.0, Longitude: -73.0}, false},
		{"longitude out", geo.Fingerprint{Latitude: 40.0, Longitude: -73.6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(NewMemStore())
			if err := c.SaveTimings(stored, testTimes(date), now); err != nil {
				t.Fatalf("SaveTimings: %v", err)
			}

			got := c.LoadTimings(tt.query, date, now)
			if (got != nil) != tt.want {
				t.Errorf("LoadTimings(%+v) hit = %v, want %v", tt.query, got != nil, tt.want)
			}
		})
	}
}

func TestTimings_DayRollover(t *testing.T) {
	c := New(NewMemStore())
	fp := geo.Fingerprint{Latitude: 40.0, Longitude: -73.0}

	// Captured at 23:59 on day D.
	captured := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	if err := c.SaveTimings(fp, testTimes("2026-03-02"), captured); err != nil {
		t.Fatalf("SaveTimings: %v", err)
	}

	// 00:01 on day D+1 is a miss regardless of location match, even though
	// only two minutes elapsed.
	queried := time.Date(2026, 3, 3, 0, 1, 0, 0, time.UTC)
	if got := c.LoadTimings(fp, "2026-03-03", queried); got != nil {
		t.Error("LoadTimings after day rollover = hit, want miss")
	}

	// Same day, same fingerprint: still a hit.
	if got := c.LoadTimings(fp, "2026-03-02", captured.Add(-time.Hour)); got == nil {
		t.Error("LoadTimings same day = miss, want hit")
	}
}

func TestTimings_ReplacementIsAtomic(t *testing.T) {
	c := New(NewMemStore())
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	fp := geo.Fingerprint{Latitude: 40.0, Longitude: -73.0}

	if err := c.SaveTimings(fp, testTimes("2026-03-02"), now); err != nil {
		t.Fatalf("SaveTimings: %v", err)
	}

	replacement := testTimes("2026-03-02")
	replacement.Fajr = "05:05"
	if err := c.SaveTimings(fp, replacement, now); err != nil {
		t.Fatalf("SaveTimings replacement: %v", err)
	}

	got := c.LoadTimings(fp, "2026-03-02", now)
	if got == nil {
		t.Fatal("LoadTimings after replacement = nil")
	}
	if got.Fajr != "05:05" {
		t.Errorf("LoadTimings.Fajr = %q, want the replacement value", got.Fajr)
	}
}

func TestCorruptedEntryIsMiss(t *testing.T) {
	store := NewMemStore()
	c := New(store)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if err := store.Write(locationKey, []byte("{not json")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Write(timingsKey, []byte("{not json")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if got := c.LoadLocation(now); got != nil {
		t.Error("LoadLocation on corrupted entry = hit, want miss")
	}
	fp := geo.Fingerprint{Latitude: 40.0, Longitude: -73.0}
	if got := c.LoadTimings(fp, "2026-03-02", now); got != nil {
		t.Error("LoadTimings on corrupted entry = hit, want miss")
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	first, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := first.SaveLocation(testLocation(), now); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}

	// A fresh cache over the same directory sees the entry.
	second, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if got := second.LoadLocation(now); got == nil {
		t.Error("LoadLocation from second instance = nil, want persisted hit")
	}
}

func TestClear(t *testing.T) {
	c := New(NewMemStore())
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	fp := geo.Fingerprint{Latitude: 40.0, Longitude: -73.0}

	if err := c.SaveLocation(testLocation(), now); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	if err := c.SaveTimings(fp, testTimes("2026-03-02"), now); err != nil {
		t.Fatalf("SaveTimings: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if c.LoadLocation(now) != nil || c.LoadTimings(fp, "2026-03-02", now) != nil {
		t.Error("entries survived Clear")
	}
}
