package prayer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Bahtiyorjon05/salat/internal/api"
	"github.com/Bahtiyorjon05/salat/internal/geo"
)

// fakeCache is an in-memory prayer.Cache recording saves.
type fakeCache struct {
	entry   *PrayerTimes
	entryFP geo.Fingerprint
	saves   int
}

func (f *fakeCache) LoadTimings(fp geo.Fingerprint, date string, now time.Time) *PrayerTimes {
	if f.entry == nil || f.entry.Date != date || !f.entryFP.Within(fp, 0.5) {
		return nil
	}
	return f.entry
}

func (f *fakeCache) SaveTimings(fp geo.Fingerprint, times PrayerTimes, now time.Time) error {
	f.entry = &times
	f.entryFP = fp
	f.saves++
	return nil
}

const timingsBody = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {
      "Fajr": "05:12 (EET)",
      "Sunrise": "06:38",
      "Dhuhr": "12:24:30",
      "Asr": "15:31",
      "Maghrib": "18:02",
      "Isha": "19:21"
    },
    "date": {
      "hijri": {
        "date": "12-09-1447",
        "day": "12",
        "weekday": {"en": "Monday"},
        "month": {"number": 9, "en": "Ramadan"},
        "year": "1447"
      },
      "gregorian": {"date": "02-03-2026"}
    },
    "meta": {"latitude": 41.31, "longitude": 69.24, "timezone": "Asia/Tashkent"}
  }
}`

func newTestService(t *testing.T, handler http.HandlerFunc, cache Cache, now time.Time) (*Service, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient()
	client.BaseURL = server.URL

	svc := NewService(client, cache)
	svc.now = func() time.Time { return now }
	return svc, server
}

func testLocation() geo.LocationInfo {
	return geo.LocationInfo{Latitude: 41.31, Longitude: 69.24, City: "Tashkent", Country: "Uzbekistan"}
}

func TestFetch_ProviderSuccess(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	cache := &fakeCache{}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timingsBody)
	}, cache, now)

	times := svc.Fetch(context.Background(), testLocation(), now, -1, api.SchoolStandard)

	if times.Source != SourceProvider {
		t.Errorf("Source = %q, want %q", times.Source, SourceProvider)
	}
	// Timezone suffix and seconds are stripped.
	if times.Fajr != "05:12" {
		t.Errorf("Fajr = %q, want %q", times.Fajr, "05:12")
	}
	if times.Dhuhr != "12:24" {
		t.Errorf("Dhuhr = %q, want %q", times.Dhuhr, "12:24")
	}
	if times.HijriDate != "12 Ramadan 1447 AH" {
		t.Errorf("HijriDate = %q, want %q", times.HijriDate, "12 Ramadan 1447 AH")
	}
	if cache.saves != 1 {
		t.Errorf("cache saves = %d, want 1 (today's fetch is cached)", cache.saves)
	}
}

func TestFetch_CacheHit(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	var requests atomic.Int64

	cached := testTimes()
	cached.Source = SourceProvider
	cache := &fakeCache{entry: &cached, entryFP: geo.Fingerprint{Latitude: 41.31, Longitude: 69.24}}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, timingsBody)
	}, cache, now)

	times := svc.Fetch(context.Background(), testLocation(), now, -1, api.SchoolStandard)

	if times.Source != SourceCache {
		t.Errorf("Source = %q, want %q", times.Source, SourceCache)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("provider requests = %d, want 0 on cache hit", n)
	}
}

func TestFetch_FallbackNeverErrors(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed payload", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code": 200, "data": "not an object"`)
		}},
		{"api-level error", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code": 400, "status": "Bad Request"}`)
		}},
		{"out-of-order schedule", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code":200,"status":"OK","data":{"timings":{
				"Fajr":"05:12","Sunrise":"06:38","Dhuhr":"15:31","Asr":"12:24",
				"Maghrib":"18:02","Isha":"19:21"},"date":{},"meta":{}}}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &fakeCache{}
			svc, _ := newTestService(t, tt.handler, cache, now)

			times := svc.Fetch(context.Background(), testLocation(), now, -1, api.SchoolStandard)

			if times.Source != SourceFallback {
				t.Errorf("Source = %q, want %q", times.Source, SourceFallback)
			}
			if times.Fajr != "05:30" {
				t.Errorf("Fajr = %q, want the static fallback value", times.Fajr)
			}
			if cache.saves != 0 {
				t.Errorf("cache saves = %d, want 0 (fallback is never cached)", cache.saves)
			}
		})
	}
}

func TestFetch_TimeoutFallsBack(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	cache := &fakeCache{}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		fmt.Fprint(w, timingsBody)
	}, cache, now)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	times := svc.Fetch(ctx, testLocation(), now, -1, api.SchoolStandard)

	if times.Source != SourceFallback {
		t.Errorf("Source = %q, want %q on timeout", times.Source, SourceFallback)
	}
	if cache.saves != 0 {
		t.Errorf("cache saves = %d, want 0 after a cancelled fetch", cache.saves)
	}
}

func TestFetch_NonTodayNotCached(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)
	cache := &fakeCache{}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timingsBody)
	}, cache, now)

	times := svc.Fetch(context.Background(), testLocation(), tomorrow, -1, api.SchoolStandard)

	if times.Source != SourceProvider {
		t.Errorf("Source = %q, want %q", times.Source, SourceProvider)
	}
	if cache.saves != 0 {
		t.Errorf("cache saves = %d, want 0 (only today's schedule is cached)", cache.saves)
	}
}

func TestFetch_SchoolForwarded(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	var gotSchool string

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotSchool = r.URL.Query().Get("school")
		fmt.Fprint(w, timingsBody)
	}, nil, now)

	svc.Fetch(context.Background(), testLocation(), now, -1, api.SchoolHanafi)

	if gotSchool != "1" {
		t.Errorf("school query param = %q, want %q", gotSchool, "1")
	}
}
