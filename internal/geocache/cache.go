// Package geocache persists the last resolved location and today's prayer
// times, each tagged with a timestamp and a geographic fingerprint. Reads
// never fail: a missing, expired, or corrupted entry is a miss, so callers
// always have a fetch fallback path.
package geocache

import (
	"encoding/json"
	"time"

	"github.com/golang/geo/s2"
	"github.com/rs/zerolog/log"

	"github.com/Bahtiyorjon05/salat/internal/geo"
	"github.com/Bahtiyorjon05/salat/internal/prayer"
)

const (
	locationKey = "location.json"
	timingsKey  = "timings.json"

	// LocationTTL is how long a resolved location stays reusable.
	LocationTTL = 7 * 24 * time.Hour

	// CoordTolerance is the per-axis degree tolerance for prayer-time
	// fingerprint matches, roughly 50 km. Kept degree-based deliberately
	// even though the true distance varies with latitude.
	CoordTolerance = 0.5
)

// Cache is the geo cache. Entries are immutable value replacements: an
// update discards the old entry and writes a whole new one.
type Cache struct {
	store Store
}

// New creates a cache over the given store.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// NewFileCache creates a file-backed cache rooted at dir
// (default ~/.cache/salat/).
func NewFileCache(dir string) (*Cache, error) {
	store, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

// locationEntry is the stored envelope for the last resolved location.
type locationEntry struct {
	Location   geo.LocationInfo `json:"location"`
	CapturedAt time.Time        `json:"captured_at"`
}

// timingsEntry is the stored envelope for today's prayer times.
type timingsEntry struct {
	Times       prayer.PrayerTimes `json:"times"`
	Fingerprint geo.Fingerprint    `json:"fingerprint"`
	CapturedAt  time.Time          `json:"captured_at"`
}

// LoadLocation returns the cached location if it is younger than LocationTTL.
// A cache hit is reused verbatim, with no distance tolerance.
func (c *Cache) LoadLocation(now time.Time) *geo.LocationInfo {
	data, err := c.store.Read(locationKey)
	if err != nil {
		return nil
	}

	var entry locationEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if now.Sub(entry.CapturedAt) >= LocationTTL {
		return nil
	}

	return &entry.Location
}

// SaveLocation stores a freshly resolved location, replacing any prior entry.
func (c *Cache) SaveLocation(loc geo.LocationInfo, now time.Time) error {
	data, err := json.Marshal(locationEntry{Location: loc, CapturedAt: now})
	if err != nil {
		return err
	}
	return c.store.Write(locationKey, data)
}

// LoadTimings returns the cached schedule when it is dated to the same local
// calendar day and its fingerprint is within CoordTolerance of fp. Day
// comparison is by calendar date string, not a rolling 24h window: an entry
// captured at 23:59 misses two minutes later.
func (c *Cache) LoadTimings(fp geo.Fingerprint, date string, now time.Time) *prayer.PrayerTimes {
	data, err := c.store.Read(timingsKey)
	if err != nil {
		return nil
	}

	var entry timingsEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if entry.Times.Date != date {
		return nil
	}
	if entry.CapturedAt.Format("2006-01-02") != now.Format("2006-01-02") {
		return nil
	}
	if !entry.Fingerprint.Within(fp, CoordTolerance) {
		log.Debug().
			Float64("distance_km", distanceKm(entry.Fingerprint, fp)).
			Msg("prayer time cache fingerprint out of tolerance")
		return nil
	}

	return &entry.Times
}

// SaveTimings stores a freshly fetched schedule, replacing any prior entry.
func (c *Cache) SaveTimings(fp geo.Fingerprint, times prayer.PrayerTimes, now time.Time) error {
	data, err := json.Marshal(timingsEntry{Times: times, Fingerprint: fp, CapturedAt: now})
	if err != nil {
		return err
	}
	return c.store.Write(timingsKey, data)
}

// Clear drops both entries.
func (c *Cache) Clear() error {
	if err := c.store.Delete(locationKey); err != nil {
		return err
	}
	return c.store.Delete(timingsKey)
}

const earthRadiusKm = 6371.0088

// distanceKm is the great-circle distance between two fingerprints.
func distanceKm(a, b geo.Fingerprint) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * earthRadiusKm
}
