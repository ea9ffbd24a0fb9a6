// Package geo resolves the user's location through an ordered fallback chain:
// cached location, IP-based geolocation, and an explicitly user-triggered
// device GPS fix.
package geo

import (
	"errors"
	"math"
	"time"
)

// Source records which tier of the resolution chain produced a location.
type Source string

const (
	SourceCache Source = "cache"
	SourceIP    Source = "ip"
	SourceGPS   Source = "gps"
	// SourceManual marks a location pinned by flag or config rather than
	// produced by the resolution chain.
	SourceManual Source = "manual"
)

// Typed resolution errors. The caller decides whether to prompt for GPS
// permission or fall back to a manual location; this package never guesses.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
	ErrTimeout          = errors.New("location request timed out")
	ErrUnresolved       = errors.New("location could not be resolved")
)

// LocationInfo is a resolved user location. Immutable once constructed;
// a new resolution always produces a new value.
type LocationInfo struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	Region     string    `json:"region,omitempty"`
	Timezone   string    `json:"timezone,omitempty"`
	Source     Source    `json:"source"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Fingerprint is a coordinate pair used as a cache key, compared with a
// tolerance rather than exact equality.
type Fingerprint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FingerprintOf derives the cache fingerprint for a location.
func FingerprintOf(loc LocationInfo) Fingerprint {
	return Fingerprint{Latitude: loc.Latitude, Longitude: loc.Longitude}
}

// Within reports whether both axes of f are within tol degrees of other.
func (f Fingerprint) Within(other Fingerprint, tol float64) bool {
	return math.Abs(f.Latitude-other.Latitude) <= tol &&
		math.Abs(f.Longitude-other.Longitude) <= tol
}
