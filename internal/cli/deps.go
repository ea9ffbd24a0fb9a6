package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Bahtiyorjon05/salat/internal/api"
	"github.com/Bahtiyorjon05/salat/internal/config"
	"github.com/Bahtiyorjon05/salat/internal/geo"
	"github.com/Bahtiyorjon05/salat/internal/geocache"
	"github.com/Bahtiyorjon05/salat/internal/prayer"
)

// newCache builds the file-backed geo cache. Cache init failure is
// non-fatal: caching is skipped and a warning goes to stderr.
func newCache(cfg *config.Config) (*geocache.Cache, string) {
	store, err := geocache.NewFileStore(cfg.CacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		return nil, ""
	}
	return geocache.New(store), store.Dir()
}

// newResolver wires the location resolver with the configured GPS command.
func newResolver(cfg *config.Config, cache *geocache.Cache, stateDir string) *geo.Resolver {
	// An interface holding a typed nil is not nil; only assign a live cache.
	var locCache geo.Cache
	if cache != nil {
		locCache = cache
	}
	positioner := geo.NewCommandPositioner(cfg.GPSCommand, stateDir)
	return geo.NewResolver(locCache, nil, positioner, geo.NewReverseGeocoder())
}

// newPrayerService wires the prayer-time service over the same cache.
func newPrayerService(cache *geocache.Cache) *prayer.Service {
	var timingsCache prayer.Cache
	if cache != nil {
		timingsCache = cache
	}
	return prayer.NewService(api.NewClient(), timingsCache)
}

// resolveForCommand determines the effective location for a command.
// Priority: explicit coordinates (flag/config) > cached location > IP
// geolocation. GPS is never attempted here; it is its own command.
func resolveForCommand(ctx context.Context, cfg *config.Config, cache *geocache.Cache, stateDir string) (*geo.LocationInfo, error) {
	if cfg.Latitude != 0 || cfg.Longitude != 0 {
		return &geo.LocationInfo{
			Latitude:   cfg.Latitude,
			Longitude:  cfg.Longitude,
			City:       cfg.City,
			Country:    cfg.Country,
			Source:     geo.SourceManual,
			ResolvedAt: time.Now(),
		}, nil
	}

	loc, err := newResolver(cfg, cache, stateDir).Resolve(ctx)
	if err != nil {
		if errors.Is(err, geo.ErrUnresolved) {
			return nil, fmt.Errorf("could not determine your location: %w\n(try `salat locate --gps`, or `salat config set latitude <value>`)", err)
		}
		return nil, err
	}
	return loc, nil
}

// locationLine builds a "City, Country" display string, falling back to
// formatted coordinates.
func locationLine(loc geo.LocationInfo) string {
	if loc.City != "" && loc.Country != "" {
		return loc.City + ", " + loc.Country
	}
	if loc.City != "" {
		return loc.City
	}
	return geo.FormatCoordinates(loc.Latitude, loc.Longitude)
}

// goTimeLayout maps the config time_format to a Go time layout.
func goTimeLayout(timeFormat string) string {
	if timeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
