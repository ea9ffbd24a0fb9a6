package geo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cache is the slice of the geo cache the resolver needs. A nil Cache
// disables caching; resolution still works, it just always hits the network.
type Cache interface {
	// LoadLocation returns the cached location, or nil on miss/expiry.
	LoadLocation(now time.Time) *LocationInfo
	// SaveLocation stores a freshly resolved location.
	SaveLocation(loc LocationInfo, now time.Time) error
}

// Resolver resolves the user's location. Resolve works through the automatic
// chain (cache, then IP); ResolveViaGPS is a distinct, explicitly
// user-triggered operation because it implies a permission prompt.
type Resolver struct {
	cache      Cache
	ip         *IPLocator
	positioner Positioner
	reverse    *ReverseGeocoder

	// group collapses concurrent resolutions: callers arriving while a
	// resolution is in flight await the same result instead of issuing
	// duplicate network calls.
	group singleflight.Group

	now func() time.Time
}

// NewResolver wires a resolver. cache, positioner, and reverse may be nil.
func NewResolver(cache Cache, ip *IPLocator, positioner Positioner, reverse *ReverseGeocoder) *Resolver {
	if ip == nil {
		ip = NewIPLocator()
	}
	return &Resolver{
		cache:      cache,
		ip:         ip,
		positioner: positioner,
		reverse:    reverse,
		now:        time.Now,
	}
}

// Resolve returns the user's location: cached value first (7-day TTL, reused
// verbatim), then IP geolocation. GPS is never attempted here.
func (r *Resolver) Resolve(ctx context.Context) (*LocationInfo, error) {
	v, err, _ := r.group.Do("resolve", func() (any, error) {
		return r.resolve(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*LocationInfo), nil
}

func (r *Resolver) resolve(ctx context.Context) (*LocationInfo, error) {
	now := r.now()

	if r.cache != nil {
		if cached := r.cache.LoadLocation(now); cached != nil {
			loc := *cached
			loc.Source = SourceCache
			return &loc, nil
		}
	}

	loc, err := r.ip.Locate(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("ip geolocation failed")
		return nil, fmt.Errorf("%v: %w", err, ErrUnresolved)
	}

	loc.ResolvedAt = now
	r.store(ctx, *loc, now)
	return loc, nil
}

// ResolveViaGPS acquires a device GPS fix. It must only be called in response
// to an explicit user action.
func (r *Resolver) ResolveViaGPS(ctx context.Context) (*LocationInfo, error) {
	v, err, _ := r.group.Do("gps", func() (any, error) {
		return r.resolveViaGPS(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*LocationInfo), nil
}

func (r *Resolver) resolveViaGPS(ctx context.Context) (*LocationInfo, error) {
	if r.positioner == nil {
		return nil, fmt.Errorf("no device geolocation capability: %w", ErrUnavailable)
	}

	fix, err := r.positioner.Position(ctx, DefaultPositionOptions)
	if err != nil {
		return nil, err
	}

	now := r.now()
	loc := LocationInfo{
		Latitude:   fix.Latitude,
		Longitude:  fix.Longitude,
		Source:     SourceGPS,
		ResolvedAt: now,
	}

	if r.reverse != nil {
		place := r.reverse.Locate(ctx, fix.Latitude, fix.Longitude)
		loc.City = place.City
		loc.Region = place.Region
		loc.Country = place.Country
	} else {
		loc.City = FormatCoordinates(fix.Latitude, fix.Longitude)
	}

	r.store(ctx, loc, now)
	return &loc, nil
}

// store writes the location to the cache, best-effort. A cancelled resolution
// never writes a partial entry.
func (r *Resolver) store(ctx context.Context, loc LocationInfo, now time.Time) {
	if r.cache == nil || ctx.Err() != nil {
		return
	}
	if err := r.cache.SaveLocation(loc, now); err != nil {
		log.Warn().Err(err).Msg("could not cache location")
	}
}
