package prayer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bahtiyorjon05/salat/internal/api"
	"github.com/Bahtiyorjon05/salat/internal/geo"
)

// Cache is the slice of the geo cache the service needs. A nil Cache
// disables caching.
type Cache interface {
	// LoadTimings returns a cached schedule for the fingerprint and local
	// calendar date, or nil on miss.
	LoadTimings(fp geo.Fingerprint, date string, now time.Time) *PrayerTimes
	// SaveTimings stores a freshly fetched schedule.
	SaveTimings(fp geo.Fingerprint, times PrayerTimes, now time.Time) error
}

// Service resolves a day's prayer times: cache first, then the remote
// provider, then the static fallback. Fetch never returns an error; prayer
// times must always render something usable.
type Service struct {
	client *api.Client
	cache  Cache
	now    func() time.Time
}

// NewService wires a prayer-time service. cache may be nil.
func NewService(client *api.Client, cache Cache) *Service {
	if client == nil {
		client = api.NewClient()
	}
	return &Service{client: client, cache: cache, now: time.Now}
}

// Fetch returns the schedule for the location and date. Only today's
// schedule is cached; the fallback is never cached.
func (s *Service) Fetch(ctx context.Context, loc geo.LocationInfo, date time.Time, method int, school api.School) PrayerTimes {
	fp := geo.FingerprintOf(loc)
	dateStr := date.Format("2006-01-02")
	now := s.now()
	isToday := dateStr == now.Format("2006-01-02")

	if isToday && s.cache != nil {
		if cached := s.cache.LoadTimings(fp, dateStr, now); cached != nil {
			times := *cached
			times.Source = SourceCache
			return times
		}
	}

	ctx, cancel := context.WithTimeout(ctx, api.DefaultTimeout)
	defer cancel()

	resp, err := s.client.Timings(ctx, date, loc.Latitude, loc.Longitude, method, school)
	if err != nil {
		log.Warn().Err(err).Str("date", dateStr).Msg("prayer time provider failed, using fallback schedule")
		return Fallback(dateStr)
	}

	times, err := normalize(resp.Data.Timings, resp.Data.Date, dateStr)
	if err != nil {
		log.Warn().Err(err).Str("date", dateStr).Msg("malformed provider schedule, using fallback")
		return Fallback(dateStr)
	}

	// A cancelled fetch must leave no partial cache write.
	if isToday && s.cache != nil && ctx.Err() == nil {
		if err := s.cache.SaveTimings(fp, times, now); err != nil {
			log.Warn().Err(err).Msg("could not cache prayer times")
		}
	}

	return times
}

// normalize converts a provider response into a PrayerTimes value,
// rejecting schedules whose prayers are not strictly increasing.
func normalize(t api.Timings, d api.DateInfo, date string) (PrayerTimes, error) {
	times := PrayerTimes{
		Date:      date,
		HijriDate: d.Hijri.Format(),
		Source:    SourceProvider,
	}

	clocks := []struct {
		raw string
		dst *string
	}{
		{t.Fajr, &times.Fajr},
		{t.Sunrise, &times.Sunrise},
		{t.Dhuhr, &times.Dhuhr},
		{t.Asr, &times.Asr},
		{t.Maghrib, &times.Maghrib},
		{t.Isha, &times.Isha},
	}
	for _, c := range clocks {
		clock, err := NormalizeClock(c.raw)
		if err != nil {
			return PrayerTimes{}, err
		}
		*c.dst = clock
	}

	if err := times.Validate(); err != nil {
		return PrayerTimes{}, err
	}

	return times, nil
}
