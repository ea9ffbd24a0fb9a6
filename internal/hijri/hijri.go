// Package hijri converts Gregorian dates to and from the Hijri (Islamic)
// calendar and classifies dates as Islamic special days. Conversion is
// delegated to the remote calendar provider; the astronomical calculation
// itself is treated as authoritative upstream.
package hijri

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Bahtiyorjon05/salat/internal/api"
)

// HijriDate is one day in the Hijri calendar. Derived per query,
// never persisted.
type HijriDate struct {
	Day         int    `json:"day"`
	MonthNumber int    `json:"month_number"`
	MonthName   string `json:"month_name"`
	Year        int    `json:"year"`
	Weekday     string `json:"weekday"`
}

// Format renders the date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	return fmt.Sprintf("%d %s %d AH", h.Day, h.MonthName, h.Year)
}

// GregorianDate is the provider's Gregorian representation of a Hijri date.
type GregorianDate struct {
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Year      int    `json:"year"`
	Weekday   string `json:"weekday"`
}

// Format renders the date as "2 March 2026".
func (g GregorianDate) Format() string {
	return fmt.Sprintf("%d %s %d", g.Day, g.MonthName, g.Year)
}

// Service performs calendar conversion through the remote provider.
type Service struct {
	client *api.Client
}

// NewService creates a calendar service. client may be nil for defaults.
func NewService(client *api.Client) *Service {
	if client == nil {
		client = api.NewClient()
	}
	return &Service{client: client}
}

// ToHijri converts a Gregorian date. On provider failure it returns nil
// (unresolved) rather than a guessed date.
func (s *Service) ToHijri(ctx context.Context, date time.Time) (*HijriDate, error) {
	ctx, cancel := context.WithTimeout(ctx, api.DefaultTimeout)
	defer cancel()

	data, err := s.client.GregorianToHijri(ctx, date)
	if err != nil {
		return nil, err
	}

	h, err := parseHijri(data.Hijri)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ToGregorian converts a Hijri day/month/year. On provider failure it
// returns nil (unresolved).
func (s *Service) ToGregorian(ctx context.Context, day, month, year int) (*GregorianDate, error) {
	if day < 1 || day > 30 || month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid hijri date %d-%d-%d", day, month, year)
	}

	ctx, cancel := context.WithTimeout(ctx, api.DefaultTimeout)
	defer cancel()

	data, err := s.client.HijriToGregorian(ctx, day, month, year)
	if err != nil {
		return nil, err
	}

	g := data.Gregorian
	gDay, err := strconv.Atoi(g.Day)
	if err != nil {
		return nil, fmt.Errorf("bad gregorian day %q: %w", g.Day, err)
	}
	gYear, err := strconv.Atoi(g.Year)
	if err != nil {
		return nil, fmt.Errorf("bad gregorian year %q: %w", g.Year, err)
	}

	return &GregorianDate{
		Day:       gDay,
		Month:     g.Month.Number,
		MonthName: g.Month.En,
		Year:      gYear,
		Weekday:   g.Weekday.En,
	}, nil
}

// SpecialDay classifies a Gregorian date, or returns nil when the date is
// not special or the conversion is unresolved.
func (s *Service) SpecialDay(ctx context.Context, date time.Time) *SpecialDay {
	h, err := s.ToHijri(ctx, date)
	if err != nil || h == nil {
		return nil
	}
	return SpecialDayFor(*h)
}

// parseHijri converts the provider's string-heavy date into a HijriDate.
func parseHijri(h api.HijriDate) (*HijriDate, error) {
	day, err := strconv.Atoi(h.Day)
	if err != nil {
		return nil, fmt.Errorf("bad hijri day %q: %w", h.Day, err)
	}
	year, err := strconv.Atoi(h.Year)
	if err != nil {
		return nil, fmt.Errorf("bad hijri year %q: %w", h.Year, err)
	}
	if h.Month.Number < 1 || h.Month.Number > 12 {
		return nil, fmt.Errorf("bad hijri month %d", h.Month.Number)
	}

	return &HijriDate{
		Day:         day,
		MonthNumber: h.Month.Number,
		MonthName:   h.Month.En,
		Year:        year,
		Weekday:     h.Weekday.En,
	}, nil
}
