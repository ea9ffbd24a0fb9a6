package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bahtiyorjon05/salat/internal/api"
	"github.com/Bahtiyorjon05/salat/internal/display"
	"github.com/Bahtiyorjon05/salat/internal/geo"
	"github.com/Bahtiyorjon05/salat/internal/hijri"
	"github.com/Bahtiyorjon05/salat/internal/prayer"
)

func runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := effectiveConfig(cmd)
	layout := goTimeLayout(cfg.TimeFormat)

	cache, stateDir := newCache(cfg)

	loc, err := resolveForCommand(ctx, cfg, cache, stateDir)
	if err != nil {
		return err
	}

	now := time.Now()
	svc := newPrayerService(cache)
	times := svc.Fetch(ctx, *loc, now, cfg.MethodOrDefault(-1), api.School(cfg.SchoolOrDefault(0)))

	next := prayer.Next(times, now)
	special := hijri.NewService(nil).SpecialDay(ctx, now)

	if FlagJSON {
		return printTodayJSON(*loc, times, next, special, now, layout)
	}

	printTodayRich(*loc, times, next, special, now, layout)
	return nil
}

// printTodayRich renders the colored terminal output for today's schedule.
func printTodayRich(loc geo.LocationInfo, times prayer.PrayerTimes, next prayer.NextPrayerResult, special *hijri.SpecialDay, now time.Time, layout string) {
	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Prayer Times"))
	fmt.Println()

	fmt.Printf("  %s\n", locationLine(loc))
	fmt.Printf("  %s\n", now.Format("02 Jan 2006"))
	if times.HijriDate != "" {
		fmt.Printf("  %s\n", times.HijriDate)
	}
	if special != nil {
		fmt.Printf("  %s\n", display.Cyan(special.Name))
	}

	fmt.Println()

	nowMins := now.Hour()*60 + now.Minute()
	sched := display.NewSchedule()
	for _, nt := range times.Schedule() {
		timeStr := prayer.FormatClock(nt.Time, layout)
		switch {
		case nt.Name == next.Name && next.TimeUntil != prayer.TomorrowSentinel:
			sched.AddHighlightedRow(nt.Name, timeStr, fmt.Sprintf("<- next in %s", next.TimeUntil))
		case hasPassed(nt.Time, nowMins):
			sched.AddDimmedRow(nt.Name, timeStr)
		default:
			sched.AddRow(nt.Name, timeStr)
		}
	}
	fmt.Print(sched.Render())

	if next.TimeUntil == prayer.TomorrowSentinel {
		fmt.Printf("\n  %s\n", display.Gray("All prayers for today have passed. Next: Fajr tomorrow."))
	}

	if times.Source == prayer.SourceFallback {
		fmt.Printf("\n  %s\n", display.Yellow("approximate schedule: prayer time provider unreachable"))
	}

	fmt.Println()
}

// hasPassed reports whether an "HH:MM" clock is at or before now.
func hasPassed(clock string, nowMins int) bool {
	mins, err := prayer.MinutesOfDay(clock)
	if err != nil {
		return false
	}
	return mins <= nowMins
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location geo.LocationInfo        `json:"location"`
	Date     string                  `json:"date"`
	Hijri    string                  `json:"hijri,omitempty"`
	Special  *hijri.SpecialDay       `json:"special_day,omitempty"`
	Timings  map[string]string       `json:"timings"`
	Source   prayer.Source           `json:"source"`
	Next     prayer.NextPrayerResult `json:"next"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(loc geo.LocationInfo, times prayer.PrayerTimes, next prayer.NextPrayerResult, special *hijri.SpecialDay, now time.Time, layout string) error {
	timings := make(map[string]string)
	for _, nt := range times.Schedule() {
		timings[strings.ToLower(nt.Name)] = prayer.FormatClock(nt.Time, layout)
	}

	out := todayJSON{
		Location: loc,
		Date:     times.Date,
		Hijri:    times.HijriDate,
		Special:  special,
		Timings:  timings,
		Source:   times.Source,
		Next:     next,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
