package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bahtiyorjon05/salat/internal/api"
	"github.com/Bahtiyorjon05/salat/internal/prayer"
)

var (
	flagFormat string
	flagWatch  bool
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nWith --watch, the countdown re-evaluates every second.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "Keep running and refresh the countdown every second")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := effectiveConfig(cmd)
	layout := goTimeLayout(cfg.TimeFormat)

	cache, stateDir := newCache(cfg)

	loc, err := resolveForCommand(ctx, cfg, cache, stateDir)
	if err != nil {
		return err
	}

	svc := newPrayerService(cache)
	times := svc.Fetch(ctx, *loc, time.Now(), cfg.MethodOrDefault(-1), api.School(cfg.SchoolOrDefault(0)))

	if !flagWatch {
		res := prayer.Next(times, time.Now())
		fmt.Print(prayer.FormatNext(res, flagFormat, layout))
		return nil
	}

	// The engine holds no timer; this loop owns the re-evaluation cadence.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		res := prayer.Next(times, time.Now())
		fmt.Printf("\r\033[K%s", prayer.FormatNext(res, flagFormat, layout))

		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-ticker.C:
		}
	}
}
