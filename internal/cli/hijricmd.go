package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bahtiyorjon05/salat/internal/display"
	"github.com/Bahtiyorjon05/salat/internal/hijri"
)

var (
	flagHijriDate    string
	flagHijriReverse string
)

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri",
		Short: "Show the Hijri date and any special day",
		Long: "Convert today's date (or --date) to the Hijri calendar and report any\n" +
			"Islamic special day. With --reverse DD-MM-YYYY (Hijri), convert back to Gregorian.",
		RunE: runHijri,
	}

	cmd.Flags().StringVar(&flagHijriDate, "date", "", "Gregorian date to convert (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&flagHijriReverse, "reverse", "", "Hijri date to convert to Gregorian (DD-MM-YYYY)")

	return cmd
}

func runHijri(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := hijri.NewService(nil)

	if flagHijriReverse != "" {
		return runHijriReverse(cmd, svc)
	}

	date := time.Now()
	if flagHijriDate != "" {
		parsed, err := time.Parse("2006-01-02", flagHijriDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagHijriDate)
		}
		date = parsed
	}

	h, err := svc.ToHijri(ctx, date)
	if err != nil {
		return fmt.Errorf("hijri date unresolved: %w", err)
	}
	special := hijri.SpecialDayFor(*h)

	if FlagJSON {
		out := struct {
			Gregorian string            `json:"gregorian"`
			Hijri     hijri.HijriDate   `json:"hijri"`
			Special   *hijri.SpecialDay `json:"special_day,omitempty"`
		}{date.Format("2006-01-02"), *h, special}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold(date.Format("02 Jan 2006")))
	fmt.Printf("  %s %s\n", h.Weekday, h.Format())
	if special != nil {
		fmt.Printf("  %s %s\n", display.Cyan(special.Name), display.Gray("("+special.Description+")"))
	}
	fmt.Println()
	return nil
}

func runHijriReverse(cmd *cobra.Command, svc *hijri.Service) error {
	var day, month, year int
	if _, err := fmt.Sscanf(flagHijriReverse, "%d-%d-%d", &day, &month, &year); err != nil {
		return fmt.Errorf("invalid --reverse %q: want DD-MM-YYYY (Hijri)", flagHijriReverse)
	}

	g, err := svc.ToGregorian(cmd.Context(), day, month, year)
	if err != nil {
		return fmt.Errorf("gregorian date unresolved: %w", err)
	}

	if FlagJSON {
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s %s\n", g.Weekday, g.Format())
	return nil
}
