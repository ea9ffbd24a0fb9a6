package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bahtiyorjon05/salat/internal/display"
	"github.com/Bahtiyorjon05/salat/internal/geo"
)

var flagGPS bool

func newLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve and show your location",
		Long: "Resolve your location through the automatic chain (cached location, then\n" +
			"IP geolocation). With --gps, request a device GPS fix instead; GPS is only\n" +
			"ever used when you ask for it explicitly.",
		RunE: runLocate,
	}

	cmd.Flags().BoolVar(&flagGPS, "gps", false, "Request a device GPS fix (requires gps_command config)")

	return cmd
}

func runLocate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := effectiveConfig(cmd)

	cache, stateDir := newCache(cfg)
	resolver := newResolver(cfg, cache, stateDir)

	var (
		loc *geo.LocationInfo
		err error
	)
	if flagGPS {
		loc, err = resolver.ResolveViaGPS(ctx)
	} else {
		loc, err = resolver.Resolve(ctx)
	}
	if err != nil {
		return describeLocationError(err)
	}

	if FlagJSON {
		data, err := json.MarshalIndent(loc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold(locationLine(*loc)))
	fmt.Printf("  %s\n", geo.FormatCoordinates(loc.Latitude, loc.Longitude))
	if loc.Region != "" {
		fmt.Printf("  %s\n", loc.Region)
	}
	fmt.Printf("  %s\n", display.Green("source: "+string(loc.Source)))
	fmt.Println()
	return nil
}

// describeLocationError keeps the typed error but adds a next step for the user.
func describeLocationError(err error) error {
	switch {
	case errors.Is(err, geo.ErrPermissionDenied):
		return fmt.Errorf("%w (grant location permission to your gps_command and retry)", err)
	case errors.Is(err, geo.ErrTimeout):
		return fmt.Errorf("%w (no fix within 10s; try again outdoors)", err)
	case errors.Is(err, geo.ErrUnresolved):
		return fmt.Errorf("%w (try `salat locate --gps`, or set coordinates via `salat config set latitude <value>`)", err)
	default:
		return err
	}
}
