package cli

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/Bahtiyorjon05/salat/internal/api"
	"github.com/Bahtiyorjon05/salat/internal/display"
	"github.com/Bahtiyorjon05/salat/internal/qibla"
)

var flagOffline bool

func newQiblaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qibla",
		Short: "Show the qibla bearing from your location",
		Long:  "Compute the great-circle bearing toward the Kaaba from your resolved location.",
		RunE:  runQibla,
	}

	cmd.Flags().BoolVar(&flagOffline, "offline", false, "Skip the remote qibla lookup and use only the local formula")

	return cmd
}

func runQibla(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := effectiveConfig(cmd)

	cache, stateDir := newCache(cfg)
	loc, err := resolveForCommand(ctx, cfg, cache, stateDir)
	if err != nil {
		return err
	}

	var client *api.Client
	if !flagOffline {
		client = api.NewClient()
	}
	bearing := qibla.NewFinder(client).Bearing(ctx, loc.Latitude, loc.Longitude)
	distance := qibla.DistanceKm(loc.Latitude, loc.Longitude)

	if FlagJSON {
		out := struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Bearing   float64 `json:"bearing"`
			Compass   string  `json:"compass"`
			Distance  float64 `json:"distance_km"`
		}{loc.Latitude, loc.Longitude, bearing, qibla.CompassPoint(bearing), distance}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Qibla"))
	fmt.Println()
	fmt.Printf("  %s\n", locationLine(*loc))
	fmt.Printf("  %s %s\n", display.Accent(fmt.Sprintf("%d°", int(math.Round(bearing))%360)), display.Gray(qibla.CompassPoint(bearing)))
	fmt.Printf("  %s\n", display.Gray(fmt.Sprintf("%.0f km to the Kaaba", distance)))
	fmt.Println()
	return nil
}
