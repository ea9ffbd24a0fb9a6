package qibla

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Bahtiyorjon05/salat/internal/api"
)

// Finder optionally consults the remote qibla endpoint before falling back
// to the local formula. The formula is authoritative: Bearing via a Finder
// never fails, and the remote value is only accepted when it is sane.
type Finder struct {
	client *api.Client
}

// NewFinder creates a Finder. client may be nil to skip the remote lookup.
func NewFinder(client *api.Client) *Finder {
	return &Finder{client: client}
}

// Bearing returns the qibla bearing for the coordinates, remote-first.
func (f *Finder) Bearing(ctx context.Context, lat, lon float64) float64 {
	if f.client != nil {
		dir, err := f.client.QiblaDirection(ctx, lat, lon)
		if err == nil && !math.IsNaN(dir) {
			return math.Mod(dir+360, 360)
		}
		if err != nil {
			log.Debug().Err(err).Msg("remote qibla lookup failed, using formula")
		}
	}
	return Bearing(lat, lon)
}
