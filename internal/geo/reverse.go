package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Place is a best-effort human-readable name for a coordinate pair.
type Place struct {
	City    string
	Region  string
	Country string
}

// reverseResponse maps the BigDataCloud reverse-geocode-client response.
type reverseResponse struct {
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
	CountryName          string `json:"countryName"`
}

// ReverseGeocoder names coordinates. It never fails: when the remote lookup
// is unavailable it falls back to formatted coordinates.
type ReverseGeocoder struct {
	httpClient *http.Client
	// BaseURL is the reverse geocoding endpoint. Exported for testing.
	BaseURL string
}

// NewReverseGeocoder creates a reverse geocoder backed by the free
// BigDataCloud client endpoint (no API key required).
func NewReverseGeocoder() *ReverseGeocoder {
	return &ReverseGeocoder{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    "https://api.bigdatacloud.net/data/reverse-geocode-client",
	}
}

// Locate resolves a city/region/country for the coordinates.
// On any failure the City field carries the formatted coordinates instead.
func (g *ReverseGeocoder) Locate(ctx context.Context, lat, lon float64) Place {
	place, err := g.locate(ctx, lat, lon)
	if err != nil {
		log.Debug().Err(err).Float64("lat", lat).Float64("lon", lon).
			Msg("reverse geocoding failed, using coordinates")
		return Place{City: FormatCoordinates(lat, lon)}
	}
	return place
}

func (g *ReverseGeocoder) locate(ctx context.Context, lat, lon float64) (Place, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Place{}, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Place{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("reverse geocoding returned status %d", resp.StatusCode)
	}

	var result reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Place{}, fmt.Errorf("failed to decode reverse geocoding response: %w", err)
	}

	city := result.City
	if city == "" {
		city = result.Locality
	}
	if city == "" && result.CountryName == "" {
		return Place{}, fmt.Errorf("empty reverse geocoding result")
	}
	if city == "" {
		city = FormatCoordinates(lat, lon)
	}

	return Place{
		City:    city,
		Region:  result.PrincipalSubdivision,
		Country: result.CountryName,
	}, nil
}

// FormatCoordinates renders a coordinate pair as a display string,
// e.g. "21.42, 39.83".
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.2f, %.2f", lat, lon)
}
