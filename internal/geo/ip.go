package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Region   string  `json:"regionName"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

const ipTimeout = 5 * time.Second

// IPLocator looks up an approximate location from the caller's public IP.
// It requires no user permission and no API key.
type IPLocator struct {
	httpClient *http.Client
	// BaseURL is the geolocation endpoint. Exported for testing with httptest.
	BaseURL string
}

// NewIPLocator creates an IP geolocation client backed by ip-api.com.
func NewIPLocator() *IPLocator {
	return &IPLocator{
		httpClient: &http.Client{Timeout: ipTimeout},
		BaseURL:    "http://ip-api.com/json/?fields=status,message,lat,lon,city,regionName,country,timezone",
	}
}

// Locate determines the user's location from their public IP address.
func (l *IPLocator) Locate(ctx context.Context) (*LocationInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &LocationInfo{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Region:    result.Region,
		Country:   result.Country,
		Timezone:  result.Timezone,
		Source:    SourceIP,
	}, nil
}
