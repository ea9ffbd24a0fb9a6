// Package api implements the client for the remote Al Adhan-style API that
// backs prayer timings, Hijri calendar conversion, and the optional remote
// qibla bearing.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// DefaultTimeout bounds every provider request.
const DefaultTimeout = 15 * time.Second

// School selects the Asr calculation convention. It only affects Asr.
type School int

const (
	// SchoolStandard is the Shafi convention (shadow length = object length).
	SchoolStandard School = 0
	// SchoolHanafi uses twice the object length.
	SchoolHanafi School = 1
)

// String returns the human-readable school name.
func (s School) String() string {
	if s == SchoolHanafi {
		return "Hanafi"
	}
	return "Standard"
}

// Client communicates with the prayer-times/calendar/qibla provider.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		BaseURL: defaultBaseURL,
	}
}

// Timings fetches prayer times for the given date and coordinates.
// method < 0 lets the provider pick a default calculation method.
func (c *Client) Timings(ctx context.Context, date time.Time, lat, lon float64, method int, school School) (*Response, error) {
	dateStr := date.Format("02-01-2006")
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, dateStr)

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}
	params.Set("school", fmt.Sprintf("%d", int(school)))

	var resp Response
	if err := c.doRequest(ctx, "timings", endpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, badResponse("timings", fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status))
	}
	return &resp, nil
}

// GregorianToHijri converts a Gregorian date to its Hijri representation.
func (c *Client) GregorianToHijri(ctx context.Context, date time.Time) (*ConversionData, error) {
	endpoint := fmt.Sprintf("%s/gToH/%s", c.BaseURL, date.Format("02-01-2006"))
	return c.convert(ctx, "gToH", endpoint)
}

// HijriToGregorian converts a Hijri day/month/year to its Gregorian representation.
func (c *Client) HijriToGregorian(ctx context.Context, day, month, year int) (*ConversionData, error) {
	endpoint := fmt.Sprintf("%s/hToG/%02d-%02d-%d", c.BaseURL, day, month, year)
	return c.convert(ctx, "hToG", endpoint)
}

func (c *Client) convert(ctx context.Context, op, endpoint string) (*ConversionData, error) {
	var resp ConversionResponse
	if err := c.doRequest(ctx, op, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, badResponse(op, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status))
	}
	return &resp.Data, nil
}

// QiblaDirection fetches the remote qibla bearing for the given coordinates.
func (c *Client) QiblaDirection(ctx context.Context, lat, lon float64) (float64, error) {
	endpoint := fmt.Sprintf("%s/qibla/%f/%f", c.BaseURL, lat, lon)

	var resp QiblaResponse
	if err := c.doRequest(ctx, "qibla", endpoint, nil, &resp); err != nil {
		return 0, err
	}
	if resp.Code != http.StatusOK {
		return 0, badResponse("qibla", fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status))
	}
	return resp.Data.Direction, nil
}

// doRequest issues a GET and decodes the JSON body into out.
// The context bounds the whole request; timeouts surface as KindTimeout.
func (c *Client) doRequest(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return badResponse(op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return badResponse(op, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return badResponse(op, fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}
