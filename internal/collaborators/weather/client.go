// Package weather fetches marine conditions to pre-fill risk assessments.
//
// The provider is an optional convenience: a guide can always enter
// conditions manually, and a provider failure never blocks an assessment.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/anchorline/tripgate/internal/platform/timeouts"
	"github.com/anchorline/tripgate/internal/trip/risk"
)

// Conditions are the provider's current marine observations mapped onto
// the risk scorer's input units.
type Conditions struct {
	WaveHeightM  float64
	WindSpeedKmh float64
	Weather      risk.WeatherCondition
}

// Client reads current conditions from an Open-Meteo-style marine endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a weather client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeouts.WeatherFetch},
	}
}

// currentResponse mirrors the provider's JSON payload.
type currentResponse struct {
	Current struct {
		WaveHeight   float64 `json:"wave_height"`
		WindSpeed10M float64 `json:"wind_speed_10m"`
		WeatherCode  int     `json:"weather_code"`
	} `json:"current"`
}

// Fetch returns current conditions for a position.
func (c *Client) Fetch(ctx context.Context, latitude, longitude float64) (Conditions, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", longitude))
	query.Set("current", "wave_height,wind_speed_10m,weather_code")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("build weather request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return Conditions{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Conditions{}, fmt.Errorf("fetch weather: unexpected status %d", response.StatusCode)
	}

	var payload currentResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return Conditions{}, fmt.Errorf("decode weather response: %w", err)
	}

	return Conditions{
		WaveHeightM:  payload.Current.WaveHeight,
		WindSpeedKmh: payload.Current.WindSpeed10M,
		Weather:      conditionForCode(payload.Current.WeatherCode),
	}, nil
}

// conditionForCode buckets WMO weather codes into the scorer's categories.
func conditionForCode(code int) risk.WeatherCondition {
	switch {
	case code == 0:
		return risk.WeatherClear
	case code <= 48:
		return risk.WeatherCloudy
	case code <= 82:
		return risk.WeatherRainy
	default:
		return risk.WeatherStormy
	}
}
