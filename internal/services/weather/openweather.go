package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lawncare-backend/internal/models"
)

// DefaultBaseURL is the OpenWeatherMap API host
const DefaultBaseURL = "https://api.openweathermap.org"

var ErrAddressNotFound = errors.New("could not geocode the business address")

// OpenWeatherClient calls the OpenWeatherMap geocoding and 5 day / 3 hour forecast APIs
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// ForecastResponse is the subset of /data/2.5/forecast the summarizer reads
type ForecastResponse struct {
	List []ForecastItem `json:"list"`
	City ForecastCity   `json:"city"`
}

type ForecastCity struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type ForecastItem struct {
	Dt      int64               `json:"dt"`
	Main    ForecastMain        `json:"main"`
	Weather []ForecastCondition `json:"weather"`
	Wind    ForecastWind        `json:"wind"`
	Rain    *ForecastRain       `json:"rain,omitempty"`
}

type ForecastMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type ForecastCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type ForecastWind struct {
	Speed float64 `json:"speed"`
}

type ForecastRain struct {
	ThreeHour float64 `json:"3h"`
}

type geocodeResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// NewOpenWeatherClient creates a client. An empty baseURL uses the public API.
func NewOpenWeatherClient(apiKey, baseURL string, httpClient *http.Client) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenWeatherMap API key not configured")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}, nil
}

// Geocode resolves an address to coordinates
func (c *OpenWeatherClient) Geocode(ctx context.Context, address string) (models.Location, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("limit", "1")

	var results []geocodeResult
	if err := c.getJSON(ctx, "/geo/1.0/direct", params, &results); err != nil {
		return models.Location{}, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(results) == 0 {
		return models.Location{}, ErrAddressNotFound
	}

	return models.Location{Lat: results[0].Lat, Lng: results[0].Lon}, nil
}

// Forecast fetches the 5 day / 3 hour forecast in imperial units
func (c *OpenWeatherClient) Forecast(ctx context.Context, loc models.Location) (*ForecastResponse, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(loc.Lng, 'f', -1, 64))
	params.Set("units", "imperial")

	var resp ForecastResponse
	if err := c.getJSON(ctx, "/data/2.5/forecast", params, &resp); err != nil {
		return nil, fmt.Errorf("weather forecast failed: %w", err)
	}
	return &resp, nil
}

func (c *OpenWeatherClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API returned status code %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
