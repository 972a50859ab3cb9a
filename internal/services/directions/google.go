package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Google Directions JSON endpoint
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleClient calls the Google Maps Directions API
type GoogleClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// httpStatusError is a non-2xx answer from the API
type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("API returned status code %d: %s", e.Code, e.Body)
}

// NewGoogleClient creates a Directions client. An empty baseURL uses the
// public endpoint and a nil httpClient gets a 10s timeout.
func NewGoogleClient(apiKey, baseURL string, httpClient *http.Client) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  httpClient,
	}, nil
}

// Directions requests a single route between the two places
func (c *GoogleClient) Directions(ctx context.Context, req Request) (*Response, error) {
	mode := req.Mode
	if mode == "" {
		mode = TravelModeDriving
	}

	params := url.Values{}
	params.Set("origin", req.Origin.String())
	params.Set("destination", req.Destination.String())
	params.Set("mode", string(mode))
	params.Set("units", "imperial")
	params.Set("key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
