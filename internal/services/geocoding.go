package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lawncare-backend/internal/models"
)

const GeocodeBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

var ErrNoGeocodeResult = errors.New("no geocoding result")

// GeocodingService resolves customer addresses to coordinates using the
// Google Maps Geocoding API
type GeocodingService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// GoogleGeocodeResponse represents the Google Maps Geocoding API response
type GoogleGeocodeResponse struct {
	Results []struct {
		FormattedAddress string          `json:"formatted_address"`
		Geometry         struct {
			Location models.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService(apiKey, baseURL string, client *http.Client) (*GeocodingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	if baseURL == "" {
		baseURL = GeocodeBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &GeocodingService{apiKey: apiKey, baseURL: baseURL, client: client}, nil
}

// Geocode converts an address string to coordinates
func (s *GeocodingService) Geocode(ctx context.Context, address string) (models.Location, error) {
	params := url.Values{}
	params.Add("address", address)
	params.Add("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("API returned status code %d", resp.StatusCode)
	}

	var result GoogleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.Location{}, fmt.Errorf("failed to decode response: %w", err)
	}

	switch {
	case result.Status == "ZERO_RESULTS", result.Status == "OK" && len(result.Results) == 0:
		return models.Location{}, fmt.Errorf("%s: %w", address, ErrNoGeocodeResult)
	case result.Status != "OK":
		return models.Location{}, fmt.Errorf("geocoding API returned status %s: %s", result.Status, result.ErrorMessage)
	}

	return result.Results[0].Geometry.Location, nil
}

// CustomerLocationStore is the data access the customer backfill needs
type CustomerLocationStore interface {
	ListCustomersWithoutLocation(ctx context.Context) ([]models.Customer, error)
	UpdateByID(ctx context.Context, table, id string, patch map[string]any) error
}

type BackfillResult struct {
	Geocoded int `json:"geocoded"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// BackfillCustomers geocodes every customer that has an address but no
// coordinates, so route estimates can use exact points
func (s *GeocodingService) BackfillCustomers(ctx context.Context, store CustomerLocationStore) (BackfillResult, error) {
	var res BackfillResult

	customers, err := store.ListCustomersWithoutLocation(ctx)
	if err != nil {
		return res, fmt.Errorf("list customers: %w", err)
	}

	for _, c := range customers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if c.Address == nil || strings.TrimSpace(*c.Address) == "" {
			res.Skipped++
			continue
		}

		loc, err := s.Geocode(ctx, *c.Address)
		if err != nil {
			if errors.Is(err, ErrNoGeocodeResult) {
				log.Printf("⚠️  No geocoding result for customer %s", c.ID)
				res.Skipped++
				continue
			}
			log.Printf("❌ Geocoding customer %s failed: %v", c.ID, err)
			res.Failed++
			continue
		}

		if err := store.UpdateByID(ctx, "customers", c.ID, map[string]any{"lat": loc.Lat, "lng": loc.Lng}); err != nil {
			log.Printf("❌ Saving coordinates for customer %s failed: %v", c.ID, err)
			res.Failed++
			continue
		}
		res.Geocoded++
	}

	log.Printf("📍 Customer geocoding: %d geocoded, %d skipped, %d failed", res.Geocoded, res.Skipped, res.Failed)
	return res, nil
}
