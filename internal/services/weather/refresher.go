package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lawncare-backend/internal/metrics"
	"lawncare-backend/internal/models"
)

var (
	ErrNoBusinessProfile = errors.New("business profile not found")
	ErrNoBusinessAddress = errors.New("business address not configured")
)

// ProfileStore reads the business profile and stores its forecast cache.
// GetBusinessProfile returns nil, nil when no profile exists.
type ProfileStore interface {
	GetBusinessProfile(ctx context.Context) (*models.BusinessProfile, error)
	SaveWeatherCache(ctx context.Context, profileID string, cache *models.WeatherCache) error
}

type Provider interface {
	Geocode(ctx context.Context, address string) (models.Location, error)
	Forecast(ctx context.Context, loc models.Location) (*ForecastResponse, error)
}

// Refresher rebuilds the forecast cache from the business address
type Refresher struct {
	store    ProfileStore
	provider Provider
	loc      *time.Location
	now      func() time.Time
}

func NewRefresher(store ProfileStore, provider Provider, loc *time.Location) *Refresher {
	if loc == nil {
		loc = time.UTC
	}
	return &Refresher{store: store, provider: provider, loc: loc, now: time.Now}
}

// Refresh geocodes the business address, fetches the forecast and saves the
// 3-day summary on the business profile
func (r *Refresher) Refresh(ctx context.Context) (cache *models.WeatherCache, err error) {
	defer func() { metrics.ObserveWeatherRefresh(err) }()

	profile, err := r.store.GetBusinessProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load business profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNoBusinessProfile
	}
	if profile.Address == nil || strings.TrimSpace(*profile.Address) == "" {
		return nil, ErrNoBusinessAddress
	}

	loc, err := r.provider.Geocode(ctx, *profile.Address)
	if err != nil {
		return nil, err
	}

	resp, err := r.provider.Forecast(ctx, loc)
	if err != nil {
		return nil, err
	}

	cache = Summarize(resp, r.now(), r.loc)
	if cache == nil {
		return nil, errors.New("forecast response had no entries")
	}

	if err := r.store.SaveWeatherCache(ctx, profile.ID, cache); err != nil {
		return nil, fmt.Errorf("save weather cache: %w", err)
	}

	log.Printf("🌦️  [WEATHER] Cache updated for %s, %s (%d days)", cache.Location, cache.Country, len(cache.Days))
	return cache, nil
}

// Run refreshes once immediately and then on every tick until ctx is cancelled
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.Refresh(ctx); err != nil {
			log.Printf("❌ [WEATHER] Refresh failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
