package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lawncare-backend/internal/models"
)

// GetBusinessProfile returns the oldest profile, or nil when none exists
func (s *Store) GetBusinessProfile(ctx context.Context) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	query := `
		SELECT id, business_name, address, weather_cache, updated_at
		FROM business_profiles
		ORDER BY updated_at ASC
		LIMIT 1
	`
	if err := s.db.GetContext(ctx, &profile, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}
	return &profile, nil
}

func (s *Store) SaveWeatherCache(ctx context.Context, profileID string, cache *models.WeatherCache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to encode weather cache: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE business_profiles SET weather_cache = $1, updated_at = NOW() WHERE id = $2`,
		data, profileID,
	)
	if err != nil {
		return fmt.Errorf("failed to save weather cache: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("business profile %s: %w", profileID, ErrNotFound)
	}
	return nil
}

// WeatherCache decodes the stored forecast. It returns nil when nothing has
// been cached yet.
func (s *Store) WeatherCache(ctx context.Context) (*models.WeatherCache, error) {
	profile, err := s.GetBusinessProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil || len(profile.WeatherCache) == 0 {
		return nil, nil
	}

	var cache models.WeatherCache
	if err := json.Unmarshal(profile.WeatherCache, &cache); err != nil {
		return nil, fmt.Errorf("failed to decode weather cache: %w", err)
	}
	return &cache, nil
}

// LatestForecast returns the cached days, or nil when there is no forecast
func (s *Store) LatestForecast(ctx context.Context) ([]models.DayForecast, error) {
	cache, err := s.WeatherCache(ctx)
	if err != nil || cache == nil {
		return nil, err
	}
	return cache.Days, nil
}
