package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"lawncare-backend/internal/models"
	"lawncare-backend/internal/services/weather"
	"lawncare-backend/pkg/utils"
)

type ForecastCache interface {
	WeatherCache(ctx context.Context) (*models.WeatherCache, error)
}

type ForecastRefresher interface {
	Refresh(ctx context.Context) (*models.WeatherCache, error)
}

// GetForecast handles GET /api/weather/forecast
func GetForecast(cache ForecastCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forecast, err := cache.WeatherCache(r.Context())
		if err != nil {
			log.Printf("❌ Error loading weather cache: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to load forecast")
			return
		}
		if forecast == nil {
			utils.Error(w, http.StatusNotFound, "No forecast cached yet")
			return
		}
		utils.Success(w, forecast)
	}
}

// RefreshWeather handles POST /api/weather/refresh
func RefreshWeather(refresher ForecastRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("🌦️  REQUEST: POST /api/weather/refresh")

		forecast, err := refresher.Refresh(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, weather.ErrNoBusinessProfile), errors.Is(err, weather.ErrNoBusinessAddress):
				utils.Error(w, http.StatusConflict, err.Error())
			case errors.Is(err, weather.ErrAddressNotFound):
				utils.Error(w, http.StatusUnprocessableEntity, err.Error())
			default:
				log.Printf("❌ Weather refresh failed: %v", err)
				utils.Error(w, http.StatusBadGateway, "Failed to refresh forecast")
			}
			return
		}
		utils.Success(w, forecast)
	}
}
