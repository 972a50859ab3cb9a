package handlers

import (
	"context"
	"net/http"
	"time"

	"lawncare-backend/pkg/utils"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health handles GET /health
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
			return
		}
		utils.Success(w, map[string]string{"status": "ok"})
	}
}

// Unavailable answers 503 for a feature whose provider is not configured
func Unavailable(feature string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusServiceUnavailable, feature+" is not configured")
	}
}
