package handlers

import (
	"context"
	"log"
	"net/http"

	"lawncare-backend/internal/services"
	"lawncare-backend/pkg/utils"
)

type CustomerGeocoder interface {
	BackfillCustomers(ctx context.Context, store services.CustomerLocationStore) (services.BackfillResult, error)
}

// GeocodeCustomers handles POST /api/customers/geocode
func GeocodeCustomers(geocoder CustomerGeocoder, store services.CustomerLocationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📍 REQUEST: POST /api/customers/geocode")

		result, err := geocoder.BackfillCustomers(r.Context(), store)
		if err != nil {
			log.Printf("❌ Customer geocoding failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to geocode customers")
			return
		}
		utils.Success(w, result)
	}
}
