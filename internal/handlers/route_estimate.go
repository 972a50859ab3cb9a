package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"lawncare-backend/internal/database"
	"lawncare-backend/internal/models"
	"lawncare-backend/internal/services/directions"
	"lawncare-backend/pkg/utils"
)

type RouteEstimator interface {
	EstimateRoute(ctx context.Context, origin, destination directions.Place) (models.RouteEstimate, error)
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
}

// EstimateRouteRequest takes each endpoint as an address string or a
// {"lat","lng"} object. CustomerID may stand in for the destination.
type EstimateRouteRequest struct {
	Origin      directions.Place `json:"origin"`
	Destination directions.Place `json:"destination"`
	CustomerID  string           `json:"customer_id,omitempty"`
}

// EstimateRoute handles POST /api/routes/estimate
func EstimateRoute(est RouteEstimator, customers CustomerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EstimateRouteRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.Destination.IsZero() && req.CustomerID != "" {
			dest, err := customerPlace(r.Context(), customers, req.CustomerID)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					utils.Error(w, http.StatusNotFound, "Customer not found")
					return
				}
				log.Printf("❌ Error loading customer %s: %v", req.CustomerID, err)
				utils.Error(w, http.StatusInternalServerError, "Failed to load customer")
				return
			}
			req.Destination = dest
		}

		estimate, err := est.EstimateRoute(r.Context(), req.Origin, req.Destination)
		if err != nil {
			status := routeErrorStatus(err)
			if status >= http.StatusInternalServerError {
				log.Printf("❌ Route estimate failed: %v", err)
			}

			body := map[string]string{"error": err.Error()}
			var re *directions.RoutingError
			if errors.As(err, &re) {
				body["status"] = re.Status.String()
			}
			utils.JSON(w, status, body)
			return
		}

		utils.Success(w, estimate)
	}
}

func customerPlace(ctx context.Context, customers CustomerLookup, id string) (directions.Place, error) {
	if customers == nil {
		return directions.Place{}, database.ErrNotFound
	}
	c, err := customers.GetCustomer(ctx, id)
	if err != nil {
		return directions.Place{}, err
	}
	if loc, ok := c.Location(); ok {
		return directions.At(loc.Lat, loc.Lng), nil
	}
	if c.Address != nil {
		return directions.Address(*c.Address), nil
	}
	return directions.Place{}, nil
}

// routeErrorStatus maps a routing failure to an HTTP status
func routeErrorStatus(err error) int {
	var re *directions.RoutingError
	if !errors.As(err, &re) {
		return http.StatusInternalServerError
	}
	switch {
	case re.Status == directions.StatusInvalidInput:
		return http.StatusBadRequest
	case re.Status.IsNoRoute():
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
