// Package directions estimates driving time between two places and flags
// long-distance jobs for dispatch.
package directions

import (
	"context"
	"errors"
	"log"

	"lawncare-backend/internal/metrics"
	"lawncare-backend/internal/models"
)

// Estimator turns one provider route query into a RouteEstimate. It holds no
// mutable state and is safe for concurrent use. There is no retry and no
// caching; callers wrap it if they need either.
type Estimator struct {
	provider RouteProvider
}

func NewEstimator(provider RouteProvider) *Estimator {
	return &Estimator{provider: provider}
}

// EstimateRoute queries a driving route from origin to destination and
// projects the first leg of the first route.
func (e *Estimator) EstimateRoute(ctx context.Context, origin, destination Place) (models.RouteEstimate, error) {
	estimate, err := e.estimate(ctx, origin, destination)
	metrics.ObserveRouteEstimate(statusOf(err).String(), estimate.IsLongDistance)
	return estimate, err
}

func (e *Estimator) estimate(ctx context.Context, origin, destination Place) (models.RouteEstimate, error) {
	if origin.IsZero() {
		return models.RouteEstimate{}, &RoutingError{Status: StatusInvalidInput, Message: "origin is required"}
	}
	if destination.IsZero() {
		return models.RouteEstimate{}, &RoutingError{Status: StatusInvalidInput, Message: "destination is required"}
	}

	resp, err := e.provider.Directions(ctx, Request{
		Origin:      origin,
		Destination: destination,
		Mode:        TravelModeDriving,
	})
	if err != nil {
		log.Printf("❌ [DIRECTIONS] %s -> %s: %v", origin, destination, err)
		return models.RouteEstimate{}, &RoutingError{Status: StatusTransportFailure, Err: err}
	}
	if resp == nil {
		return models.RouteEstimate{}, &RoutingError{Status: StatusMalformedResponse, Message: "empty response"}
	}

	status := ParseRouteStatus(resp.Status)
	if status != StatusOK {
		log.Printf("⚠️  [DIRECTIONS] %s -> %s: provider status %s", origin, destination, resp.Status)
		return models.RouteEstimate{}, &RoutingError{
			Status:    status,
			RawStatus: resp.Status,
			Message:   resp.ErrorMessage,
		}
	}

	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return models.RouteEstimate{}, &RoutingError{
			Status:    StatusMalformedResponse,
			RawStatus: resp.Status,
			Message:   "no route found",
		}
	}

	leg := resp.Routes[0].Legs[0]
	if leg.Distance == nil || leg.Duration == nil {
		return models.RouteEstimate{}, &RoutingError{
			Status:    StatusMalformedResponse,
			RawStatus: resp.Status,
			Message:   "route leg is missing distance or duration",
		}
	}

	return models.NewRouteEstimate(leg.Distance.Text, leg.Duration.Text, leg.Duration.Value), nil
}

func statusOf(err error) RouteStatus {
	if err == nil {
		return StatusOK
	}
	var re *RoutingError
	if errors.As(err, &re) {
		return re.Status
	}
	return StatusUnknownError
}
