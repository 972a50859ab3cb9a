package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"lawncare-backend/internal/database"
	"lawncare-backend/internal/middleware"
	"lawncare-backend/internal/models"
	"lawncare-backend/internal/services/raindelay"
	"lawncare-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type DelayEvaluator interface {
	Check(ctx context.Context, serviceID string) (raindelay.Outcome, error)
	Evaluate(ctx context.Context, serviceID, actorID string) (raindelay.Outcome, error)
	EvaluateUpcoming(ctx context.Context, now time.Time) (raindelay.SweepResult, error)
}

type DelayHistoryLister interface {
	ListDelayHistory(ctx context.Context, serviceID string) ([]models.DelayHistory, error)
}

// CheckRainDelay handles POST /api/services/{id}/rain-delay/check. Nothing is written.
func CheckRainDelay(evaluator DelayEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID := chi.URLParam(r, "id")

		outcome, err := evaluator.Check(r.Context(), serviceID)
		if err != nil {
			writeServiceError(w, serviceID, err)
			return
		}
		utils.Success(w, outcome)
	}
}

// ApplyRainDelay handles POST /api/services/{id}/rain-delay/apply. A delay
// that could not be written answers 503 so the caller may retry.
func ApplyRainDelay(evaluator DelayEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID := chi.URLParam(r, "id")

		actorID := raindelay.SystemActor
		if user, ok := middleware.GetUserFromContext(r); ok {
			actorID = user.UserID
		}

		outcome, err := evaluator.Evaluate(r.Context(), serviceID, actorID)
		if err != nil {
			writeServiceError(w, serviceID, err)
			return
		}

		status := http.StatusOK
		if outcome.Decision.IsDelayed && !outcome.Persisted {
			status = http.StatusServiceUnavailable
		}
		utils.JSON(w, status, outcome)
	}
}

// RunRainDelaySweep handles POST /api/rain-delay/run
func RunRainDelaySweep(evaluator DelayEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("🌧️  REQUEST: POST /api/rain-delay/run")

		result, err := evaluator.EvaluateUpcoming(r.Context(), time.Now())
		if err != nil {
			log.Printf("❌ Rain delay sweep failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Rain delay sweep failed")
			return
		}
		utils.Success(w, result)
	}
}

// GetDelayHistory handles GET /api/services/{id}/rain-delay/history
func GetDelayHistory(history DelayHistoryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID := chi.URLParam(r, "id")

		entries, err := history.ListDelayHistory(r.Context(), serviceID)
		if errors.Is(err, database.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Service not found")
			return
		}
		if err != nil {
			log.Printf("❌ Error loading delay history for %s: %v", serviceID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to load delay history")
			return
		}
		utils.Success(w, entries)
	}
}

func writeServiceError(w http.ResponseWriter, serviceID string, err error) {
	if errors.Is(err, database.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, "Service not found")
		return
	}
	log.Printf("❌ Error evaluating service %s: %v", serviceID, err)
	utils.Error(w, http.StatusInternalServerError, "Failed to evaluate service")
}
