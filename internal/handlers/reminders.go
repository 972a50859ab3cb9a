package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"lawncare-backend/internal/services/reminders"
	"lawncare-backend/pkg/utils"
)

type ReminderRunner interface {
	Run(ctx context.Context, now time.Time) (reminders.Result, error)
}

// RunReminders handles POST /api/reminders/run
func RunReminders(runner ReminderRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📣 REQUEST: POST /api/reminders/run")

		result, err := runner.Run(r.Context(), time.Now())
		if err != nil {
			log.Printf("❌ Reminder run failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to send reminders")
			return
		}

		log.Printf("✅ Reminders sent: %d (1h), %d (24h), %d failed", result.OneHour, result.OneDay, result.Failed)
		utils.Success(w, result)
	}
}
