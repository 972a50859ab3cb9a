package raindelay

import (
	"context"
	"log"
	"time"
)

// ServicesTable is the table delays are written to
const ServicesTable = "services"

// DataUpdater applies a partial update to one row identified by id
type DataUpdater interface {
	UpdateByID(ctx context.Context, table, id string, patch map[string]any) error
}

// ApplyDelay writes the new schedule and the reason onto one service. It is
// best effort: any updater failure, including a panic, is logged and reported
// as false. It never retries.
func ApplyDelay(ctx context.Context, updater DataUpdater, serviceID string, newScheduledAt time.Time, reason string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [RAIN DELAY] Updater panicked for service %s: %v", serviceID, r)
			ok = false
		}
	}()

	if updater == nil {
		log.Printf("❌ [RAIN DELAY] No data updater configured, service %s not updated", serviceID)
		return false
	}

	patch := map[string]any{
		"scheduled_at": newScheduledAt.UTC().Format(time.RFC3339),
		"notes":        reason,
	}
	if err := updater.UpdateByID(ctx, ServicesTable, serviceID, patch); err != nil {
		log.Printf("❌ [RAIN DELAY] Error applying rain delay to service %s: %v", serviceID, err)
		return false
	}

	log.Printf("🌧️  [RAIN DELAY] Rain delay applied: %s. New date: %s", reason, newScheduledAt.Format(time.RFC1123))
	return true
}
