package models

import "time"

// DelayDecision is the result of evaluating a service against the forecast.
// IsDelayed is true exactly when both NewScheduledAt and Reason are set.
type DelayDecision struct {
	IsDelayed      bool       `json:"is_delayed"`
	NewScheduledAt *time.Time `json:"new_scheduled_at,omitempty"`
	Reason         string     `json:"reason,omitempty"`
}

// NoDelay is the zero decision
func NoDelay() DelayDecision {
	return DelayDecision{}
}

// DelayHistory records a persisted delay
type DelayHistory struct {
	ID                  string    `json:"id" db:"id"`
	ServiceID           string    `json:"service_id" db:"service_id"`
	PreviousScheduledAt time.Time `json:"previous_scheduled_at" db:"previous_scheduled_at"`
	NewScheduledAt      time.Time `json:"new_scheduled_at" db:"new_scheduled_at"`
	Reason              string    `json:"reason" db:"reason"`
	ActorID             string    `json:"actor_id" db:"actor_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}
