package models

import "time"

// Service is a row of the services table
type Service struct {
	ID          string     `json:"id" db:"id"`
	CustomerID  string     `json:"customer_id" db:"customer_id"`
	UserID      *string    `json:"user_id" db:"user_id"`
	ServiceType string     `json:"service_type" db:"service_type"`
	ScheduledAt time.Time  `json:"scheduled_at" db:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ScheduledService is the view of a service the delay evaluator and the
// reminder sender work with (service joined to its customer)
type ScheduledService struct {
	ID           string    `json:"id" db:"id"`
	ScheduledAt  time.Time `json:"scheduled_at" db:"scheduled_at"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	ServiceType  string    `json:"service_type" db:"service_type"`
	CustomerID   string    `json:"customer_id" db:"customer_id"`
	UserID       *string   `json:"user_id,omitempty" db:"user_id"`
}

// In returns a copy with ScheduledAt expressed in loc
func (s ScheduledService) In(loc *time.Location) ScheduledService {
	if loc != nil {
		s.ScheduledAt = s.ScheduledAt.In(loc)
	}
	return s
}

// ReminderTarget is an upcoming service paired with one device token of the
// user assigned to it
type ReminderTarget struct {
	ServiceID    string    `db:"service_id"`
	ServiceType  string    `db:"service_type"`
	ScheduledAt  time.Time `db:"scheduled_at"`
	CustomerID   string    `db:"customer_id"`
	CustomerName string    `db:"customer_name"`
	UserID       string    `db:"user_id"`
	Token        string    `db:"token"`
}
